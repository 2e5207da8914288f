package domain

import "time"

// RunStatus enumerates monitoring run milestones.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	RunCancelled RunStatus = "cancelled"
)

// Query selects what the upstream feeds are searched for.
type Query struct {
	Brand    string
	Keywords []string
}

// Run describes one monitoring execution: which brand was searched, with what
// keywords, and how the run ended.
type Run struct {
	ID         string
	Brand      string
	Keywords   []string
	Status     RunStatus
	StartedAt  time.Time
	FinishedAt time.Time
	Error      string
}

// Query returns the search selection of this run.
func (r Run) Query() Query {
	return Query{Brand: r.Brand, Keywords: r.Keywords}
}
