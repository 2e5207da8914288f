package domain

import "time"

// Theme is a cluster of mentions sharing a topic. Membership is frozen once
// aggregation starts.
type Theme struct {
	ID             string
	Label          string
	Members        []ClassifiedMention
	Centroid       map[string]float64
	Representative string
}

// Size returns the number of member mentions.
func (t Theme) Size() int { return len(t.Members) }

// SentimentDistribution holds whole-percent sentiment shares. The three
// buckets always sum to exactly 100 over the scoped mention set.
type SentimentDistribution struct {
	PositivePct int
	NegativePct int
	NeutralPct  int
}

// Total is the invariant check helper; a valid distribution returns 100.
func (d SentimentDistribution) Total() int {
	return d.PositivePct + d.NegativePct + d.NeutralPct
}

// ThemeSummary is the aggregated view of a theme embedded in a report.
type ThemeSummary struct {
	Label          string
	MentionCount   int
	Distribution   SentimentDistribution
	Representative string
}

// NotableMention is a mention selected for direct quotation, ranked by
// confidence weighted with the size of its theme.
type NotableMention struct {
	ClassifiedMention
	ThemeLabel string
	Weight     float64
}

// Recommendation is one numbered entry of the report's action section.
type Recommendation struct {
	ThemeLabel string
	Action     string
	Rationale  string
	Tactics    []string
}

// Report is the immutable terminal artifact of a pipeline run.
type Report struct {
	RunID            string
	Brand            string
	Date             time.Time
	ExecutiveSummary string
	Distribution     SentimentDistribution
	Themes           []ThemeSummary
	Notables         []NotableMention
	Recommendations  []Recommendation
	MeasuredTotal    int
	UnclassifiedN    int
}
