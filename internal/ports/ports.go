package ports

import (
	"context"
	"time"

	"BrandRadar/internal/domain"
)

// MentionSource pulls fresh raw mention records from upstream feeds. An
// empty query falls back to the source's configured defaults.
type MentionSource interface {
	FetchSince(ctx context.Context, query domain.Query, since time.Time) ([]domain.RawRecord, error)
}

// Classifier assigns a polarity and confidence to a mention. Classification
// must be deterministic for identical (raw_text, model_version).
type Classifier interface {
	Classify(ctx context.Context, m domain.Mention) (domain.ClassifiedMention, error)
	ModelVersion() string
}

// DedupeIndex remembers which (source, text-hash) keys were already ingested
// so syndicated copies do not get counted twice across runs.
type DedupeIndex interface {
	AlreadySeen(ctx context.Context, keys []string) (map[string]bool, error)
	MarkSeen(ctx context.Context, mentions []domain.Mention) error
}

// AuditRepository keeps the full classification trail, including mentions
// that ended up unclassified.
type AuditRepository interface {
	SaveClassified(ctx context.Context, runID string, mentions []domain.ClassifiedMention) error
}

// ReportRepository persists the terminal report artifact.
type ReportRepository interface {
	SaveReport(ctx context.Context, report domain.Report, markdown string) error
	ReportMarkdown(ctx context.Context, runID string) (string, error)
}

// ReportPublisher pushes the rendered report to an outbound channel.
type ReportPublisher interface {
	Publish(ctx context.Context, markdown string) error
}

// Scheduler controls when recurring monitoring runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
