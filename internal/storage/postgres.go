package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"BrandRadar/internal/domain"
	"BrandRadar/internal/ports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresStore persists the dedupe index, the classification audit trail
// and report artifacts in Postgres.
type PostgresStore struct {
	db *sql.DB
}

var _ ports.DedupeIndex = (*PostgresStore)(nil)
var _ ports.AuditRepository = (*PostgresStore)(nil)
var _ ports.ReportRepository = (*PostgresStore)(nil)

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// AlreadySeen returns a map with dedupe keys that already exist in storage.
func (s *PostgresStore) AlreadySeen(ctx context.Context, keys []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if s.db == nil || len(keys) == 0 {
		return result, nil
	}

	query, args, err := psql.
		Select("dedupe_key").
		From("processed_mentions").
		Where("dedupe_key = ANY(?)", pq.StringArray(keys)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build seen query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query seen keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		result[key] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// MarkSeen records the mentions' dedupe keys; replays are ignored.
func (s *PostgresStore) MarkSeen(ctx context.Context, mentions []domain.Mention) error {
	if s.db == nil || len(mentions) == 0 {
		return nil
	}

	builder := psql.
		Insert("processed_mentions").
		Columns("dedupe_key", "mention_id", "source", "seen_at")
	for _, m := range mentions {
		builder = builder.Values(m.DedupeKey(), m.ID, m.Source, m.Timestamp)
	}
	builder = builder.Suffix("ON CONFLICT (dedupe_key) DO NOTHING")

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build mark-seen insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert seen keys: %w", err)
	}
	return nil
}

// SaveClassified appends the run's classification trail, unclassified
// mentions included.
func (s *PostgresStore) SaveClassified(ctx context.Context, runID string, mentions []domain.ClassifiedMention) error {
	if s.db == nil || len(mentions) == 0 {
		return nil
	}

	builder := psql.
		Insert("classified_mentions").
		Columns("run_id", "mention_id", "source", "raw_text", "url", "mention_ts",
			"provenance", "polarity", "confidence", "model_version")
	for _, m := range mentions {
		builder = builder.Values(runID, m.ID, m.Source, m.RawText, m.URL, m.Timestamp,
			string(m.Provenance), string(m.Polarity), m.Confidence, m.ModelVersion)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build audit insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert audit trail: %w", err)
	}
	return nil
}

// SaveReport stores the terminal report artifact for the run.
func (s *PostgresStore) SaveReport(ctx context.Context, report domain.Report, markdown string) error {
	if s.db == nil {
		return nil
	}

	query, args, err := psql.
		Insert("reports").
		Columns("run_id", "brand", "report_date", "positive_pct", "negative_pct",
			"neutral_pct", "measured_total", "unclassified_count", "body_markdown").
		Values(report.RunID, report.Brand, report.Date,
			report.Distribution.PositivePct, report.Distribution.NegativePct,
			report.Distribution.NeutralPct, report.MeasuredTotal,
			report.UnclassifiedN, markdown).
		ToSql()
	if err != nil {
		return fmt.Errorf("build report insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// ReportMarkdown loads the rendered report body for a run.
func (s *PostgresStore) ReportMarkdown(ctx context.Context, runID string) (string, error) {
	if s.db == nil {
		return "", sql.ErrNoRows
	}

	query, args, err := psql.
		Select("body_markdown").
		From("reports").
		Where(sq.Eq{"run_id": runID}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build report query: %w", err)
	}

	var body string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&body); err != nil {
		return "", fmt.Errorf("load report: %w", err)
	}
	return body, nil
}
