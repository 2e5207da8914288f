package storage

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS processed_mentions (
    dedupe_key TEXT PRIMARY KEY,
    mention_id TEXT NOT NULL,
    source     TEXT NOT NULL,
    seen_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS classified_mentions (
    id            BIGSERIAL PRIMARY KEY,
    run_id        TEXT NOT NULL,
    mention_id    TEXT NOT NULL,
    source        TEXT NOT NULL,
    raw_text      TEXT NOT NULL,
    url           TEXT,
    mention_ts    TIMESTAMPTZ,
    provenance    TEXT NOT NULL,
    polarity      TEXT NOT NULL,
    confidence    DOUBLE PRECISION NOT NULL,
    model_version TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS classified_mentions_run_idx ON classified_mentions (run_id);

CREATE TABLE IF NOT EXISTS reports (
    run_id             TEXT PRIMARY KEY,
    brand              TEXT NOT NULL,
    report_date        TIMESTAMPTZ NOT NULL,
    positive_pct       INT NOT NULL,
    negative_pct       INT NOT NULL,
    neutral_pct        INT NOT NULL,
    measured_total     INT NOT NULL,
    unclassified_count INT NOT NULL,
    body_markdown      TEXT NOT NULL,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// EnsureSchema creates the tables when they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
