package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"BrandRadar/internal/domain"
	"BrandRadar/internal/ports"
)

// ErrMalformedRecord marks a raw record that cannot become a Mention because
// a required field (text, source) is absent. The record is skipped and
// logged; the batch continues.
var ErrMalformedRecord = errors.New("malformed record")

// Alias tables resolving inconsistent provider field naming to the canonical
// Mention schema. Order matters: the first non-empty alias wins.
var (
	textAliases = []string{"raw_text", "text", "body", "content", "description", "snippet", "title"}
	urlAliases  = []string{"url", "link", "href"}
	timeAliases = []string{"timestamp", "publishedAt", "published", "date", "created_at"}
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Stats summarizes one ingestion batch.
type Stats struct {
	Accepted   int
	Malformed  int
	Duplicates int
}

// Ingestor normalizes raw records into Mentions and deduplicates them by
// (source, text hash), both inside the batch and against the cross-run index.
// The index is read-only here: keys are committed by the caller once the run
// has produced its report, so a failed or cancelled run never consumes them.
type Ingestor struct {
	dedupe ports.DedupeIndex
	logger *slog.Logger
	now    func() time.Time
}

// NewIngestor builds an ingestor; dedupe may be nil, which limits
// deduplication to the current batch.
func NewIngestor(dedupe ports.DedupeIndex, logger *slog.Logger) *Ingestor {
	return &Ingestor{dedupe: dedupe, logger: logger, now: time.Now}
}

// Ingest converts raw records to Mentions, skipping malformed records and
// duplicates. It never aborts the batch over a bad record.
func (in *Ingestor) Ingest(ctx context.Context, records []domain.RawRecord) ([]domain.Mention, Stats, error) {
	var stats Stats

	mentions := make([]domain.Mention, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for _, rec := range records {
		mention, err := in.normalize(rec)
		if err != nil {
			stats.Malformed++
			if in.logger != nil {
				in.logger.Warn("skipping record", "source", rec.Source, "error", err)
			}
			continue
		}

		key := mention.DedupeKey()
		if _, dup := seen[key]; dup {
			stats.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		mentions = append(mentions, mention)
	}

	mentions, crossDups, err := in.dropAlreadySeen(ctx, mentions)
	if err != nil {
		return nil, stats, err
	}
	stats.Duplicates += crossDups
	stats.Accepted = len(mentions)

	return mentions, stats, nil
}

func (in *Ingestor) normalize(rec domain.RawRecord) (domain.Mention, error) {
	if strings.TrimSpace(rec.Source) == "" {
		return domain.Mention{}, fmt.Errorf("%w: missing source", ErrMalformedRecord)
	}

	text := firstField(rec.Fields, textAliases)
	if text == "" {
		return domain.Mention{}, fmt.Errorf("%w: missing raw_text", ErrMalformedRecord)
	}

	provenance := rec.Provenance
	if provenance == "" {
		provenance = domain.ProvenanceMeasured
	}

	return domain.Mention{
		ID:         uuid.NewString(),
		Source:     rec.Source,
		RawText:    text,
		Timestamp:  in.resolveTimestamp(rec),
		URL:        firstField(rec.Fields, urlAliases),
		Provenance: provenance,
	}, nil
}

func (in *Ingestor) resolveTimestamp(rec domain.RawRecord) time.Time {
	raw := firstField(rec.Fields, timeAliases)
	for _, layout := range timeLayouts {
		if raw == "" {
			break
		}
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC()
		}
	}
	if !rec.FetchedAt.IsZero() {
		return rec.FetchedAt.UTC()
	}
	return in.now().UTC()
}

func (in *Ingestor) dropAlreadySeen(ctx context.Context, mentions []domain.Mention) ([]domain.Mention, int, error) {
	if in.dedupe == nil || len(mentions) == 0 {
		return mentions, 0, nil
	}

	keys := make([]string, len(mentions))
	for i, m := range mentions {
		keys[i] = m.DedupeKey()
	}

	known, err := in.dedupe.AlreadySeen(ctx, keys)
	if err != nil {
		return nil, 0, fmt.Errorf("load seen keys: %w", err)
	}

	fresh := mentions[:0]
	dropped := 0
	for _, m := range mentions {
		if known[m.DedupeKey()] {
			dropped++
			continue
		}
		fresh = append(fresh, m)
	}

	return fresh, dropped, nil
}

func firstField(fields map[string]string, aliases []string) string {
	for _, alias := range aliases {
		if v := strings.TrimSpace(fields[alias]); v != "" {
			return v
		}
	}
	return ""
}
