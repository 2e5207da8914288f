package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"BrandRadar/internal/config"
	"BrandRadar/internal/domain"
	"BrandRadar/internal/ports"
)

// StrategySource implements ports.MentionSource by fanning a fetch out to all
// configured feeds through their registered strategies. Each feed is
// rate-limited independently so one aggressive scrape cannot starve the rest.
type StrategySource struct {
	registry *Registry
	sources  []config.SourceConfig
	brand    string
	keywords []string
	limiters map[string]*rate.Limiter
	logger   *slog.Logger
}

var _ ports.MentionSource = (*StrategySource)(nil)

// NewStrategySource wires the fetcher registry with config-defined feeds.
func NewStrategySource(reg *Registry, cfg config.Config, log *slog.Logger) *StrategySource {
	limiters := make(map[string]*rate.Limiter, len(cfg.Sources))
	for _, src := range cfg.Sources {
		rps := src.RPS
		if rps <= 0 {
			rps = 1
		}
		limiters[src.Name] = rate.NewLimiter(rate.Limit(rps), rps)
	}

	return &StrategySource{
		registry: reg,
		sources:  cfg.Sources,
		brand:    cfg.Brand,
		keywords: cfg.Keywords,
		limiters: limiters,
		logger:   log,
	}
}

// FetchSince executes every configured feed and aggregates the raw records.
// A single failing feed is logged and skipped; the fetch only fails when no
// feed produced anything and at least one errored.
func (s *StrategySource) FetchSince(ctx context.Context, query domain.Query, since time.Time) ([]domain.RawRecord, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("fetcher registry is not configured")
	}

	brand := query.Brand
	if brand == "" {
		brand = s.brand
	}
	keywords := query.Keywords
	if len(keywords) == 0 {
		keywords = s.keywords
	}

	s.debug("fetch since", "sources", len(s.sources), "brand", brand, "since", since.Format(time.RFC3339))

	var (
		aggregated []domain.RawRecord
		lastErr    error
		failures   int
	)

	for _, src := range s.sources {
		fetcher, err := s.registry.Resolve(src.Kind)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src.Name, err)
		}

		if lim := s.limiters[src.Name]; lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return aggregated, fmt.Errorf("rate limit wait for %s: %w", src.Name, err)
			}
		}

		req := Request{
			Since:      since,
			SourceName: src.Name,
			URL:        src.URL,
			Brand:      brand,
			Keywords:   keywords,
			Options:    src.Options,
		}

		records, err := fetcher.Fetch(ctx, req)
		if err != nil {
			failures++
			lastErr = err
			if s.logger != nil {
				s.logger.Warn("feed fetch failed", "source", src.Name, "error", err)
			}
			continue
		}

		for i := range records {
			if records[i].Source == "" {
				records[i].Source = src.Name
			}
			if records[i].Provenance == "" {
				records[i].Provenance = domain.ProvenanceMeasured
			}
		}
		s.debug("feed produced records", "source", src.Name, "count", len(records))
		aggregated = append(aggregated, records...)
	}

	if len(aggregated) == 0 && failures > 0 {
		return nil, fmt.Errorf("all %d feeds failed, last: %w", failures, lastErr)
	}

	s.debug("strategy source done", "total_records", len(aggregated))
	return aggregated, nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
