// Package metrics exposes the pipeline's Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Set groups all counters the pipeline records. A nil *Set is valid and
// records nothing, which keeps unit tests free of registry plumbing.
type Set struct {
	MentionsIngested  prometheus.Counter
	MentionsDuplicate prometheus.Counter
	RecordsMalformed  prometheus.Counter
	Classified        *prometheus.CounterVec
	Runs              *prometheus.CounterVec
}

// NewSet registers the counters with the given registerer.
func NewSet(reg prometheus.Registerer) *Set {
	factory := promauto.With(reg)
	return &Set{
		MentionsIngested: factory.NewCounter(prometheus.CounterOpts{
			Name: "brandradar_mentions_ingested_total",
			Help: "Mentions accepted by the ingestor after dedup.",
		}),
		MentionsDuplicate: factory.NewCounter(prometheus.CounterOpts{
			Name: "brandradar_mentions_duplicate_total",
			Help: "Raw records dropped as duplicates.",
		}),
		RecordsMalformed: factory.NewCounter(prometheus.CounterOpts{
			Name: "brandradar_records_malformed_total",
			Help: "Raw records skipped because required fields were missing.",
		}),
		Classified: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "brandradar_classified_total",
			Help: "Classification verdicts by polarity.",
		}, []string{"polarity"}),
		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "brandradar_runs_total",
			Help: "Monitoring runs by outcome.",
		}, []string{"outcome"}),
	}
}

// ObserveIngest records one ingestion batch.
func (s *Set) ObserveIngest(accepted, duplicates, malformed int) {
	if s == nil {
		return
	}
	s.MentionsIngested.Add(float64(accepted))
	s.MentionsDuplicate.Add(float64(duplicates))
	s.RecordsMalformed.Add(float64(malformed))
}

// ObserveClassified records one verdict.
func (s *Set) ObserveClassified(polarity string) {
	if s == nil {
		return
	}
	s.Classified.WithLabelValues(polarity).Inc()
}

// ObserveRun records a finished run.
func (s *Set) ObserveRun(outcome string) {
	if s == nil {
		return
	}
	s.Runs.WithLabelValues(outcome).Inc()
}
