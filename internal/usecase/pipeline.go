package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"BrandRadar/internal/cluster"
	"BrandRadar/internal/domain"
	"BrandRadar/internal/ingest"
	"BrandRadar/internal/metrics"
	"BrandRadar/internal/ports"
	"BrandRadar/internal/report"
)

// ErrRunCancelled is returned when a run is cancelled mid-flight and partial
// reporting is disabled: drained results are discarded and no report
// artifact exists for the run.
var ErrRunCancelled = errors.New("run cancelled before completion")

// PipelineDeps wires all driven adapters into the orchestration pipeline.
// Dedupe, Audit, Reports and Publisher may be nil when the pipeline runs
// without persistence (tests, dry runs).
type PipelineDeps struct {
	Source     ports.MentionSource
	Ingestor   *ingest.Ingestor
	Classifier ports.Classifier
	Dedupe     ports.DedupeIndex
	Audit      ports.AuditRepository
	Reports    ports.ReportRepository
	Publisher  ports.ReportPublisher
	Metrics    *metrics.Set
	Logger     *slog.Logger
}

// Options carries the run-level knobs of the pipeline.
type Options struct {
	Workers             int
	QueueCapacity       int
	ClusteringMode      cluster.Mode
	SimilarityThreshold float64
	EscalationPct       int
	NotableTopK         int
	PartialReport       bool
	LookbackWindow      time.Duration
	Rules               report.RuleSet
}

// Pipeline implements the mention aggregation workflow: fetch, ingest,
// classify concurrently, cluster, aggregate, synthesize, persist, publish.
type Pipeline struct {
	deps PipelineDeps
	opts Options
	now  func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps, opts Options) *Pipeline {
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	if opts.QueueCapacity <= 0 {
		opts.QueueCapacity = 256
	}
	if opts.LookbackWindow <= 0 {
		opts.LookbackWindow = 24 * time.Hour
	}
	return &Pipeline{deps: deps, opts: opts, now: time.Now}
}

// Execute runs the full pipeline for one monitoring run and returns the
// report with its rendered markdown.
func (p *Pipeline) Execute(ctx context.Context, run domain.Run) (domain.Report, string, error) {
	if p.deps.Source == nil {
		return domain.Report{}, "", fmt.Errorf("no mention source configured")
	}

	started := p.now()
	since := started.Add(-p.opts.LookbackWindow)

	records, err := p.deps.Source.FetchSince(ctx, run.Query(), since)
	if err != nil {
		return domain.Report{}, "", fmt.Errorf("fetch mentions: %w", err)
	}

	mentions, stats, err := p.deps.Ingestor.Ingest(ctx, records)
	if err != nil {
		return domain.Report{}, "", fmt.Errorf("ingest records: %w", err)
	}
	p.deps.Metrics.ObserveIngest(stats.Accepted, stats.Duplicates, stats.Malformed)
	p.log("ingestion done", "accepted", stats.Accepted, "duplicates", stats.Duplicates, "malformed", stats.Malformed)

	classified, cancelled := p.classifyAll(ctx, mentions)
	if cancelled && !p.opts.PartialReport {
		p.log("run cancelled, discarding partial results", "drained", len(classified))
		return domain.Report{}, "", ErrRunCancelled
	}

	clusterer := cluster.New(p.opts.SimilarityThreshold, p.opts.ClusteringMode)
	themes := clusterer.Cluster(classified)

	synth := report.NewSynthesizer(p.opts.Rules, p.opts.EscalationPct, p.opts.NotableTopK)
	rpt, err := synth.Synthesize(run, themes, started)
	if err != nil {
		return domain.Report{}, "", fmt.Errorf("synthesize report: %w", err)
	}
	markdown := report.Render(rpt)

	if p.deps.Audit != nil && len(classified) > 0 {
		if err := p.deps.Audit.SaveClassified(ctx, run.ID, classified); err != nil {
			return domain.Report{}, "", fmt.Errorf("persist audit trail: %w", err)
		}
	}
	if p.deps.Reports != nil {
		if err := p.deps.Reports.SaveReport(ctx, rpt, markdown); err != nil {
			return domain.Report{}, "", fmt.Errorf("persist report: %w", err)
		}
	}
	// Dedupe keys commit only after the report artifact exists, and only for
	// mentions that made it into it; a failed or cancelled run leaves the
	// index untouched so a re-run sees the same mentions again.
	if p.deps.Dedupe != nil && len(classified) > 0 {
		processed := make([]domain.Mention, 0, len(classified))
		for _, cm := range classified {
			processed = append(processed, cm.Mention)
		}
		if err := p.deps.Dedupe.MarkSeen(ctx, processed); err != nil {
			return domain.Report{}, "", fmt.Errorf("mark mentions seen: %w", err)
		}
	}
	if p.deps.Publisher != nil {
		if err := p.deps.Publisher.Publish(ctx, markdown); err != nil {
			// The report exists and is persisted; publication failure is not fatal.
			p.warn("publish report failed", "run", run.ID, "error", err)
		}
	}

	return rpt, markdown, nil
}

type classifyJob struct {
	seq     int
	mention domain.Mention
}

type classifyResult struct {
	seq        int
	classified domain.ClassifiedMention
}

// classifyAll pushes mentions through a bounded queue into a worker pool.
// The queue provides backpressure; once the context is cancelled no new
// mentions are admitted while in-flight classifications drain. Results are
// reordered back to arrival order so online clustering stays meaningful.
func (p *Pipeline) classifyAll(ctx context.Context, mentions []domain.Mention) ([]domain.ClassifiedMention, bool) {
	if len(mentions) == 0 {
		return nil, ctx.Err() != nil
	}

	queue := make(chan classifyJob, p.opts.QueueCapacity)
	results := make(chan classifyResult, len(mentions))

	var wg sync.WaitGroup
	for w := 0; w < p.opts.Workers; w++ {
		wg.Add(1)
		go p.worker(ctx, queue, results, &wg)
	}

	go func() {
		defer close(queue)
		for i, m := range mentions {
			select {
			case <-ctx.Done():
				return
			case queue <- classifyJob{seq: i, mention: m}:
			}
		}
	}()

	wg.Wait()
	close(results)

	collected := make([]classifyResult, 0, len(mentions))
	for r := range results {
		collected = append(collected, r)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].seq < collected[j].seq })

	classified := make([]domain.ClassifiedMention, 0, len(collected))
	for _, r := range collected {
		p.deps.Metrics.ObserveClassified(string(r.classified.Polarity))
		classified = append(classified, r.classified)
	}

	// Every admitted job yields a result, so a shortfall means admission
	// stopped early: the run was cancelled mid-flight.
	cancelled := len(classified) < len(mentions)
	return classified, cancelled
}

func (p *Pipeline) worker(ctx context.Context, queue <-chan classifyJob, results chan<- classifyResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for job := range queue {
		cm, err := p.deps.Classifier.Classify(ctx, job.mention)
		if err != nil {
			// Permanent classifier errors degrade the mention to
			// unclassified; the run itself stays recoverable.
			p.warn("classification failed", "mention", job.mention.ID, "error", err)
			cm = domain.ClassifiedMention{
				Mention:      job.mention,
				Polarity:     domain.PolarityUnclassified,
				ModelVersion: p.deps.Classifier.ModelVersion(),
			}
		}
		results <- classifyResult{seq: job.seq, classified: cm}
	}
}

func (p *Pipeline) log(msg string, args ...interface{}) {
	if p.deps.Logger != nil {
		p.deps.Logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...interface{}) {
	if p.deps.Logger != nil {
		p.deps.Logger.Warn(msg, args...)
	}
}
