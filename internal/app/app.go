package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"BrandRadar/internal/cluster"
	"BrandRadar/internal/config"
	"BrandRadar/internal/domain"
	"BrandRadar/internal/ingest"
	"BrandRadar/internal/logging"
	"BrandRadar/internal/metrics"
	"BrandRadar/internal/notify"
	"BrandRadar/internal/ports"
	"BrandRadar/internal/report"
	"BrandRadar/internal/schedule"
	"BrandRadar/internal/sentiment"
	"BrandRadar/internal/server"
	"BrandRadar/internal/source"
	"BrandRadar/internal/storage"
	"BrandRadar/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	store    *storage.PostgresStore
	db       *sql.DB
	runs     *server.RunManager
	httpSrv  *http.Server
	sched    ports.Scheduler
}

// New builds a runnable application instance from configuration.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := prometheus.NewRegistry()
	mset := metrics.NewSet(registry)

	fetchers := source.NewRegistry()
	fetchers.Register(source.NewNewsAPIFetcher(nil))
	fetchers.Register(source.NewWebSearchFetcher(nil))
	fetchers.Register(source.NewBlogScrapeFetcher(nil))
	src := source.NewStrategySource(fetchers, cfg, baseLogger.With("component", "source"))

	var (
		db    *sql.DB
		store *storage.PostgresStore
	)
	if cfg.Database.DSN != "" {
		var err error
		db, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		store = storage.NewPostgresStore(db)
	}

	var dedupe ports.DedupeIndex
	var audit ports.AuditRepository
	var reports ports.ReportRepository
	if store != nil {
		dedupe = store
		audit = store
		reports = store
	}

	ingestor := ingest.NewIngestor(dedupe, baseLogger.With("component", "ingest"))

	backend, err := buildBackend(cfg.Classifier)
	if err != nil {
		return nil, err
	}
	classifier := sentiment.NewEngine(backend, cfg.Classifier.ConfidenceThreshold, sentiment.RetryConfig{
		MaxAttempts:    cfg.Classifier.MaxAttempts,
		InitialBackoff: cfg.Classifier.InitialBackoff,
		MaxBackoff:     cfg.Classifier.MaxBackoff,
	}, baseLogger.With("component", "classifier"))

	var publisher ports.ReportPublisher
	if tg := cfg.Notifications.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		publisher = notify.NewTelegramPublisher(tg.BotToken, tg.ChatID)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     src,
		Ingestor:   ingestor,
		Classifier: classifier,
		Dedupe:     dedupe,
		Audit:      audit,
		Reports:    reports,
		Publisher:  publisher,
		Metrics:    mset,
		Logger:     baseLogger.With("component", "pipeline"),
	}, usecase.Options{
		Workers:             cfg.Pipeline.Workers,
		QueueCapacity:       cfg.Pipeline.QueueCapacity,
		ClusteringMode:      cluster.Mode(cfg.Pipeline.ClusteringMode),
		SimilarityThreshold: cfg.Pipeline.SimilarityThreshold,
		EscalationPct:       cfg.Pipeline.EscalationThresholdPc,
		NotableTopK:         cfg.Pipeline.NotableTopK,
		PartialReport:       cfg.Pipeline.PartialReport,
		LookbackWindow:      cfg.Pipeline.LookbackWindow,
		Rules:               report.RulesFromConfig(cfg.Recommendations),
	})

	runs := server.NewRunManager(pipeline, mset, baseLogger.With("component", "runs"))
	handler := server.NewHandler(runs, cfg.Brand, cfg.Keywords)
	router := server.NewRouter(handler, registry)

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		pipeline: pipeline,
		store:    store,
		db:       db,
		runs:     runs,
		httpSrv:  server.NewHTTPServer(router, cfg.Server),
		sched:    schedulerFor(cfg.Scheduler),
	}, nil
}

func buildBackend(cfg config.ClassifierConfig) (sentiment.Backend, error) {
	switch cfg.Mode {
	case "", "lexicon":
		return sentiment.NewDefaultLexicon(cfg.ModelVersion), nil
	case "remote":
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("remote classifier requires an endpoint")
		}
		return sentiment.NewRemote(cfg.Endpoint, cfg.APIKey, cfg.ModelVersion, nil), nil
	default:
		return nil, fmt.Errorf("unknown classifier mode %q", cfg.Mode)
	}
}

func schedulerFor(cfg config.SchedulerConfig) ports.Scheduler {
	if cfg.Interval <= 0 {
		return nil
	}
	return schedule.NewIntervalScheduler(cfg.Interval)
}

// RunOnce executes a single monitoring run and returns the rendered report.
func (a *Application) RunOnce(ctx context.Context) (string, error) {
	if err := a.ensureSchema(ctx); err != nil {
		return "", err
	}

	run := domain.Run{
		ID:        uuid.NewString(),
		Brand:     a.cfg.Brand,
		Keywords:  a.cfg.Keywords,
		Status:    domain.RunRunning,
		StartedAt: time.Now().UTC(),
	}

	_, markdown, err := a.pipeline.Execute(ctx, run)
	if err != nil {
		return "", err
	}
	return markdown, nil
}

// Serve starts the HTTP daemon and, when configured, the recurring run
// scheduler. It blocks until the context is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	if err := a.ensureSchema(ctx); err != nil {
		return err
	}

	if a.sched != nil {
		err := a.sched.Start(ctx, func(time.Time) {
			run := a.runs.Start(a.cfg.Brand, a.cfg.Keywords)
			a.logger.Info("scheduled run started", "run", run.ID)
		})
		if err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer a.sched.Stop(context.Background())
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.httpSrv.Addr)
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	return server.Shutdown(a.httpSrv, 10*time.Second)
}

func (a *Application) ensureSchema(ctx context.Context) error {
	if a.store == nil {
		return nil
	}
	if err := a.store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
