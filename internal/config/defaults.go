package config

import "time"

const (
	defaultWorkers             = 8
	defaultQueueCapacity       = 256
	defaultSimilarityThreshold = 0.6
	defaultEscalationPct       = 15
	defaultNotableTopK         = 3
	defaultConfidenceThreshold = 0.55
	defaultMaxAttempts         = 4
	defaultInitialBackoff      = 200 * time.Millisecond
	defaultMaxBackoff          = 10 * time.Second
	defaultLookbackWindow      = 24 * time.Hour
	defaultServerPort          = 8080
)

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Brand:    "NVIDIA",
		Keywords: []string{"AI chips", "GPU"},
		Database: DatabaseConfig{DSN: ""},
		Server: ServerConfig{
			Port:         defaultServerPort,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Scheduler: SchedulerConfig{Interval: 0, Timezone: defaultTimezone, location: tz},
		Pipeline: PipelineConfig{
			Workers:               defaultWorkers,
			QueueCapacity:         defaultQueueCapacity,
			ClusteringMode:        "batch",
			SimilarityThreshold:   defaultSimilarityThreshold,
			EscalationThresholdPc: defaultEscalationPct,
			NotableTopK:           defaultNotableTopK,
			PartialReport:         false,
			LookbackWindow:        defaultLookbackWindow,
		},
		Classifier: ClassifierConfig{
			Mode:                "lexicon",
			ModelVersion:        "lexicon-v1",
			ConfidenceThreshold: defaultConfidenceThreshold,
			MaxAttempts:         defaultMaxAttempts,
			InitialBackoff:      defaultInitialBackoff,
			MaxBackoff:          defaultMaxBackoff,
		},
		Logging: LoggingConfig{Level: "info"},
		Sources: []SourceConfig{
			{
				Name: "newsapi-everything",
				Kind: "newsapi",
				URL:  "https://newsapi.org/v2/everything",
				RPS:  2,
			},
		},
		Recommendations: []RecommendationConfig{
			{
				Pattern:   "*",
				Action:    "Review negative coverage in this theme",
				Rationale: "Negative share crossed the escalation threshold",
				Tactics:   []string{"Assign an owner", "Draft a public response"},
			},
		},
	}
}
