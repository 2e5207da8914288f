package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"

	configPathEnv    = "BRAND_RADAR_CONFIG"
	databaseDSNEnv   = "DATABASE_DSN"
	newsAPIKeyEnv    = "NEWSAPI_API_KEY"
	serperAPIKeyEnv  = "SERPER_API_KEY"
	sentimentKeyEnv  = "SENTIMENT_API_KEY"
	telegramToken    = "TELEGRAM_BOT_TOKEN"
	telegramChatID   = "TELEGRAM_CHAT_ID"
	serverPortEnv    = "BRAND_RADAR_PORT"
	brandOverrideEnv = "BRAND_RADAR_BRAND"
)

// Config holds high-level settings required across the application.
type Config struct {
	Brand           string                 `yaml:"brand"`
	Keywords        []string               `yaml:"keywords"`
	Database        DatabaseConfig         `yaml:"database"`
	Server          ServerConfig           `yaml:"server"`
	Scheduler       SchedulerConfig        `yaml:"scheduler"`
	Pipeline        PipelineConfig         `yaml:"pipeline"`
	Classifier      ClassifierConfig       `yaml:"classifier"`
	Notifications   NotificationConfig     `yaml:"notifications"`
	Logging         LoggingConfig          `yaml:"logging"`
	Sources         []SourceConfig         `yaml:"sources"`
	Recommendations []RecommendationConfig `yaml:"recommendations"`
}

// DatabaseConfig describes Postgres connection details.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// ServerConfig describes the HTTP API daemon.
type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

// SchedulerConfig defines when recurring monitoring runs execute.
type SchedulerConfig struct {
	Interval time.Duration  `yaml:"interval"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// PipelineConfig carries the knobs of the aggregation pipeline.
type PipelineConfig struct {
	Workers               int           `yaml:"workers"`
	QueueCapacity         int           `yaml:"queueCapacity"`
	ClusteringMode        string        `yaml:"clusteringMode"` // online | batch
	SimilarityThreshold   float64       `yaml:"similarityThreshold"`
	EscalationThresholdPc int           `yaml:"escalationThresholdPct"`
	NotableTopK           int           `yaml:"notableTopK"`
	PartialReport         bool          `yaml:"partialReport"`
	LookbackWindow        time.Duration `yaml:"lookbackWindow"`
}

// ClassifierConfig selects and tunes the sentiment backend.
type ClassifierConfig struct {
	Mode                string        `yaml:"mode"` // lexicon | remote
	Endpoint            string        `yaml:"endpoint"`
	APIKey              string        `yaml:"apiKey"`
	ModelVersion        string        `yaml:"modelVersion"`
	ConfidenceThreshold float64       `yaml:"confidenceThreshold"`
	MaxAttempts         int           `yaml:"maxAttempts"`
	InitialBackoff      time.Duration `yaml:"initialBackoff"`
	MaxBackoff          time.Duration `yaml:"maxBackoff"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SourceConfig describes a single feed with its fetch strategy.
type SourceConfig struct {
	Name    string            `yaml:"name"`
	Kind    string            `yaml:"kind"` // newsapi | websearch | blogscrape
	URL     string            `yaml:"url"`
	RPS     int               `yaml:"rps"`
	Options map[string]string `yaml:"options"`
}

// RecommendationConfig maps a theme-label pattern to a recommendation
// template. Pattern "*" matches any theme and acts as the fallback rule.
type RecommendationConfig struct {
	Pattern   string   `yaml:"pattern"`
	Action    string   `yaml:"action"`
	Rationale string   `yaml:"rationale"`
	Tactics   []string `yaml:"tactics"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()
	cfg.applyFloors()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(brandOverrideEnv); v != "" {
		c.Brand = v
	}

	if v := os.Getenv(telegramToken); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatID); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(sentimentKeyEnv); v != "" {
		c.Classifier.APIKey = v
	}

	if v := os.Getenv(serverPortEnv); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Server.Port = port
		} else {
			log.Printf("config: invalid %s value %q, keeping %d", serverPortEnv, v, c.Server.Port)
		}
	}

	for i := range c.Sources {
		switch c.Sources[i].Kind {
		case "newsapi":
			if v := os.Getenv(newsAPIKeyEnv); v != "" {
				setOption(&c.Sources[i], "apiKey", v)
			}
		case "websearch":
			if v := os.Getenv(serperAPIKeyEnv); v != "" {
				setOption(&c.Sources[i], "apiKey", v)
			}
		}
	}
}

func setOption(src *SourceConfig, key, value string) {
	if src.Options == nil {
		src.Options = map[string]string{}
	}
	src.Options[key] = value
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

// applyFloors clamps numeric knobs to sane operating ranges so a partial
// YAML file cannot zero out the pipeline.
func (c *Config) applyFloors() {
	if c.Pipeline.Workers <= 0 {
		c.Pipeline.Workers = defaultWorkers
	}
	if c.Pipeline.QueueCapacity <= 0 {
		c.Pipeline.QueueCapacity = defaultQueueCapacity
	}
	if c.Pipeline.SimilarityThreshold <= 0 {
		c.Pipeline.SimilarityThreshold = defaultSimilarityThreshold
	}
	if c.Pipeline.EscalationThresholdPc <= 0 {
		c.Pipeline.EscalationThresholdPc = defaultEscalationPct
	}
	if c.Pipeline.NotableTopK <= 0 {
		c.Pipeline.NotableTopK = defaultNotableTopK
	}
	if c.Pipeline.LookbackWindow <= 0 {
		c.Pipeline.LookbackWindow = defaultLookbackWindow
	}
	if c.Pipeline.ClusteringMode != "online" && c.Pipeline.ClusteringMode != "batch" {
		c.Pipeline.ClusteringMode = "batch"
	}
	if c.Classifier.ConfidenceThreshold <= 0 {
		c.Classifier.ConfidenceThreshold = defaultConfidenceThreshold
	}
	if c.Classifier.MaxAttempts <= 0 {
		c.Classifier.MaxAttempts = defaultMaxAttempts
	}
	if c.Classifier.InitialBackoff <= 0 {
		c.Classifier.InitialBackoff = defaultInitialBackoff
	}
	if c.Classifier.MaxBackoff <= 0 {
		c.Classifier.MaxBackoff = defaultMaxBackoff
	}
	if c.Server.Port <= 0 {
		c.Server.Port = defaultServerPort
	}
}

func mergeConfig(base, override Config) Config {
	if override.Brand != "" {
		base.Brand = override.Brand
	}
	if len(override.Keywords) > 0 {
		base.Keywords = override.Keywords
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Server.Port != 0 {
		base.Server.Port = override.Server.Port
	}
	if override.Server.ReadTimeout != 0 {
		base.Server.ReadTimeout = override.Server.ReadTimeout
	}
	if override.Server.WriteTimeout != 0 {
		base.Server.WriteTimeout = override.Server.WriteTimeout
	}

	if override.Scheduler.Interval != 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	base.Pipeline = mergePipeline(base.Pipeline, override.Pipeline)
	base.Classifier = mergeClassifier(base.Classifier, override.Classifier)

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}
	if len(override.Recommendations) > 0 {
		base.Recommendations = override.Recommendations
	}

	return base
}

func mergePipeline(base, override PipelineConfig) PipelineConfig {
	if override.Workers != 0 {
		base.Workers = override.Workers
	}
	if override.QueueCapacity != 0 {
		base.QueueCapacity = override.QueueCapacity
	}
	if override.ClusteringMode != "" {
		base.ClusteringMode = override.ClusteringMode
	}
	if override.SimilarityThreshold != 0 {
		base.SimilarityThreshold = override.SimilarityThreshold
	}
	if override.EscalationThresholdPc != 0 {
		base.EscalationThresholdPc = override.EscalationThresholdPc
	}
	if override.NotableTopK != 0 {
		base.NotableTopK = override.NotableTopK
	}
	if override.PartialReport {
		base.PartialReport = true
	}
	if override.LookbackWindow != 0 {
		base.LookbackWindow = override.LookbackWindow
	}
	return base
}

func mergeClassifier(base, override ClassifierConfig) ClassifierConfig {
	if override.Mode != "" {
		base.Mode = override.Mode
	}
	if override.Endpoint != "" {
		base.Endpoint = override.Endpoint
	}
	if override.APIKey != "" {
		base.APIKey = override.APIKey
	}
	if override.ModelVersion != "" {
		base.ModelVersion = override.ModelVersion
	}
	if override.ConfidenceThreshold != 0 {
		base.ConfidenceThreshold = override.ConfidenceThreshold
	}
	if override.MaxAttempts != 0 {
		base.MaxAttempts = override.MaxAttempts
	}
	if override.InitialBackoff != 0 {
		base.InitialBackoff = override.InitialBackoff
	}
	if override.MaxBackoff != 0 {
		base.MaxBackoff = override.MaxBackoff
	}
	return base
}
