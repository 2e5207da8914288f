package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		configPathEnv, databaseDSNEnv, newsAPIKeyEnv, serperAPIKeyEnv,
		sentimentKeyEnv, telegramToken, telegramChatID, serverPortEnv, brandOverrideEnv,
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Brand != "NVIDIA" {
		t.Fatalf("unexpected default brand %q", cfg.Brand)
	}
	if cfg.Pipeline.Workers != defaultWorkers {
		t.Fatalf("unexpected default workers %d", cfg.Pipeline.Workers)
	}
	if cfg.Pipeline.ClusteringMode != "batch" {
		t.Fatalf("unexpected clustering mode %q", cfg.Pipeline.ClusteringMode)
	}
	if cfg.Classifier.Mode != "lexicon" {
		t.Fatalf("unexpected classifier mode %q", cfg.Classifier.Mode)
	}
	if cfg.Classifier.ConfidenceThreshold != defaultConfidenceThreshold {
		t.Fatalf("unexpected confidence threshold %f", cfg.Classifier.ConfidenceThreshold)
	}
	if cfg.Server.Port != defaultServerPort {
		t.Fatalf("unexpected server port %d", cfg.Server.Port)
	}
	if cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("unexpected timezone %s", cfg.Scheduler.Location())
	}
	if len(cfg.Recommendations) == 0 || cfg.Recommendations[0].Pattern != "*" {
		t.Fatalf("default fallback rule missing: %+v", cfg.Recommendations)
	}
}

func TestLoadMergesYAMLFile(t *testing.T) {
	clearEnv(t)

	yaml := `
brand: AMD
keywords: ["ryzen", "radeon"]
server:
  port: 9090
scheduler:
  interval: 6h
  timezone: Europe/Berlin
pipeline:
  workers: 2
  clusteringMode: online
  escalationThresholdPct: 25
classifier:
  mode: remote
  endpoint: https://scoring.internal
  modelVersion: remote-v2
sources:
  - name: tech-blog
    kind: blogscrape
    url: https://blog.example.com
    options:
      entrySelector: article
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)

	cfg := Load()

	if cfg.Brand != "AMD" {
		t.Fatalf("brand not merged: %q", cfg.Brand)
	}
	if len(cfg.Keywords) != 2 || cfg.Keywords[0] != "ryzen" {
		t.Fatalf("keywords not merged: %v", cfg.Keywords)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("port not merged: %d", cfg.Server.Port)
	}
	if cfg.Scheduler.Interval != 6*time.Hour {
		t.Fatalf("interval not merged: %s", cfg.Scheduler.Interval)
	}
	if cfg.Scheduler.Location().String() != "Europe/Berlin" {
		t.Fatalf("timezone not bound: %s", cfg.Scheduler.Location())
	}
	if cfg.Pipeline.Workers != 2 || cfg.Pipeline.ClusteringMode != "online" {
		t.Fatalf("pipeline not merged: %+v", cfg.Pipeline)
	}
	if cfg.Pipeline.EscalationThresholdPc != 25 {
		t.Fatalf("escalation threshold not merged: %d", cfg.Pipeline.EscalationThresholdPc)
	}
	// Knobs the file omits keep their defaults.
	if cfg.Pipeline.QueueCapacity != defaultQueueCapacity {
		t.Fatalf("queue capacity lost: %d", cfg.Pipeline.QueueCapacity)
	}
	if cfg.Classifier.Mode != "remote" || cfg.Classifier.Endpoint != "https://scoring.internal" {
		t.Fatalf("classifier not merged: %+v", cfg.Classifier)
	}
	if cfg.Classifier.MaxAttempts != defaultMaxAttempts {
		t.Fatalf("retry defaults lost: %d", cfg.Classifier.MaxAttempts)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].Kind != "blogscrape" {
		t.Fatalf("sources not replaced: %+v", cfg.Sources)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(databaseDSNEnv, "postgres://radar:secret@db/radar")
	t.Setenv(brandOverrideEnv, "Intel")
	t.Setenv(newsAPIKeyEnv, "news-key")
	t.Setenv(sentimentKeyEnv, "scoring-key")
	t.Setenv(serverPortEnv, "9999")

	cfg := Load()

	if cfg.Database.DSN != "postgres://radar:secret@db/radar" {
		t.Fatalf("dsn override missing: %q", cfg.Database.DSN)
	}
	if cfg.Brand != "Intel" {
		t.Fatalf("brand override missing: %q", cfg.Brand)
	}
	if cfg.Classifier.APIKey != "scoring-key" {
		t.Fatalf("classifier key override missing: %q", cfg.Classifier.APIKey)
	}
	if cfg.Sources[0].Options["apiKey"] != "news-key" {
		t.Fatalf("newsapi key not injected: %v", cfg.Sources[0].Options)
	}
	if cfg.Server.Port != 9999 {
		t.Fatalf("port override missing: %d", cfg.Server.Port)
	}
}

func TestLoadFloorsBadValues(t *testing.T) {
	clearEnv(t)

	yaml := `
pipeline:
  workers: -3
  similarityThreshold: -1
  clusteringMode: spiral
classifier:
  maxAttempts: -1
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)

	cfg := Load()

	if cfg.Pipeline.Workers != defaultWorkers {
		t.Fatalf("negative workers not floored: %d", cfg.Pipeline.Workers)
	}
	if cfg.Pipeline.SimilarityThreshold != defaultSimilarityThreshold {
		t.Fatalf("negative threshold not floored: %f", cfg.Pipeline.SimilarityThreshold)
	}
	if cfg.Pipeline.ClusteringMode != "batch" {
		t.Fatalf("unknown mode not normalized: %q", cfg.Pipeline.ClusteringMode)
	}
	if cfg.Classifier.MaxAttempts != defaultMaxAttempts {
		t.Fatalf("negative attempts not floored: %d", cfg.Classifier.MaxAttempts)
	}
}

func TestLoadUnknownTimezoneFallsBack(t *testing.T) {
	clearEnv(t)

	yaml := "scheduler:\n  timezone: Mars/Olympus\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)

	cfg := Load()
	if cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("expected UTC fallback, got %s", cfg.Scheduler.Location())
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := Load()
	if cfg.Brand != "NVIDIA" || cfg.Server.Port != defaultServerPort {
		t.Fatalf("defaults not applied: brand=%q port=%d", cfg.Brand, cfg.Server.Port)
	}
}
