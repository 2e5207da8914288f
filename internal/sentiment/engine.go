package sentiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"BrandRadar/internal/domain"
	"BrandRadar/internal/ports"
)

// RetryConfig tunes how long the engine keeps retrying an unavailable
// backend before marking the mention unclassified.
type RetryConfig struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
}

// Engine wraps a scoring backend with the two pipeline-level policies: the
// confidence threshold that forces ambiguous verdicts to neutral, and retry
// with exponential backoff when the backend is unavailable. After retries
// are exhausted the mention is marked unclassified and kept for audit.
type Engine struct {
	backend   Backend
	threshold float64
	retry     RetryConfig
	logger    *slog.Logger
	sleep     func(context.Context, time.Duration) error
}

var _ ports.Classifier = (*Engine)(nil)

// NewEngine builds the classifier used by the pipeline.
func NewEngine(backend Backend, threshold float64, retry RetryConfig, logger *slog.Logger) *Engine {
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = 4
	}
	if retry.InitialBackoff <= 0 {
		retry.InitialBackoff = 200 * time.Millisecond
	}
	if retry.MaxBackoff <= 0 {
		retry.MaxBackoff = 10 * time.Second
	}
	if retry.Multiplier <= 1 {
		retry.Multiplier = 2.0
	}

	return &Engine{
		backend:   backend,
		threshold: threshold,
		retry:     retry,
		logger:    logger,
		sleep:     sleepCtx,
	}
}

// ModelVersion reports the backend version stamped on every classification.
func (e *Engine) ModelVersion() string {
	return e.backend.Version()
}

// Classify scores the mention. A verdict whose confidence is below the
// threshold is mapped to neutral rather than forcing a guess. When the
// backend stays unavailable through all attempts, the mention comes back
// unclassified with a nil error so the batch proceeds.
func (e *Engine) Classify(ctx context.Context, m domain.Mention) (domain.ClassifiedMention, error) {
	score, err := e.scoreWithRetry(ctx, m.RawText)
	if err != nil {
		if errors.Is(err, ErrClassifierUnavailable) {
			if e.logger != nil {
				e.logger.Warn("classifier exhausted retries, marking unclassified",
					"mention", m.ID, "attempts", e.retry.MaxAttempts)
			}
			return domain.ClassifiedMention{
				Mention:      m,
				Polarity:     domain.PolarityUnclassified,
				Confidence:   0,
				ModelVersion: e.backend.Version(),
			}, nil
		}
		return domain.ClassifiedMention{}, fmt.Errorf("classify mention %s: %w", m.ID, err)
	}

	polarity := score.Polarity
	if score.Confidence < e.threshold {
		polarity = domain.PolarityNeutral
	}

	return domain.ClassifiedMention{
		Mention:      m,
		Polarity:     polarity,
		Confidence:   score.Confidence,
		ModelVersion: e.backend.Version(),
	}, nil
}

func (e *Engine) scoreWithRetry(ctx context.Context, text string) (Score, error) {
	delay := e.retry.InitialBackoff

	var lastErr error
	for attempt := 1; attempt <= e.retry.MaxAttempts; attempt++ {
		score, err := e.backend.Score(ctx, text)
		if err == nil {
			return score, nil
		}
		if !errors.Is(err, ErrClassifierUnavailable) {
			return Score{}, err
		}

		lastErr = err
		if attempt == e.retry.MaxAttempts {
			break
		}
		if e.logger != nil {
			e.logger.Debug("classifier unavailable, backing off",
				"attempt", attempt, "delay", delay)
		}
		if err := e.sleep(ctx, delay); err != nil {
			return Score{}, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
		}
		delay = time.Duration(float64(delay) * e.retry.Multiplier)
		if delay > e.retry.MaxBackoff {
			delay = e.retry.MaxBackoff
		}
	}

	return Score{}, lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
