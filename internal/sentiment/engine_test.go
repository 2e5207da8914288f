package sentiment

import (
	"context"
	"testing"
	"time"

	"BrandRadar/internal/domain"
)

type stubBackend struct {
	score Score
	err   error
	calls int
	// failUntil lets the backend recover after N failures.
	failUntil int
}

func (s *stubBackend) Score(context.Context, string) (Score, error) {
	s.calls++
	if s.err != nil && (s.failUntil == 0 || s.calls <= s.failUntil) {
		return Score{}, s.err
	}
	return s.score, nil
}

func (s *stubBackend) Version() string { return "stub-v1" }

func noSleep(context.Context, time.Duration) error { return nil }

func mention(text string) domain.Mention {
	return domain.Mention{ID: "m-1", Source: "feed", RawText: text, Provenance: domain.ProvenanceMeasured}
}

func TestEngineLowConfidenceMapsToNeutral(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{score: Score{Polarity: domain.PolarityNegative, Confidence: 0.4}}
	engine := NewEngine(backend, 0.55, RetryConfig{}, nil)

	cm, err := engine.Classify(context.Background(), mention("leaning negative but uncertain"))
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}

	if cm.Polarity != domain.PolarityNeutral {
		t.Fatalf("expected neutral below threshold, got %s", cm.Polarity)
	}
	if cm.Confidence != 0.4 {
		t.Fatalf("confidence must be preserved, got %f", cm.Confidence)
	}
}

func TestEngineConfidentVerdictKept(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{score: Score{Polarity: domain.PolarityNegative, Confidence: 0.9}}
	engine := NewEngine(backend, 0.55, RetryConfig{}, nil)

	cm, err := engine.Classify(context.Background(), mention("clearly negative"))
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	if cm.Polarity != domain.PolarityNegative {
		t.Fatalf("expected negative, got %s", cm.Polarity)
	}
	if cm.ModelVersion != "stub-v1" {
		t.Fatalf("expected model version stamp, got %q", cm.ModelVersion)
	}
}

func TestEngineIdempotentReclassification(t *testing.T) {
	t.Parallel()

	engine := NewEngine(NewDefaultLexicon("lexicon-v1"), 0.55, RetryConfig{}, nil)
	m := mention("Outstanding, reliable and innovative hardware with strong demand.")

	first, err := engine.Classify(context.Background(), m)
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	second, err := engine.Classify(context.Background(), m)
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}

	if first != second {
		t.Fatalf("re-classification must be idempotent: %+v vs %+v", first, second)
	}
}

func TestEngineExhaustedRetriesMarkUnclassified(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{err: ErrClassifierUnavailable}
	engine := NewEngine(backend, 0.55, RetryConfig{MaxAttempts: 3}, nil)
	engine.sleep = noSleep

	cm, err := engine.Classify(context.Background(), mention("anything"))
	if err != nil {
		t.Fatalf("exhaustion must not fail the batch: %v", err)
	}

	if cm.Polarity != domain.PolarityUnclassified {
		t.Fatalf("expected unclassified, got %s", cm.Polarity)
	}
	if backend.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", backend.calls)
	}
}

func TestEngineRecoversWithinRetryBudget(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{
		score:     Score{Polarity: domain.PolarityPositive, Confidence: 0.8},
		err:       ErrClassifierUnavailable,
		failUntil: 2,
	}
	engine := NewEngine(backend, 0.55, RetryConfig{MaxAttempts: 4}, nil)
	engine.sleep = noSleep

	cm, err := engine.Classify(context.Background(), mention("recovers on third try"))
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	if cm.Polarity != domain.PolarityPositive {
		t.Fatalf("expected positive after recovery, got %s", cm.Polarity)
	}
	if backend.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", backend.calls)
	}
}
