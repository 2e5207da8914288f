package sentiment

import (
	"context"
	"errors"

	"BrandRadar/internal/domain"
)

// ErrClassifierUnavailable signals a transient backend failure. The engine
// retries it with exponential backoff; any other error is permanent.
var ErrClassifierUnavailable = errors.New("classifier unavailable")

// Score is a raw backend verdict before the confidence threshold is applied.
type Score struct {
	Polarity   domain.Polarity
	Confidence float64
}

// Backend produces a raw sentiment score for a piece of text. Scoring must be
// deterministic for identical (text, Version()) pairs.
type Backend interface {
	Score(ctx context.Context, text string) (Score, error)
	Version() string
}
