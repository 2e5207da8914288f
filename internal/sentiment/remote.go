package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"BrandRadar/internal/domain"
)

// Remote scores text via an external inference service. Server-side and
// transport failures surface as ErrClassifierUnavailable so the engine
// retries them.
type Remote struct {
	endpoint string
	apiKey   string
	version  string
	http     *http.Client
}

var _ Backend = (*Remote)(nil)

// NewRemote creates a reusable HTTP scoring client.
func NewRemote(endpoint, apiKey, version string, client *http.Client) *Remote {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Remote{endpoint: endpoint, apiKey: apiKey, version: version, http: client}
}

// Version reports the remote model version used for idempotence guarantees.
func (r *Remote) Version() string {
	return r.version
}

// Score posts the text for inference.
func (r *Remote) Score(ctx context.Context, text string) (Score, error) {
	body, err := json.Marshal(map[string]string{
		"text":          text,
		"model_version": r.version,
	})
	if err != nil {
		return Score{}, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint+"/score", bytes.NewReader(body))
	if err != nil {
		return Score{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return Score{}, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return Score{}, fmt.Errorf("%w: status %s", ErrClassifierUnavailable, resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return Score{}, fmt.Errorf("scoring rejected: %s", resp.Status)
	}

	var payload struct {
		Polarity   string  `json:"polarity"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Score{}, fmt.Errorf("decode response: %w", err)
	}

	polarity := domain.Polarity(payload.Polarity)
	switch polarity {
	case domain.PolarityPositive, domain.PolarityNegative, domain.PolarityNeutral:
	default:
		return Score{}, fmt.Errorf("unknown polarity %q", payload.Polarity)
	}

	return Score{Polarity: polarity, Confidence: payload.Confidence}, nil
}
