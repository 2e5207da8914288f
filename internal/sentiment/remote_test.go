package sentiment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"BrandRadar/internal/domain"
)

func TestRemoteScore(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/score" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer key-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"polarity": "negative", "confidence": 0.82}`))
	}))
	defer server.Close()

	remote := NewRemote(server.URL, "key-123", "remote-v2", server.Client())
	score, err := remote.Score(context.Background(), "driver crash everywhere")
	if err != nil {
		t.Fatalf("Score error: %v", err)
	}

	if score.Polarity != domain.PolarityNegative {
		t.Fatalf("unexpected polarity: %s", score.Polarity)
	}
	if score.Confidence != 0.82 {
		t.Fatalf("unexpected confidence: %f", score.Confidence)
	}
}

func TestRemoteServerErrorIsUnavailable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	remote := NewRemote(server.URL, "", "remote-v2", server.Client())
	_, err := remote.Score(context.Background(), "text")
	if !errors.Is(err, ErrClassifierUnavailable) {
		t.Fatalf("expected ErrClassifierUnavailable, got %v", err)
	}
}

func TestRemoteRejectionIsPermanent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	remote := NewRemote(server.URL, "", "remote-v2", server.Client())
	_, err := remote.Score(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrClassifierUnavailable) {
		t.Fatalf("4xx must not be retried as unavailable: %v", err)
	}
}
