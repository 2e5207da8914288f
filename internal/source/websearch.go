package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"BrandRadar/internal/domain"
)

// WebSearchFetcher pulls mentions from a Serper-style JSON search API: a POST
// with the query, API key in the X-API-KEY header.
type WebSearchFetcher struct {
	client *http.Client
}

// NewWebSearchFetcher wires an HTTP client; the default has a 15s timeout.
func NewWebSearchFetcher(client *http.Client) *WebSearchFetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &WebSearchFetcher{client: client}
}

// Kind identifies the strategy inside the registry.
func (w *WebSearchFetcher) Kind() string {
	return "websearch"
}

type webSearchHit struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
	Date    string `json:"date"`
}

type webSearchResponse struct {
	Organic []webSearchHit `json:"organic"`
}

// Fetch runs the search and converts organic hits into raw records.
func (w *WebSearchFetcher) Fetch(ctx context.Context, req Request) ([]domain.RawRecord, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("websearch: no endpoint configured for %s", req.SourceName)
	}

	body, err := json.Marshal(map[string]string{"q": req.Query()})
	if err != nil {
		return nil, fmt.Errorf("websearch: marshal query: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("websearch: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if key := req.Options["apiKey"]; key != "" {
		httpReq.Header.Set("X-API-KEY", key)
	}

	resp, err := w.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("websearch: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("websearch: returned %s", resp.Status)
	}

	var payload webSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("websearch: decode response: %w", err)
	}

	now := time.Now().UTC()
	records := make([]domain.RawRecord, 0, len(payload.Organic))
	for _, hit := range payload.Organic {
		records = append(records, domain.RawRecord{
			Source: req.SourceName,
			Fields: map[string]string{
				"title":   hit.Title,
				"snippet": hit.Snippet,
				"link":    hit.Link,
				"date":    hit.Date,
			},
			FetchedAt:  now,
			Provenance: domain.ProvenanceMeasured,
		})
	}

	return records, nil
}
