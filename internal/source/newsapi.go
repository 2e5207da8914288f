package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"BrandRadar/internal/domain"
)

// NewsAPIFetcher pulls articles from a NewsAPI-compatible /v2/everything
// endpoint.
type NewsAPIFetcher struct {
	client *http.Client
}

// NewNewsAPIFetcher wires an HTTP client; the default has a 15s timeout.
func NewNewsAPIFetcher(client *http.Client) *NewsAPIFetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &NewsAPIFetcher{client: client}
}

// Kind identifies the strategy inside the registry.
func (n *NewsAPIFetcher) Kind() string {
	return "newsapi"
}

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Message  string           `json:"message"`
	Articles []newsAPIArticle `json:"articles"`
}

// Fetch queries the endpoint for articles mentioning the brand since the
// given instant.
func (n *NewsAPIFetcher) Fetch(ctx context.Context, req Request) ([]domain.RawRecord, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("newsapi: no endpoint configured for %s", req.SourceName)
	}

	endpoint, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("newsapi: invalid endpoint %s: %w", req.URL, err)
	}

	query := endpoint.Query()
	query.Set("q", req.Query())
	query.Set("language", "en")
	query.Set("sortBy", "publishedAt")
	if !req.Since.IsZero() {
		query.Set("from", req.Since.UTC().Format(time.RFC3339))
	}
	if key := req.Options["apiKey"]; key != "" {
		query.Set("apiKey", key)
	}
	endpoint.RawQuery = query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("newsapi: build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", "BrandRadar/1.0")

	resp, err := n.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("newsapi: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi: returned %s", resp.Status)
	}

	var payload newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("newsapi: decode response: %w", err)
	}
	if payload.Status != "" && payload.Status != "ok" {
		return nil, fmt.Errorf("newsapi: status %s: %s", payload.Status, payload.Message)
	}

	now := time.Now().UTC()
	records := make([]domain.RawRecord, 0, len(payload.Articles))
	for _, art := range payload.Articles {
		fields := map[string]string{
			"title":       art.Title,
			"description": art.Description,
			"url":         art.URL,
			"publishedAt": art.PublishedAt,
		}
		if art.Source.Name != "" {
			fields["source_name"] = art.Source.Name
		}
		records = append(records, domain.RawRecord{
			Source:     req.SourceName,
			Fields:     fields,
			FetchedAt:  now,
			Provenance: domain.ProvenanceMeasured,
		})
	}

	return records, nil
}
