package source

import (
	"context"
	"fmt"
	"time"

	"BrandRadar/internal/domain"
)

// Request carries all parameters required to execute one feed fetch.
type Request struct {
	Since      time.Time
	SourceName string
	URL        string
	Brand      string
	Keywords   []string
	Options    map[string]string
}

// Query builds the search expression sent to keyword-driven feeds.
func (r Request) Query() string {
	q := r.Brand
	for _, kw := range r.Keywords {
		q += " " + kw
	}
	return q
}

// Fetcher captures a single feed strategy (NewsAPI, web search, blog scrape).
type Fetcher interface {
	Kind() string
	Fetch(ctx context.Context, req Request) ([]domain.RawRecord, error)
}

// Registry keeps a mapping from fetcher kinds to their implementations.
type Registry struct {
	fetchers map[string]Fetcher
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{fetchers: map[string]Fetcher{}}
}

// Register adds or replaces a fetcher implementation.
func (r *Registry) Register(f Fetcher) {
	if r.fetchers == nil {
		r.fetchers = map[string]Fetcher{}
	}
	r.fetchers[f.Kind()] = f
}

// Resolve returns a fetcher by kind or an error if it is absent.
func (r *Registry) Resolve(kind string) (Fetcher, error) {
	if f, ok := r.fetchers[kind]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("fetcher %s is not registered", kind)
}
