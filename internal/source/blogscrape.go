package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"BrandRadar/internal/domain"
)

// Option keys understood by the blog scraper; all are CSS selectors except
// dateFormat which is a Go reference-time layout.
const (
	optEntrySelector = "entrySelector"
	optTextSelector  = "textSelector"
	optLinkSelector  = "linkSelector"
	optDateSelector  = "dateSelector"
	optDateFormat    = "dateFormat"
)

// BlogScrapeFetcher crawls a blog index page and extracts entries mentioning
// the brand. Selectors come from per-source options so one strategy serves
// differently structured blogs.
type BlogScrapeFetcher struct {
	client *http.Client
}

// NewBlogScrapeFetcher wires an HTTP client; the default has a 20s timeout.
func NewBlogScrapeFetcher(client *http.Client) *BlogScrapeFetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &BlogScrapeFetcher{client: client}
}

// Kind identifies the strategy inside the registry.
func (b *BlogScrapeFetcher) Kind() string {
	return "blogscrape"
}

// Fetch downloads the page and extracts entries newer than req.Since that
// mention the brand.
func (b *BlogScrapeFetcher) Fetch(ctx context.Context, req Request) ([]domain.RawRecord, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("blogscrape: no page configured for %s", req.SourceName)
	}

	doc, err := b.fetchDocument(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("blogscrape: %w", err)
	}

	entrySel := optionOr(req.Options, optEntrySelector, "article")
	textSel := optionOr(req.Options, optTextSelector, "p")
	linkSel := optionOr(req.Options, optLinkSelector, "a")
	dateSel := optionOr(req.Options, optDateSelector, "time")
	dateFormat := optionOr(req.Options, optDateFormat, time.RFC3339)

	brandLower := strings.ToLower(req.Brand)
	now := time.Now().UTC()

	var records []domain.RawRecord
	doc.Find(entrySel).Each(func(i int, entry *goquery.Selection) {
		text := strings.TrimSpace(entry.Find(textSel).First().Text())
		if text == "" || !strings.Contains(strings.ToLower(text), brandLower) {
			return
		}

		href, _ := entry.Find(linkSel).First().Attr("href")

		published := parseEntryDate(entry, dateSel, dateFormat)
		if !published.IsZero() && !req.Since.IsZero() && published.Before(req.Since) {
			return
		}

		fields := map[string]string{
			"body": text,
			"url":  href,
		}
		if !published.IsZero() {
			fields["published"] = published.UTC().Format(time.RFC3339)
		}

		records = append(records, domain.RawRecord{
			Source:     req.SourceName,
			Fields:     fields,
			FetchedAt:  now,
			Provenance: domain.ProvenanceMeasured,
		})
	})

	return records, nil
}

func (b *BlogScrapeFetcher) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "BrandRadar/1.0")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func parseEntryDate(entry *goquery.Selection, dateSel, layout string) time.Time {
	node := entry.Find(dateSel).First()
	raw, ok := node.Attr("datetime")
	if !ok {
		raw = strings.TrimSpace(node.Text())
	}
	if raw == "" {
		return time.Time{}
	}
	if parsed, err := time.Parse(layout, raw); err == nil {
		return parsed
	}
	return time.Time{}
}

func optionOr(opts map[string]string, key, fallback string) string {
	if opts == nil {
		return fallback
	}
	if v := strings.TrimSpace(opts[key]); v != "" {
		return v
	}
	return fallback
}
