package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestBlogScrapeFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`
		<html><body>
		  <article>
		    <time datetime="2026-08-25T08:00:00Z">Aug 25</time>
		    <p>NVIDIA drivers finally fixed the overheating issue.</p>
		    <a href="https://blog.example.org/post-1">read</a>
		  </article>
		  <article>
		    <time datetime="2026-08-25T09:00:00Z">Aug 25</time>
		    <p>Unrelated post about gardening.</p>
		    <a href="https://blog.example.org/post-2">read</a>
		  </article>
		  <article>
		    <time datetime="2026-08-20T09:00:00Z">Aug 20</time>
		    <p>Old NVIDIA post outside the window.</p>
		    <a href="https://blog.example.org/post-3">read</a>
		  </article>
		</body></html>`))
	}))
	defer server.Close()

	fetcher := NewBlogScrapeFetcher(server.Client())
	records, err := fetcher.Fetch(context.Background(), Request{
		Since:      time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC),
		SourceName: "blog-test",
		URL:        server.URL,
		Brand:      "NVIDIA",
	})
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Fields["url"] != "https://blog.example.org/post-1" {
		t.Fatalf("unexpected url: %s", records[0].Fields["url"])
	}
	if records[0].Fields["body"] != "NVIDIA drivers finally fixed the overheating issue." {
		t.Fatalf("unexpected body: %s", records[0].Fields["body"])
	}
}
