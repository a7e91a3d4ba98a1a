package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/buildyoursystem/topicradar/internal/sources"
)

const searchPayload = `{
  "items": [
    {
      "id": {"videoId": "abc123"},
      "snippet": {
        "title": "I let ChatGPT manage my portfolio for 30 days",
        "description": "The results surprised me.",
        "channelTitle": "Finance Lab",
        "publishedAt": "2026-08-29T18:00:00Z"
      }
    },
    {
      "id": {"videoId": ""},
      "snippet": {"title": "channel result, no videoId"}
    },
    {
      "id": {"videoId": "def456"},
      "snippet": {
        "title": "Why your brain sabotages your savings",
        "description": "",
        "publishedAt": "2026-08-28T10:30:00Z"
      }
    }
  ]
}`

const videosPayload = `{
  "items": [
    {"id": "abc123", "statistics": {"viewCount": "1250000"}},
    {"id": "def456", "statistics": {"viewCount": "not-a-number"}}
  ]
}`

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key on %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search":
			fmt.Fprint(w, searchPayload)
		case "/videos":
			fmt.Fprint(w, videosPayload)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := sources.NewClient(5*time.Second, 100)
	src := New(client, "test-key", 10, WithAPIBase(srv.URL))

	items, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 (videoId-less result skipped)", len(items))
	}

	first := items[0]
	if first.URL != "https://www.youtube.com/watch?v=abc123" {
		t.Errorf("url = %q", first.URL)
	}
	if first.EngagementCount != 1250000 || first.EngagementKind != "views" {
		t.Errorf("engagement = %d %q", first.EngagementCount, first.EngagementKind)
	}
	if first.Published == nil || !first.Published.Equal(time.Date(2026, 8, 29, 18, 0, 0, 0, time.UTC)) {
		t.Errorf("published = %v", first.Published)
	}

	// Unparsable view counts leave the item without engagement.
	second := items[1]
	if second.EngagementCount != 0 || second.EngagementKind != "" {
		t.Errorf("engagement = %d %q, want none", second.EngagementCount, second.EngagementKind)
	}
}

func TestFetchStatsFailureDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, searchPayload)
		case "/videos":
			http.Error(w, "quota exceeded", http.StatusForbidden)
		}
	}))
	defer srv.Close()

	src := New(sources.NewClient(5*time.Second, 100), "test-key", 10, WithAPIBase(srv.URL))

	items, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("stats failure must not fail the fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	for _, it := range items {
		if it.EngagementKind != "" {
			t.Errorf("item %q should carry no engagement after stats failure", it.Title)
		}
	}
}

func TestFetchNoAPIKey(t *testing.T) {
	src := New(sources.NewClient(5*time.Second, 100), "", 10)
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Fatal("expected error when no API key is configured")
	}
}
