// Package youtube fetches finance/AI videos from the YouTube Data API v3.
//
// Fetching is two calls: a search for recent videos matching the niche
// query, then a videos lookup for view counts. The second call failing is
// tolerated; items then carry no engagement metric.
package youtube

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/buildyoursystem/topicradar/internal/logging"
	"github.com/buildyoursystem/topicradar/internal/sources"
	"github.com/buildyoursystem/topicradar/internal/topic"
)

const defaultAPIBase = "https://www.googleapis.com/youtube/v3"

// defaultQuery targets the finance/AI creator niche.
const defaultQuery = "AI wealth building OR financial freedom OR money psychology"

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
		} `json:"snippet"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// Source fetches videos from YouTube.
type Source struct {
	client  *sources.Client
	apiBase string
	apiKey  string
	query   string
	limit   int
}

// Option configures a Source.
type Option func(*Source)

// WithAPIBase overrides the API endpoint (tests).
func WithAPIBase(base string) Option {
	return func(s *Source) { s.apiBase = strings.TrimRight(base, "/") }
}

// WithQuery overrides the search query.
func WithQuery(q string) Option {
	return func(s *Source) { s.query = q }
}

// New creates a YouTube source. The API key is required by the provider;
// constructing a Source without one is allowed but every Fetch will fail,
// which the orchestrator absorbs like any other adapter fault.
func New(client *sources.Client, apiKey string, limit int, opts ...Option) *Source {
	s := &Source{
		client:  client,
		apiBase: defaultAPIBase,
		apiKey:  apiKey,
		query:   defaultQuery,
		limit:   limit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) Name() string { return "YouTube" }

// Tier1 is false: YouTube is global, so Tier-1 relevance must come from
// the item text itself.
func (s *Source) Tier1() bool { return false }

// Fetch retrieves recent matching videos with view counts.
func (s *Source) Fetch(ctx context.Context) ([]topic.RawItem, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("youtube: no API key configured")
	}

	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("q", s.query)
	q.Set("type", "video")
	q.Set("order", "relevance")
	q.Set("publishedAfter", time.Now().AddDate(0, 0, -7).UTC().Format(time.RFC3339))
	q.Set("maxResults", strconv.Itoa(s.limit))
	q.Set("key", s.apiKey)

	var search searchResponse
	if err := s.client.GetJSON(ctx, s.apiBase+"/search?"+q.Encode(), &search); err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	views := s.viewCounts(ctx, &search)

	items := make([]topic.RawItem, 0, len(search.Items))
	for _, v := range search.Items {
		if v.ID.VideoID == "" {
			continue
		}
		raw := topic.RawItem{
			Title:   v.Snippet.Title,
			Summary: v.Snippet.Description,
			URL:     "https://www.youtube.com/watch?v=" + v.ID.VideoID,
		}
		if t, err := time.Parse(time.RFC3339, v.Snippet.PublishedAt); err == nil {
			raw.Published = &t
		}
		if n, ok := views[v.ID.VideoID]; ok {
			raw.EngagementCount = n
			raw.EngagementKind = "views"
		}
		items = append(items, raw)
	}
	return items, nil
}

// viewCounts looks up view counts for the searched videos. Errors degrade
// to missing engagement rather than failing the fetch.
func (s *Source) viewCounts(ctx context.Context, search *searchResponse) map[string]int64 {
	ids := make([]string, 0, len(search.Items))
	for _, v := range search.Items {
		if v.ID.VideoID != "" {
			ids = append(ids, v.ID.VideoID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	q := url.Values{}
	q.Set("part", "statistics")
	q.Set("id", strings.Join(ids, ","))
	q.Set("key", s.apiKey)

	var videos videosResponse
	if err := s.client.GetJSON(ctx, s.apiBase+"/videos?"+q.Encode(), &videos); err != nil {
		logging.Warn("youtube: stats lookup failed", "error", err)
		return nil
	}

	views := make(map[string]int64, len(videos.Items))
	for _, v := range videos.Items {
		if n, err := strconv.ParseInt(v.Statistics.ViewCount, 10, 64); err == nil {
			views[v.ID] = n
		}
	}
	return views
}
