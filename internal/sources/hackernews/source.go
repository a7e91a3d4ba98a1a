// Package hackernews fetches stories from the Algolia HN Search API.
package hackernews

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/buildyoursystem/topicradar/internal/sources"
	"github.com/buildyoursystem/topicradar/internal/topic"
)

const defaultAPIBase = "https://hn.algolia.com/api/v1"

// defaultQuery keeps the results on the finance/AI beat.
const defaultQuery = "AI finance"

type searchResponse struct {
	Hits []struct {
		ObjectID    string `json:"objectID"`
		Title       string `json:"title"`
		URL         string `json:"url"`
		StoryText   string `json:"story_text"`
		Points      int64  `json:"points"`
		NumComments int64  `json:"num_comments"`
		CreatedAt   string `json:"created_at"`
	} `json:"hits"`
}

// Source fetches stories from Hacker News.
type Source struct {
	client  *sources.Client
	apiBase string
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

// New creates a Hacker News source.
func New(client *sources.Client, limit int, opts ...Option) *Source {
	s := &Source{
		client:  client,
		apiBase: defaultAPIBase,
		query:   defaultQuery,
		limit:   limit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) Name() string { return "Hacker News" }

// Tier1 is true: HN's audience is overwhelmingly Tier-1 market.
func (s *Source) Tier1() bool { return true }

// Fetch retrieves recent front-page-quality stories.
func (s *Source) Fetch(ctx context.Context) ([]topic.RawItem, error) {
	q := url.Values{}
	q.Set("query", s.query)
	q.Set("tags", "story")
	q.Set("hitsPerPage", strconv.Itoa(s.limit))
	q.Set("numericFilters", "points>10")

	var resp searchResponse
	if err := s.client.GetJSON(ctx, s.apiBase+"/search?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("hackernews search: %w", err)
	}

	items := make([]topic.RawItem, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		link := h.URL
		if link == "" {
			// Ask HN / text posts link back to the discussion.
			link = "https://news.ycombinator.com/item?id=" + h.ObjectID
		}
		raw := topic.RawItem{
			Title:           h.Title,
			Summary:         h.StoryText,
			URL:             link,
			EngagementCount: h.Points,
			EngagementKind:  "points",
		}
		if t, err := time.Parse(time.RFC3339, h.CreatedAt); err == nil {
			raw.Published = &t
		}
		items = append(items, raw)
	}
	return items, nil
}
