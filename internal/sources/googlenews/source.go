// Package googlenews fetches finance/AI headlines from Google News RSS
// query feeds. No auth, no engagement metric.
package googlenews

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/buildyoursystem/topicradar/internal/sources"
	"github.com/buildyoursystem/topicradar/internal/topic"
)

const defaultFeedBase = "https://news.google.com/rss"

const defaultQuery = `"AI" finance OR "wealth building" OR "financial freedom"`

// Source fetches headlines from Google News.
type Source struct {
	client   *sources.Client
	feedBase string
	query    string
	limit    int
}

// Option configures a Source.
type Option func(*Source)

// WithFeedBase overrides the feed endpoint (tests).
func WithFeedBase(base string) Option {
	return func(s *Source) { s.feedBase = strings.TrimRight(base, "/") }
}

// WithQuery overrides the search query.
func WithQuery(q string) Option {
	return func(s *Source) { s.query = q }
}

// New creates a Google News source.
func New(client *sources.Client, limit int, opts ...Option) *Source {
	s := &Source{
		client:   client,
		feedBase: defaultFeedBase,
		query:    defaultQuery,
		limit:    limit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) Name() string { return "Google News" }

// Tier1 is true: the query feed is pinned to the US English edition.
func (s *Source) Tier1() bool { return true }

// Fetch retrieves the query feed.
func (s *Source) Fetch(ctx context.Context) ([]topic.RawItem, error) {
	q := url.Values{}
	q.Set("q", s.query)
	q.Set("hl", "en-US")
	q.Set("gl", "US")
	q.Set("ceid", "US:en")

	feed, err := sources.FetchFeed(ctx, s.client, s.feedBase+"/search?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("googlenews: %w", err)
	}
	return sources.FeedItems(feed, s.limit), nil
}
