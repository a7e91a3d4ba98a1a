// Package pubfeed fetches finance-publisher RSS/Atom feeds. One Source
// wraps one configured feed, so each publisher fails in isolation.
package pubfeed

import (
	"context"
	"fmt"

	"github.com/buildyoursystem/topicradar/internal/sources"
	"github.com/buildyoursystem/topicradar/internal/topic"
)

// FeedConfig describes one publisher feed.
type FeedConfig struct {
	Name  string
	URL   string
	Tier1 bool
}

// DefaultFeeds is the curated Tier-1 finance-publisher watchlist.
// Kept as a literal table so you see exactly what you're subscribed to.
var DefaultFeeds = []FeedConfig{
	{Name: "CNBC Personal Finance", URL: "https://search.cnbc.com/rs/search/combinedcms/view.xml?partnerId=wrss01&id=21324812", Tier1: true},
	{Name: "MarketWatch", URL: "http://feeds.marketwatch.com/marketwatch/topstories/", Tier1: true},
	{Name: "Yahoo Finance", URL: "https://finance.yahoo.com/news/rssindex", Tier1: true},
	{Name: "Forbes Money", URL: "https://www.forbes.com/money/feed/", Tier1: true},
	{Name: "The Motley Fool", URL: "https://www.fool.com/feeds/index.aspx", Tier1: true},
}

// Source fetches one publisher feed.
type Source struct {
	client *sources.Client
	cfg    FeedConfig
	limit  int
}

// New creates a publisher-feed source.
func New(client *sources.Client, cfg FeedConfig, limit int) *Source {
	return &Source{client: client, cfg: cfg, limit: limit}
}

func (s *Source) Name() string { return s.cfg.Name }

func (s *Source) Tier1() bool { return s.cfg.Tier1 }

// Fetch retrieves the configured feed.
func (s *Source) Fetch(ctx context.Context) ([]topic.RawItem, error) {
	feed, err := sources.FetchFeed(ctx, s.client, s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("pubfeed %s: %w", s.cfg.Name, err)
	}
	return sources.FeedItems(feed, s.limit), nil
}
