// Package reddit fetches hot discussions from public subreddit listings.
// The .json listing endpoints need no authentication.
package reddit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/buildyoursystem/topicradar/internal/logging"
	"github.com/buildyoursystem/topicradar/internal/sources"
	"github.com/buildyoursystem/topicradar/internal/topic"
)

const defaultAPIBase = "https://www.reddit.com"

// defaultSubreddits is the finance/AI niche watchlist.
var defaultSubreddits = []string{
	"personalfinance",
	"financialindependence",
	"investing",
	"ArtificialInteligence",
}

type listing struct {
	Data struct {
		Children []struct {
			Data post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type post struct {
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Permalink   string  `json:"permalink"`
	Score       int64   `json:"score"`
	NumComments int64   `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Stickied    bool    `json:"stickied"`
}

// Source fetches posts from a set of subreddits.
type Source struct {
	client     *sources.Client
	apiBase    string
	subreddits []string
	perSub     int
}

// Option configures a Source.
type Option func(*Source)

// WithAPIBase overrides the API endpoint (tests).
func WithAPIBase(base string) Option {
	return func(s *Source) { s.apiBase = strings.TrimRight(base, "/") }
}

// WithSubreddits overrides the subreddit watchlist.
func WithSubreddits(subs []string) Option {
	return func(s *Source) { s.subreddits = subs }
}

// New creates a Reddit source.
func New(client *sources.Client, perSub int, opts ...Option) *Source {
	s := &Source{
		client:     client,
		apiBase:    defaultAPIBase,
		subreddits: defaultSubreddits,
		perSub:     perSub,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) Name() string { return "Reddit" }

// Tier1 is true: the watched subreddits skew heavily US/UK/CA/AU.
func (s *Source) Tier1() bool { return true }

// Fetch retrieves hot posts from every watched subreddit. A subreddit
// failing is logged and skipped; the fetch only errors when all fail.
func (s *Source) Fetch(ctx context.Context) ([]topic.RawItem, error) {
	var items []topic.RawItem
	failures := 0

	for _, sub := range s.subreddits {
		if ctx.Err() != nil {
			return items, ctx.Err()
		}

		url := fmt.Sprintf("%s/r/%s/hot.json?limit=%d&raw_json=1", s.apiBase, sub, s.perSub)
		var l listing
		if err := s.client.GetJSON(ctx, url, &l); err != nil {
			logging.Warn("reddit: subreddit fetch failed", "subreddit", sub, "error", err)
			failures++
			continue
		}

		for _, child := range l.Data.Children {
			p := child.Data
			if p.Stickied {
				continue
			}
			raw := topic.RawItem{
				Title:           p.Title,
				Summary:         p.Selftext,
				URL:             "https://www.reddit.com" + p.Permalink,
				EngagementCount: p.Score,
				EngagementKind:  "upvotes",
			}
			if p.CreatedUTC > 0 {
				t := time.Unix(int64(p.CreatedUTC), 0).UTC()
				raw.Published = &t
			}
			items = append(items, raw)
		}
	}

	if failures == len(s.subreddits) {
		return nil, fmt.Errorf("reddit: all %d subreddit fetches failed", failures)
	}
	return items, nil
}
