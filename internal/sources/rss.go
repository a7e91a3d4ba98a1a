package sources

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mmcdole/gofeed"

	"github.com/buildyoursystem/topicradar/internal/topic"
)

// FetchFeed retrieves and parses an RSS/Atom feed through the shared client.
func FetchFeed(ctx context.Context, c *Client, url string) (*gofeed.Feed, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return feed, nil
}

// FeedItems converts parsed feed entries into raw items. Entries without a
// link are kept here and weeded out by the normalizer, which counts drops.
func FeedItems(feed *gofeed.Feed, limit int) []topic.RawItem {
	items := make([]topic.RawItem, 0, len(feed.Items))
	for _, fi := range feed.Items {
		if limit > 0 && len(items) >= limit {
			break
		}
		summary := fi.Description
		if summary == "" {
			summary = fi.Content
		}
		raw := topic.RawItem{
			Title:   fi.Title,
			Summary: summary,
			URL:     fi.Link,
		}
		if fi.PublishedParsed != nil {
			raw.Published = fi.PublishedParsed
		} else if fi.UpdatedParsed != nil {
			raw.Published = fi.UpdatedParsed
		}
		items = append(items, raw)
	}
	return items
}
