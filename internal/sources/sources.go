// Package sources defines the source-adapter contract for Topic Radar and
// the shared HTTP plumbing all adapters use.
//
// Each adapter fetches raw items from one external platform and maps them
// into the provider-agnostic topic.RawItem. Adapters fail in isolation: a
// fetch error is returned to the orchestrator, which records it and moves
// on with whatever the other adapters produced.
package sources

import (
	"context"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"github.com/buildyoursystem/topicradar/internal/topic"
)

// userAgent identifies us to the platforms we poll.
const userAgent = "TopicRadar/1.0 (+https://github.com/buildyoursystem/topicradar)"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Source is the interface all adapters implement.
type Source interface {
	// Name returns the human-readable provider label ("YouTube", "Reddit").
	Name() string

	// Tier1 reports whether the source itself is Tier-1-market-specific,
	// feeding the classifier's provenance heuristic.
	Tier1() bool

	// Fetch retrieves the latest raw items. It must honor ctx and return
	// an error rather than panic on provider failure.
	Fetch(ctx context.Context) ([]topic.RawItem, error)
}

// Client is the shared outbound HTTP client. All adapters go through it so
// one rate limit governs traffic to the outside world.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Client with the given per-request timeout and a
// global requests-per-second limit. rps <= 0 disables limiting.
func NewClient(timeout time.Duration, rps float64) *Client {
	var limiter *rate.Limiter
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

// Get performs a rate-limited GET with the shared User-Agent.
// The caller owns the response body.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// GetJSON performs a rate-limited GET and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v interface{}) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
