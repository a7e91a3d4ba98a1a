// Package normalize converts provider-agnostic raw items into Topic shells
// with consistent formatting.
//
// A shell has every Topic field populated except category, signals, and
// action angles, which the classifier and angle generator fill in later.
package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/buildyoursystem/topicradar/internal/topic"
)

// maxTitleLen and maxSummaryLen bound the plain-text fields.
const (
	maxTitleLen   = 140
	maxSummaryLen = 280
)

// htmlTagRe matches HTML tags.
var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// whitespaceRe matches runs of whitespace.
var whitespaceRe = regexp.MustCompile(`\s+`)

// Normalizer builds Topic shells and counts the malformed items it drops.
type Normalizer struct {
	dropped int
}

// New creates a Normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// Dropped returns how many malformed items have been discarded so far.
func (n *Normalizer) Dropped() int {
	return n.dropped
}

// Normalize converts one raw item into a Topic shell. A malformed item
// (empty title or URL after cleaning) yields ok=false and is counted,
// never an error.
func (n *Normalizer) Normalize(raw topic.RawItem, source string, sourceOrder int) (topic.Topic, bool) {
	title := CleanText(raw.Title, maxTitleLen)
	url := strings.TrimSpace(raw.URL)

	if title == "" || url == "" {
		n.dropped++
		return topic.Topic{}, false
	}

	t := topic.Topic{
		ID:              makeID(source, url),
		Title:           title,
		Summary:         CleanText(raw.Summary, maxSummaryLen),
		URL:             url,
		Source:          source,
		PublishedAt:     raw.Published,
		EngagementCount: raw.EngagementCount,
		SourceOrder:     sourceOrder,
	}
	// An empty kind means the provider has no metric; a zero count with a
	// kind is a real measurement ("0 upvotes").
	if raw.EngagementKind != "" {
		t.Engagement = FormatEngagement(raw.EngagementCount, raw.EngagementKind)
	}
	return t, true
}

// CleanText strips markup, unescapes entities, collapses whitespace, and
// truncates rune-safely to maxLen.
func CleanText(s string, maxLen int) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	return truncate(s, maxLen)
}

// FormatEngagement renders a count as a compact human string,
// e.g. "1.2M views", "453 points".
func FormatEngagement(count int64, kind string) string {
	return fmt.Sprintf("%s %s", compactCount(count), kind)
}

// compactCount renders counts under 10K with thousands separators and
// abbreviates from there: 2500 -> "2,500", 25000 -> "25K", 3400000 -> "3.4M".
func compactCount(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return trimTrailingZero(fmt.Sprintf("%.1f", float64(n)/1e9)) + "B"
	case n >= 1_000_000:
		return trimTrailingZero(fmt.Sprintf("%.1f", float64(n)/1e6)) + "M"
	case n >= 10_000:
		return trimTrailingZero(fmt.Sprintf("%.1f", float64(n)/1e3)) + "K"
	default:
		return humanize.Comma(n)
	}
}

func trimTrailingZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}

// makeID derives a stable identifier from the source and canonical URL.
func makeID(source, url string) string {
	h := sha256.Sum256([]byte(source + "|" + url))
	return hex.EncodeToString(h[:8])
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
