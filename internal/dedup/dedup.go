// Package dedup merges near-duplicate topics across sources and orders
// the final collection deterministically.
//
// Two candidates are duplicates when their canonical URLs match or their
// title SimHashes exceed the similarity threshold. The survivor of a merge
// is the candidate with richer engagement, then the earliest published,
// then the one from the earliest-declared adapter. Discards are silent.
package dedup

import (
	"net/url"
	"sort"
	"strings"

	"github.com/buildyoursystem/topicradar/internal/topic"
)

// DefaultThreshold is the SimHash similarity above which two titles are
// treated as the same story.
const DefaultThreshold = 0.8

// Deduper holds the tunable similarity threshold.
type Deduper struct {
	threshold float64
}

// New creates a Deduper. threshold <= 0 selects the default.
func New(threshold float64) *Deduper {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Deduper{threshold: threshold}
}

// cluster groups candidates that describe the same story.
type cluster struct {
	canonURL string
	hash     uint64
	members  []topic.Topic
}

// Dedupe collapses duplicates and returns one survivor per story, in
// first-seen order.
func (d *Deduper) Dedupe(topics []topic.Topic) []topic.Topic {
	var clusters []*cluster

	for _, t := range topics {
		canon := CanonicalURL(t.URL)
		hash := SimHash(t.Title)

		var home *cluster
		for _, c := range clusters {
			if canon != "" && c.canonURL == canon {
				home = c
				break
			}
			// A zero hash is "no fingerprint", not "identical": titles
			// without ASCII tokens only merge on URL.
			if hash != 0 && c.hash != 0 && Similarity(c.hash, hash) >= d.threshold {
				home = c
				break
			}
		}
		if home == nil {
			clusters = append(clusters, &cluster{canonURL: canon, hash: hash, members: []topic.Topic{t}})
			continue
		}
		home.members = append(home.members, t)
	}

	out := make([]topic.Topic, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, pickSurvivor(c.members))
	}
	return out
}

// pickSurvivor selects the best member of a duplicate cluster.
func pickSurvivor(members []topic.Topic) topic.Topic {
	best := members[0]
	for _, t := range members[1:] {
		if better(t, best) {
			best = t
		}
	}
	return best
}

// better reports whether a beats b under the merge policy: richer
// engagement, then earliest publish time (absent last), then adapter
// declaration order.
func better(a, b topic.Topic) bool {
	if a.EngagementCount != b.EngagementCount {
		return a.EngagementCount > b.EngagementCount
	}
	switch {
	case a.PublishedAt != nil && b.PublishedAt == nil:
		return true
	case a.PublishedAt == nil && b.PublishedAt != nil:
		return false
	case a.PublishedAt != nil && b.PublishedAt != nil && !a.PublishedAt.Equal(*b.PublishedAt):
		return a.PublishedAt.Before(*b.PublishedAt)
	}
	return a.SourceOrder < b.SourceOrder
}

// Rank orders topics by signal-weighted score, then recency (absent
// timestamps last), then ID. The order is total, so ranking an
// already-ranked list is a no-op.
func Rank(topics []topic.Topic) {
	sort.Slice(topics, func(i, j int) bool {
		a, b := topics[i], topics[j]

		sa, sb := Score(a), Score(b)
		if sa != sb {
			return sa > sb
		}

		switch {
		case a.PublishedAt != nil && b.PublishedAt == nil:
			return true
		case a.PublishedAt == nil && b.PublishedAt != nil:
			return false
		case a.PublishedAt != nil && b.PublishedAt != nil && !a.PublishedAt.Equal(*b.PublishedAt):
			return a.PublishedAt.After(*b.PublishedAt)
		}

		return a.ID < b.ID
	})
}

// Score is the ranking primary key: Tier-1 relevance weighs double, each
// active keyword angle adds one.
func Score(t topic.Topic) int {
	score := t.Signals.ActiveCount()
	if t.Signals.Tier1Focus {
		score += 2
	}
	return score
}

// CanonicalURL normalizes a link for duplicate detection: scheme, query,
// fragment, leading www, and trailing slash are all ignored.
func CanonicalURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	path := strings.TrimRight(u.Path, "/")
	return host + path
}
