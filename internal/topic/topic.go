// Package topic defines the core data types for the Topic Radar pipeline.
//
// A Topic is the unit of output: one classified, deduplicated narrative
// signal surfaced to the content strategist. Topics are constructed fresh
// on every aggregation cycle and never mutated afterwards.
package topic

import "time"

// Category is the single categorical dimension of a Topic.
type Category string

const (
	CategoryBreakingNews   Category = "Breaking News"
	CategoryAI             Category = "AI"
	CategoryWealthBuilding Category = "Wealth Building"
	CategoryFinancialFree  Category = "Financial Freedom"
	CategoryMoneyPsych     Category = "Money Psychology"
	CategoryFinanceTools   Category = "Personal Finance Tools"
)

// CategoryPriority returns all categories in fixed priority order.
// The order is the tie-break for classification: when two categories
// score equally, the earlier one wins.
func CategoryPriority() []Category {
	return []Category{
		CategoryBreakingNews,
		CategoryAI,
		CategoryWealthBuilding,
		CategoryFinancialFree,
		CategoryMoneyPsych,
		CategoryFinanceTools,
	}
}

// Signals is the four-dimension boolean classification vector.
// The flags are independent: a topic may carry zero, some, or all of them,
// and none is derived from the Category.
type Signals struct {
	Tier1Focus           bool `json:"tier1Focus"`
	AIAngle              bool `json:"aiAngle"`
	MoneyPsychologyAngle bool `json:"moneyPsychologyAngle"`
	WealthStrategyAngle  bool `json:"wealthStrategyAngle"`
}

// ActiveCount returns how many of the three keyword signals are set.
// Tier1Focus is a relevance flag, not an angle, so it is excluded.
func (s Signals) ActiveCount() int {
	n := 0
	if s.AIAngle {
		n++
	}
	if s.MoneyPsychologyAngle {
		n++
	}
	if s.WealthStrategyAngle {
		n++
	}
	return n
}

// Topic is a single classified narrative signal.
//
// ID is stable within a generation cycle and derived from the source plus
// a content fingerprint. PublishedAt is nil when the provider supplied no
// parsable timestamp; it is never defaulted to the current time.
type Topic struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Summary      string     `json:"summary"`
	URL          string     `json:"url"`
	Source       string     `json:"source"`
	Category     Category   `json:"category"`
	Signals      Signals    `json:"signals"`
	Engagement   string     `json:"engagement,omitempty"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty"`
	ActionAngles []string   `json:"actionAngles"`

	// EngagementCount is the raw metric behind Engagement, kept for
	// dedup tie-breaking. Not serialized.
	EngagementCount int64 `json:"-"`

	// SourceOrder is the adapter declaration index, the final dedup
	// tie-break. Not serialized.
	SourceOrder int `json:"-"`
}

// Envelope is the wire shape returned by the aggregation pipeline.
type Envelope struct {
	GeneratedAt string  `json:"generatedAt"`
	Topics      []Topic `json:"topics"`
}

// RawItem is the provider-agnostic shape every source adapter emits.
// It exists only during a fetch cycle and is never persisted.
type RawItem struct {
	Title           string
	Summary         string
	URL             string
	Published       *time.Time
	EngagementCount int64
	EngagementKind  string // "views", "points", "comments", "upvotes"; empty when absent
}
