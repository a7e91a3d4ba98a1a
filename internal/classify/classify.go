// Package classify assigns each Topic shell its category and signal
// vector.
//
// Classification is a rule-based scorer over keyword lexicons: auditable,
// pure, and deterministic for identical input text. The lexicons are data
// (see lexicons.yaml), not code.
package classify

import (
	"strings"

	"github.com/buildyoursystem/topicradar/internal/topic"
)

// Classifier scores Topic shells against a loaded lexicon.
type Classifier struct {
	lex *Lexicon
}

// New creates a Classifier with the given lexicon.
func New(lex *Lexicon) *Classifier {
	return &Classifier{lex: lex}
}

// Classify computes the category and the four signal booleans for a shell.
// sourceTier1 marks items from a Tier-1-market-specific source.
func (c *Classifier) Classify(t topic.Topic, sourceTier1 bool) (topic.Category, topic.Signals) {
	title := strings.ToLower(t.Title)
	summary := strings.ToLower(t.Summary)

	category := c.category(title, summary)
	signals := topic.Signals{
		Tier1Focus:           sourceTier1 || matchesAny(title, summary, c.lex.Tier1Tokens),
		AIAngle:              matchesAny(title, summary, c.lex.Signals.AI),
		MoneyPsychologyAngle: matchesAny(title, summary, c.lex.Signals.MoneyPsychology),
		WealthStrategyAngle:  matchesAny(title, summary, c.lex.Signals.WealthStrategy),
	}
	return category, signals
}

// category picks the highest-scoring category. Title hits count double.
// Ties resolve to the earlier category in priority order, and a zero score
// falls through to the Personal Finance Tools catch-all.
func (c *Classifier) category(title, summary string) topic.Category {
	best := topic.CategoryFinanceTools
	bestScore := 0

	for _, cat := range topic.CategoryPriority() {
		score := 0
		for _, kw := range c.lex.Categories[string(cat)] {
			if containsToken(title, kw) {
				score += 2
			}
			if containsToken(summary, kw) {
				score++
			}
		}
		// Strictly greater keeps the earlier category on ties.
		if score > bestScore {
			bestScore = score
			best = cat
		}
	}
	return best
}

// matchesAny reports whether any keyword appears in the title or summary.
func matchesAny(title, summary string, keywords []string) bool {
	for _, kw := range keywords {
		if containsToken(title, kw) || containsToken(summary, kw) {
			return true
		}
	}
	return false
}

// containsToken checks if text contains token as a whole word or phrase,
// never as a substring of a longer word ("ai" must not match "said").
func containsToken(text, token string) bool {
	if token == "" {
		return false
	}
	start := 0
	for {
		idx := strings.Index(text[start:], token)
		if idx < 0 {
			return false
		}
		idx += start

		leftOK := idx == 0 || !isAlphaNum(text[idx-1])
		end := idx + len(token)
		rightOK := end >= len(text) || !isAlphaNum(text[end])
		if leftOK && rightOK {
			return true
		}
		start = idx + 1
	}
}

func isAlphaNum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
