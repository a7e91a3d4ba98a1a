// Package angles derives actionable content recommendations from a
// classified topic.
//
// Output is templated by the combination of active signals and the
// category. The list is ordered most-actionable-first, holds one to four
// entries, and is never empty.
package angles

import "github.com/buildyoursystem/topicradar/internal/topic"

// maxAngles caps the recommendation list.
const maxAngles = 4

// genericFallback is emitted when nothing else matches.
const genericFallback = "Monitor this story for a follow-up angle once the narrative develops."

// categoryAngles are the per-category fallback recommendations.
var categoryAngles = map[topic.Category]string{
	topic.CategoryBreakingNews:   "Publish a same-day reaction breaking down what this means for your audience's money.",
	topic.CategoryAI:             "Demo the tool or model hands-on and show a before/after workflow.",
	topic.CategoryWealthBuilding: "Turn this into a case study with real numbers your audience can copy.",
	topic.CategoryFinancialFree:  "Map this story onto a concrete freedom-number milestone your viewers can hit.",
	topic.CategoryMoneyPsych:     "Open with the emotional hook, then give one behavior change to act on today.",
	topic.CategoryFinanceTools:   "Record a walkthrough comparing this against the tool your audience already uses.",
}

// Generate returns the ordered action-angle list for a classified topic.
func Generate(t topic.Topic) []string {
	var out []string
	s := t.Signals

	// Signal combinations first: they are the most specific, hence the
	// most actionable.
	switch {
	case s.AIAngle && s.WealthStrategyAngle:
		out = append(out, "Script an 'AI does the investing legwork' deep-dive anchored on this story.")
	case s.AIAngle && s.MoneyPsychologyAngle:
		out = append(out, "Frame this as 'how AI exploits (or fixes) your money biases' and react on camera.")
	case s.MoneyPsychologyAngle && s.WealthStrategyAngle:
		out = append(out, "Pair the mindset trap in this story with the wealth tactic that counters it.")
	case s.AIAngle:
		out = append(out, "Break down the AI development here and what it automates for a solo creator.")
	case s.MoneyPsychologyAngle:
		out = append(out, "Lead with the psychology hook: name the bias, then the fix.")
	case s.WealthStrategyAngle:
		out = append(out, "Extract the repeatable wealth strategy and pressure-test it with real numbers.")
	}

	if s.Tier1Focus {
		out = append(out, "Localize the numbers for US/UK/CA/AU viewers to maximize RPM.")
	} else {
		out = append(out, "Add a Tier-1 market angle before covering: translate the impact to US/UK audiences.")
	}

	if angle, ok := categoryAngles[t.Category]; ok {
		out = append(out, angle)
	}

	if len(out) == 0 {
		out = append(out, genericFallback)
	}
	if len(out) > maxAngles {
		out = out[:maxAngles]
	}
	return out
}
