package classify

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/buildyoursystem/topicradar/internal/topic"
)

//go:embed lexicons.yaml
var defaultLexiconData []byte

// Lexicon is the keyword configuration driving classification. It is
// versionable data, loaded once at process start, never hand-rolled per
// call.
type Lexicon struct {
	// Categories maps each category to its keyword/phrase list.
	Categories map[string][]string `yaml:"categories"`
	// Signals maps the three keyword signals to their lists.
	Signals struct {
		AI              []string `yaml:"ai"`
		MoneyPsychology []string `yaml:"money_psychology"`
		WealthStrategy  []string `yaml:"wealth_strategy"`
	} `yaml:"signals"`
	// Tier1Tokens are market tokens (countries, currencies, demonyms,
	// institutions) for the Tier-1 relevance flag.
	Tier1Tokens []string `yaml:"tier1_tokens"`
}

// DefaultLexicon parses the embedded lexicon file.
func DefaultLexicon() (*Lexicon, error) {
	return parseLexicon(defaultLexiconData)
}

// LoadLexicon reads a lexicon override from disk.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon file: %w", err)
	}
	return parseLexicon(data)
}

func parseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon: %w", err)
	}
	if err := lex.validate(); err != nil {
		return nil, err
	}
	lex.lower()
	return &lex, nil
}

// validate ensures every category and signal has a keyword list, so a bad
// override fails at startup rather than silently misclassifying.
func (l *Lexicon) validate() error {
	for _, cat := range topic.CategoryPriority() {
		if len(l.Categories[string(cat)]) == 0 {
			return fmt.Errorf("lexicon missing category %q", cat)
		}
	}
	if len(l.Signals.AI) == 0 || len(l.Signals.MoneyPsychology) == 0 || len(l.Signals.WealthStrategy) == 0 {
		return fmt.Errorf("lexicon missing one or more signal keyword lists")
	}
	if len(l.Tier1Tokens) == 0 {
		return fmt.Errorf("lexicon missing tier1_tokens")
	}
	return nil
}

// lower normalizes every keyword once, at load time.
func (l *Lexicon) lower() {
	for cat, kws := range l.Categories {
		for i := range kws {
			kws[i] = strings.ToLower(kws[i])
		}
		l.Categories[cat] = kws
	}
	lowerAll(l.Signals.AI)
	lowerAll(l.Signals.MoneyPsychology)
	lowerAll(l.Signals.WealthStrategy)
	lowerAll(l.Tier1Tokens)
}

func lowerAll(ss []string) {
	for i := range ss {
		ss[i] = strings.ToLower(ss[i])
	}
}
