package aggregate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/buildyoursystem/topicradar/internal/classify"
	"github.com/buildyoursystem/topicradar/internal/dedup"
	"github.com/buildyoursystem/topicradar/internal/sources"
	"github.com/buildyoursystem/topicradar/internal/topic"
)

// stubSource is a canned adapter for pipeline tests.
type stubSource struct {
	name  string
	tier1 bool
	items []topic.RawItem
	err   error
	// block makes Fetch wait for ctx cancellation before returning.
	block bool
}

func (s *stubSource) Name() string { return s.name }
func (s *stubSource) Tier1() bool  { return s.tier1 }

func (s *stubSource) Fetch(ctx context.Context) ([]topic.RawItem, error) {
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.items, s.err
}

func testAggregator(t *testing.T, clock Clock, opts Options, srcs ...sources.Source) *Aggregator {
	t.Helper()
	lex, err := classify.DefaultLexicon()
	if err != nil {
		t.Fatalf("DefaultLexicon: %v", err)
	}
	return New(sources.Declare(srcs...), classify.New(lex), dedup.New(dedup.DefaultThreshold), clock, opts)
}

func fixedClock(ts string) Clock {
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return parsed }
}

func item(title, url string, engagement int64) topic.RawItem {
	return topic.RawItem{Title: title, URL: url, EngagementCount: engagement, EngagementKind: "points"}
}

func TestRunAllSourcesFail(t *testing.T) {
	boom := errors.New("upstream down")
	agg := testAggregator(t, fixedClock("2026-09-01T12:00:00Z"), Options{},
		&stubSource{name: "a", err: boom},
		&stubSource{name: "b", err: boom},
		&stubSource{name: "c", err: boom},
	)

	env, report := agg.Run(context.Background())

	if env.GeneratedAt != "2026-09-01T12:00:00Z" {
		t.Errorf("generatedAt = %q, want the injected clock time", env.GeneratedAt)
	}
	if env.Topics == nil {
		t.Fatal("topics must be an empty slice, not nil")
	}
	if len(env.Topics) != 0 {
		t.Errorf("expected no topics, got %d", len(env.Topics))
	}
	for _, sr := range report.Sources {
		if sr.Err == nil {
			t.Errorf("source %q should report its error", sr.Source)
		}
	}
}

func TestRunPartialFailure(t *testing.T) {
	agg := testAggregator(t, nil, Options{},
		&stubSource{name: "dead", err: errors.New("timeout")},
		&stubSource{name: "alive", tier1: true, items: []topic.RawItem{
			item("Fed raises interest rates again", "https://example.com/fed-rates", 900),
		}},
	)

	env, report := agg.Run(context.Background())

	if len(env.Topics) != 1 {
		t.Fatalf("expected 1 topic from the surviving source, got %d", len(env.Topics))
	}
	if env.Topics[0].Source != "alive" {
		t.Errorf("topic attributed to %q, want %q", env.Topics[0].Source, "alive")
	}
	if len(report.Sources) != 2 {
		t.Fatalf("expected 2 source reports, got %d", len(report.Sources))
	}
	if report.Sources[0].Err == nil || report.Sources[1].Err != nil {
		t.Error("report should carry the failure for the dead source only")
	}
}

func TestRunSlowSourceDoesNotBlockOthers(t *testing.T) {
	agg := testAggregator(t, nil, Options{AdapterTimeout: 50 * time.Millisecond},
		&stubSource{name: "slow", block: true},
		&stubSource{name: "fast", items: []topic.RawItem{
			item("Index funds vs real estate in 2026", "https://example.com/funds", 40),
		}},
	)

	start := time.Now()
	env, _ := agg.Run(context.Background())
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("cycle took %v, slow adapter should be cut off by its timeout", elapsed)
	}
	if len(env.Topics) != 1 {
		t.Errorf("expected the fast source's topic, got %d topics", len(env.Topics))
	}
}

func TestRunDedupesAcrossSources(t *testing.T) {
	agg := testAggregator(t, nil, Options{},
		&stubSource{name: "first", items: []topic.RawItem{
			item("Warren Buffett sells entire Apple stake", "https://example.com/buffett-apple?ref=home", 100),
		}},
		&stubSource{name: "second", items: []topic.RawItem{
			item("Warren Buffett sells entire Apple stake", "https://www.example.com/buffett-apple", 5000),
		}},
	)

	env, report := agg.Run(context.Background())

	if len(env.Topics) != 1 {
		t.Fatalf("same story from two sources should merge, got %d topics", len(env.Topics))
	}
	if env.Topics[0].Source != "second" {
		t.Errorf("survivor came from %q, want the higher-engagement duplicate", env.Topics[0].Source)
	}
	if report.Merged != 1 {
		t.Errorf("report.Merged = %d, want 1", report.Merged)
	}
}

func TestRunIDsUnique(t *testing.T) {
	agg := testAggregator(t, nil, Options{},
		&stubSource{name: "mix", items: []topic.RawItem{
			item("Mortgage rates fall below six percent", "https://example.com/mortgage", 10),
			item("Crypto ETF inflows hit a record", "https://example.com/etf", 20),
			item("Why lifestyle creep eats your raise", "https://example.com/creep", 30),
		}},
		&stubSource{name: "other", items: []topic.RawItem{
			item("New budgeting app adds AI coaching", "https://example.com/app", 40),
		}},
	)

	env, _ := agg.Run(context.Background())

	seen := make(map[string]bool)
	for _, tp := range env.Topics {
		if tp.ID == "" {
			t.Error("topic with empty id")
		}
		if seen[tp.ID] {
			t.Errorf("duplicate id %q", tp.ID)
		}
		seen[tp.ID] = true
	}
}

func TestRunCapsItemsPerSource(t *testing.T) {
	var items []topic.RawItem
	urls := []string{
		"https://example.com/one", "https://example.com/two",
		"https://example.com/three", "https://example.com/four",
	}
	titles := []string{
		"Savings rates climb at online banks",
		"Treasury yields dip after jobs report",
		"Roth conversions explained for late starters",
		"Emergency fund math for freelancers",
	}
	for i, u := range urls {
		items = append(items, item(titles[i], u, int64(i)))
	}

	agg := testAggregator(t, nil, Options{MaxItemsPerSource: 2},
		&stubSource{name: "firehose", items: items},
	)

	env, report := agg.Run(context.Background())

	if report.Sources[0].Fetched != 2 {
		t.Errorf("fetched = %d after cap, want 2", report.Sources[0].Fetched)
	}
	if len(env.Topics) != 2 {
		t.Errorf("expected 2 topics after cap, got %d", len(env.Topics))
	}
}

func TestRunPopulatesClassification(t *testing.T) {
	agg := testAggregator(t, nil, Options{},
		&stubSource{name: "wire", tier1: true, items: []topic.RawItem{
			item("ChatGPT now files your taxes", "https://example.com/ai-tax", 250),
		}},
	)

	env, report := agg.Run(context.Background())
	if len(env.Topics) != 1 {
		t.Fatalf("expected 1 topic, got %d", len(env.Topics))
	}
	tp := env.Topics[0]
	if tp.Category == "" {
		t.Error("topic missing category")
	}
	if !tp.Signals.Tier1Focus {
		t.Error("tier-1 source should set tier1Focus")
	}
	if len(tp.ActionAngles) == 0 {
		t.Error("topic missing action angles")
	}
	if report.ByCat[tp.Category] != 1 {
		t.Errorf("report.ByCat[%q] = %d, want 1", tp.Category, report.ByCat[tp.Category])
	}
}
