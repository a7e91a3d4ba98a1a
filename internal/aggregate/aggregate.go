// Package aggregate runs the end-to-end topic aggregation cycle.
//
// The orchestrator fans out to every source adapter concurrently, bounded
// by a per-adapter timeout and an overall deadline, then pushes each raw
// item through normalize -> classify -> angles and finally dedup/rank.
// This is best-effort quorum: a slow or failed adapter contributes nothing
// and never blocks or aborts the rest.
package aggregate

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/buildyoursystem/topicradar/internal/angles"
	"github.com/buildyoursystem/topicradar/internal/classify"
	"github.com/buildyoursystem/topicradar/internal/dedup"
	"github.com/buildyoursystem/topicradar/internal/logging"
	"github.com/buildyoursystem/topicradar/internal/normalize"
	"github.com/buildyoursystem/topicradar/internal/sources"
	"github.com/buildyoursystem/topicradar/internal/topic"
)

// Clock supplies the wall-clock time for generatedAt. Injected so tests
// run against a fixed clock.
type Clock func() time.Time

// Options tune one orchestrator instance.
type Options struct {
	// AdapterTimeout bounds each individual source fetch.
	AdapterTimeout time.Duration
	// Deadline bounds the whole cycle. Zero means no overall deadline.
	Deadline time.Duration
	// MaxConcurrent limits parallel fetches.
	MaxConcurrent int
	// MaxItemsPerSource caps one adapter's contribution. Zero means no cap.
	MaxItemsPerSource int
}

// SourceReport describes one adapter's contribution to a cycle.
type SourceReport struct {
	Source  string
	Fetched int
	Dropped int
	Err     error
}

// Report summarizes a whole cycle for logging and the history store.
type Report struct {
	Sources  []SourceReport
	Dropped  int // malformed items discarded during normalization
	Merged   int // candidates discarded as duplicates
	Elapsed  time.Duration
	ByCat    map[topic.Category]int
	BySignal map[string]int
}

// Aggregator owns the pipeline for repeated cycles. It holds no mutable
// state between cycles; two overlapping Run calls do independent work.
type Aggregator struct {
	sources    []sources.Declared
	classifier *classify.Classifier
	deduper    *dedup.Deduper
	clock      Clock
	opts       Options
}

// New creates an Aggregator. clock may be nil, meaning time.Now.
func New(declared []sources.Declared, cls *classify.Classifier, dd *dedup.Deduper, clock Clock, opts Options) *Aggregator {
	if clock == nil {
		clock = time.Now
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 5
	}
	if opts.AdapterTimeout <= 0 {
		opts.AdapterTimeout = 15 * time.Second
	}
	return &Aggregator{
		sources:    declared,
		classifier: cls,
		deduper:    dd,
		clock:      clock,
		opts:       opts,
	}
}

// fetchResult captures one adapter's outcome. Result-per-slot: the slice
// is indexed by declaration order, so no mutex is needed.
type fetchResult struct {
	items []topic.RawItem
	err   error
}

// Run executes one full aggregation cycle. It always returns a well-formed
// envelope: total failure yields an empty topic list, not an error. The
// caller's ctx cancels in-flight fetches; whatever completed still makes
// it into the result.
func (a *Aggregator) Run(ctx context.Context) (topic.Envelope, Report) {
	start := time.Now()

	if a.opts.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Deadline)
		defer cancel()
	}

	results := make([]fetchResult, len(a.sources))

	var g errgroup.Group
	g.SetLimit(a.opts.MaxConcurrent)
	for _, decl := range a.sources {
		g.Go(func() error {
			if ctx.Err() != nil {
				results[decl.Order].err = ctx.Err()
				return nil
			}
			fetchCtx, cancel := context.WithTimeout(ctx, a.opts.AdapterTimeout)
			defer cancel()

			items, err := decl.Source.Fetch(fetchCtx)
			results[decl.Order] = fetchResult{items: items, err: err}
			return nil // adapter faults never fail the group
		})
	}
	_ = g.Wait()

	norm := normalize.New()
	report := Report{
		ByCat:    make(map[topic.Category]int),
		BySignal: make(map[string]int),
	}

	var candidates []topic.Topic
	seen := make(map[string]int)

	for _, decl := range a.sources {
		res := results[decl.Order]
		sr := SourceReport{Source: decl.Source.Name(), Err: res.err}

		if res.err != nil {
			logging.Warn("source fetch failed", "source", sr.Source, "error", res.err)
		}

		items := res.items
		if a.opts.MaxItemsPerSource > 0 && len(items) > a.opts.MaxItemsPerSource {
			items = items[:a.opts.MaxItemsPerSource]
		}
		sr.Fetched = len(items)

		droppedBefore := norm.Dropped()
		for _, raw := range items {
			shell, ok := norm.Normalize(raw, decl.Source.Name(), decl.Order)
			if !ok {
				continue
			}

			// ID uniqueness across the full collection; collisions
			// within one generation get a stable suffix.
			if n := seen[shell.ID]; n > 0 {
				seen[shell.ID] = n + 1
				shell.ID = fmt.Sprintf("%s-%d", shell.ID, n+1)
			} else {
				seen[shell.ID] = 1
			}

			shell.Category, shell.Signals = a.classifier.Classify(shell, decl.Source.Tier1())
			shell.ActionAngles = angles.Generate(shell)
			candidates = append(candidates, shell)
		}
		sr.Dropped = norm.Dropped() - droppedBefore
		report.Sources = append(report.Sources, sr)
	}
	report.Dropped = norm.Dropped()

	topics := a.deduper.Dedupe(candidates)
	report.Merged = len(candidates) - len(topics)
	dedup.Rank(topics)

	for _, t := range topics {
		report.ByCat[t.Category]++
		if t.Signals.Tier1Focus {
			report.BySignal["tier1"]++
		}
		if t.Signals.AIAngle {
			report.BySignal["ai"]++
		}
		if t.Signals.MoneyPsychologyAngle {
			report.BySignal["psychology"]++
		}
		if t.Signals.WealthStrategyAngle {
			report.BySignal["wealth"]++
		}
	}
	report.Elapsed = time.Since(start)

	// Snapshot time is captured once, after all adapters settle.
	env := topic.Envelope{
		GeneratedAt: a.clock().UTC().Format(time.RFC3339),
		Topics:      topics,
	}
	if env.Topics == nil {
		env.Topics = []topic.Topic{}
	}

	logging.Info("aggregation cycle complete",
		"topics", len(env.Topics),
		"candidates", len(candidates),
		"merged", report.Merged,
		"dropped", report.Dropped,
		"elapsed", report.Elapsed.Round(time.Millisecond),
	)
	return env, report
}
