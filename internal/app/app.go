// Package app assembles the Topic Radar pipeline from configuration.
// Both binaries (the server and the one-shot CLI) build through here so
// adapter declaration order is identical everywhere.
package app

import (
	"fmt"

	"github.com/buildyoursystem/topicradar/internal/aggregate"
	"github.com/buildyoursystem/topicradar/internal/classify"
	"github.com/buildyoursystem/topicradar/internal/config"
	"github.com/buildyoursystem/topicradar/internal/dedup"
	"github.com/buildyoursystem/topicradar/internal/history"
	"github.com/buildyoursystem/topicradar/internal/logging"
	"github.com/buildyoursystem/topicradar/internal/sources"
	"github.com/buildyoursystem/topicradar/internal/sources/googlenews"
	"github.com/buildyoursystem/topicradar/internal/sources/hackernews"
	"github.com/buildyoursystem/topicradar/internal/sources/pubfeed"
	"github.com/buildyoursystem/topicradar/internal/sources/reddit"
	"github.com/buildyoursystem/topicradar/internal/sources/youtube"
)

// App holds the assembled pipeline and its optional history store.
type App struct {
	Aggregator *aggregate.Aggregator
	History    *history.Store // nil when disabled
}

// Build assembles the pipeline from config.
//
// Adapter declaration order is part of the dedup contract (final
// tie-break), so the order below is fixed: YouTube, Reddit, Hacker News,
// Google News, then the publisher feeds in registry order.
func Build(cfg *config.Config) (*App, error) {
	lex, err := loadLexicon(cfg)
	if err != nil {
		return nil, err
	}

	client := sources.NewClient(cfg.AdapterTimeout(), cfg.Sources.RequestsPerSecond)
	perSource := cfg.Aggregation.MaxItemsPerSource

	srcs := []sources.Source{
		youtube.New(client, cfg.Sources.YouTubeAPIKey, perSource),
		reddit.New(client, perSource),
		hackernews.New(client, perSource),
		googlenews.New(client, perSource),
	}
	for _, feed := range pubfeed.DefaultFeeds {
		srcs = append(srcs, pubfeed.New(client, feed, perSource))
	}

	if cfg.Sources.YouTubeAPIKey == "" {
		logging.Warn("no YouTube API key configured; the YouTube adapter will report faults")
	}

	agg := aggregate.New(
		sources.Declare(srcs...),
		classify.New(lex),
		dedup.New(cfg.Aggregation.DedupThreshold),
		nil, // wall clock
		aggregate.Options{
			AdapterTimeout:    cfg.AdapterTimeout(),
			Deadline:          cfg.Deadline(),
			MaxConcurrent:     cfg.Aggregation.MaxConcurrentFetches,
			MaxItemsPerSource: perSource,
		},
	)

	a := &App{Aggregator: agg}

	if cfg.History.Enabled {
		store, err := history.NewStore(cfg.History.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open history store: %w", err)
		}
		a.History = store
		logging.Info("history store enabled", "path", cfg.History.DBPath)
	}

	return a, nil
}

// Close releases the app's resources.
func (a *App) Close() {
	if a.History != nil {
		a.History.Close()
	}
}

func loadLexicon(cfg *config.Config) (*classify.Lexicon, error) {
	if cfg.LexiconFile != "" {
		lex, err := classify.LoadLexicon(cfg.LexiconFile)
		if err != nil {
			return nil, fmt.Errorf("lexicon override %s: %w", cfg.LexiconFile, err)
		}
		logging.Info("loaded lexicon override", "path", cfg.LexiconFile)
		return lex, nil
	}
	return classify.DefaultLexicon()
}
