// Topic Radar one-shot CLI.
//
// Runs a single aggregation cycle and prints the JSON envelope to stdout.
// Useful for cron jobs and piping into jq.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/buildyoursystem/topicradar/internal/app"
	"github.com/buildyoursystem/topicradar/internal/config"
	"github.com/buildyoursystem/topicradar/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.topicradar/config.json)")
	compact := flag.Bool("compact", false, "emit compact JSON instead of indented")
	record := flag.Bool("record", false, "also record the cycle to the history store (if enabled)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("Failed to load config: %v", err)
	}
	if err := logging.Init(cfg.LogLevel); err != nil {
		fatal("Failed to initialize logging: %v", err)
	}

	a, err := app.Build(cfg)
	if err != nil {
		fatal("Failed to build pipeline: %v", err)
	}
	defer a.Close()

	// Ctrl-C abandons unfinished fetches and emits the partial result.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, report := a.Aggregator.Run(ctx)

	if *record && a.History != nil {
		if id, err := a.History.RecordCycle(env, report); err != nil {
			logging.Error("failed to record cycle", "error", err)
		} else {
			logging.Info("cycle recorded", "id", id)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	if !*compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(env); err != nil {
		fatal("Failed to encode envelope: %v", err)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
