// Topic Radar daemon.
//
// Serves the aggregation pipeline over HTTP:
//
//	GET /api/topics  - run a fresh aggregation cycle, return {generatedAt, topics}
//	GET /healthz     - liveness probe
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/buildyoursystem/topicradar/internal/app"
	"github.com/buildyoursystem/topicradar/internal/config"
	"github.com/buildyoursystem/topicradar/internal/logging"
	"github.com/buildyoursystem/topicradar/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.topicradar/config.json)")
	listenAddr := flag.String("listen", "", "listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("Failed to load config: %v", err)
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}

	if err := logging.Init(cfg.LogLevel); err != nil {
		fatal("Failed to initialize logging: %v", err)
	}
	logging.Info("topicradar starting", "listen", cfg.ListenAddr)

	a, err := app.Build(cfg)
	if err != nil {
		fatal("Failed to build pipeline: %v", err)
	}
	defer a.Close()

	var recorder server.Recorder
	if a.History != nil {
		recorder = a.History
	}

	srv := server.New(a.Aggregator, recorder)
	if err := srv.Run(cfg.ListenAddr); err != nil {
		fatal("Server failed: %v", err)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
