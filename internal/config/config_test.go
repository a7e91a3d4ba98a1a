package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":8787" {
		t.Errorf("listen addr = %q", cfg.ListenAddr)
	}
	if cfg.AdapterTimeout() != 15*time.Second {
		t.Errorf("adapter timeout = %v", cfg.AdapterTimeout())
	}
	if cfg.Deadline() != 25*time.Second {
		t.Errorf("deadline = %v", cfg.Deadline())
	}
	if cfg.Aggregation.DedupThreshold != 0.8 {
		t.Errorf("dedup threshold = %v", cfg.Aggregation.DedupThreshold)
	}
	if cfg.History.Enabled {
		t.Error("history should default to disabled")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"listen_addr": ":9999",
		"aggregation": {
			"adapter_timeout_sec": 5,
			"deadline_sec": 10,
			"max_concurrent_fetches": 2,
			"dedup_threshold": 0.9,
			"max_items_per_source": 7
		},
		"sources": {"requests_per_second": 1}
	}`
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":9999" {
		t.Errorf("listen addr = %q", cfg.ListenAddr)
	}
	if cfg.AdapterTimeout() != 5*time.Second || cfg.Deadline() != 10*time.Second {
		t.Errorf("timeouts = %v / %v", cfg.AdapterTimeout(), cfg.Deadline())
	}
	if cfg.Aggregation.MaxItemsPerSource != 7 {
		t.Errorf("max items per source = %d", cfg.Aggregation.MaxItemsPerSource)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TOPICRADAR_LISTEN_ADDR", ":7070")
	t.Setenv("YOUTUBE_API_KEY", "env-key")
	t.Setenv("TOPICRADAR_DEADLINE_SEC", "40")
	t.Setenv("TOPICRADAR_HISTORY_DB", "/tmp/radar-history.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":7070" {
		t.Errorf("listen addr = %q", cfg.ListenAddr)
	}
	if cfg.Sources.YouTubeAPIKey != "env-key" {
		t.Errorf("api key = %q", cfg.Sources.YouTubeAPIKey)
	}
	if cfg.Aggregation.DeadlineSec != 40 {
		t.Errorf("deadline sec = %d", cfg.Aggregation.DeadlineSec)
	}
	if !cfg.History.Enabled || cfg.History.DBPath != "/tmp/radar-history.db" {
		t.Errorf("history = %+v, setting the db env var should enable it", cfg.History)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"zero adapter timeout", `{"aggregation": {"adapter_timeout_sec": 0, "deadline_sec": 10}}`},
		{"negative deadline", `{"aggregation": {"adapter_timeout_sec": 5, "deadline_sec": -1}}`},
		{"threshold above one", `{"aggregation": {"adapter_timeout_sec": 5, "deadline_sec": 10, "dedup_threshold": 1.5}}`},
		{"malformed json", `{"listen_addr": `},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tc.body), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSaveRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	want := Default()
	want.ListenAddr = ":6060"
	want.Sources.YouTubeAPIKey = "saved-key"
	if err := want.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ListenAddr != ":6060" || got.Sources.YouTubeAPIKey != "saved-key" {
		t.Errorf("roundtrip mismatch: addr=%q key=%q", got.ListenAddr, got.Sources.YouTubeAPIKey)
	}
}
