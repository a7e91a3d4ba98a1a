// Package history persists an audit trail of aggregation cycles.
//
// The store is strictly off the request path: aggregation never reads from
// it, so every cycle remains a full recomputation from live sources. It
// exists so operators can diff cycles and watch source health over time.
//
// Store is safe for concurrent use; the underlying sql.DB serializes
// access.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/buildyoursystem/topicradar/internal/aggregate"
	"github.com/buildyoursystem/topicradar/internal/topic"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// Store records aggregation cycles in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (and migrates) the history database at the given path.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cycles (
		id TEXT PRIMARY KEY,
		generated_at TEXT NOT NULL,
		topic_count INTEGER NOT NULL,
		merged INTEGER NOT NULL,
		dropped INTEGER NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS cycle_sources (
		cycle_id TEXT NOT NULL REFERENCES cycles(id),
		source TEXT NOT NULL,
		fetched INTEGER NOT NULL,
		dropped INTEGER NOT NULL,
		fault TEXT
	);

	CREATE TABLE IF NOT EXISTS cycle_topics (
		cycle_id TEXT NOT NULL REFERENCES cycles(id),
		rank INTEGER NOT NULL,
		topic_id TEXT NOT NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		source TEXT NOT NULL,
		category TEXT NOT NULL,
		tier1 INTEGER NOT NULL,
		ai INTEGER NOT NULL,
		psychology INTEGER NOT NULL,
		wealth INTEGER NOT NULL,
		engagement TEXT,
		published_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_cycles_generated ON cycles(generated_at DESC);
	CREATE INDEX IF NOT EXISTS idx_cycle_topics_cycle ON cycle_topics(cycle_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordCycle persists one cycle's envelope and report atomically,
// returning the new cycle id.
func (s *Store) RecordCycle(env topic.Envelope, report aggregate.Report) (string, error) {
	id := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO cycles (id, generated_at, topic_count, merged, dropped, elapsed_ms) VALUES (?, ?, ?, ?, ?, ?)`,
		id, env.GeneratedAt, len(env.Topics), report.Merged, report.Dropped, report.Elapsed.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert cycle: %w", err)
	}

	for _, sr := range report.Sources {
		var fault sql.NullString
		if sr.Err != nil {
			fault = sql.NullString{String: sr.Err.Error(), Valid: true}
		}
		if _, err := tx.Exec(
			`INSERT INTO cycle_sources (cycle_id, source, fetched, dropped, fault) VALUES (?, ?, ?, ?, ?)`,
			id, sr.Source, sr.Fetched, sr.Dropped, fault,
		); err != nil {
			return "", fmt.Errorf("failed to insert source report: %w", err)
		}
	}

	for i, t := range env.Topics {
		var published sql.NullString
		if t.PublishedAt != nil {
			published = sql.NullString{String: t.PublishedAt.UTC().Format(time.RFC3339), Valid: true}
		}
		if _, err := tx.Exec(
			`INSERT INTO cycle_topics (cycle_id, rank, topic_id, title, url, source, category, tier1, ai, psychology, wealth, engagement, published_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, t.ID, t.Title, t.URL, t.Source, string(t.Category),
			boolInt(t.Signals.Tier1Focus), boolInt(t.Signals.AIAngle),
			boolInt(t.Signals.MoneyPsychologyAngle), boolInt(t.Signals.WealthStrategyAngle),
			t.Engagement, published,
		); err != nil {
			return "", fmt.Errorf("failed to insert topic: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit cycle: %w", err)
	}
	return id, nil
}

// CycleSummary is one row of the cycle log.
type CycleSummary struct {
	ID          string
	GeneratedAt string
	TopicCount  int
	Merged      int
	Dropped     int
	ElapsedMS   int64
}

// RecentCycles returns the most recent cycle summaries, newest first.
func (s *Store) RecentCycles(limit int) ([]CycleSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, generated_at, topic_count, merged, dropped, elapsed_ms
		 FROM cycles ORDER BY generated_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query cycles: %w", err)
	}
	defer rows.Close()

	var out []CycleSummary
	for rows.Next() {
		var c CycleSummary
		if err := rows.Scan(&c.ID, &c.GeneratedAt, &c.TopicCount, &c.Merged, &c.Dropped, &c.ElapsedMS); err != nil {
			return nil, fmt.Errorf("failed to scan cycle: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// TopicCount returns how many topics a recorded cycle holds.
func (s *Store) TopicCount(cycleID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM cycle_topics WHERE cycle_id = ?`, cycleID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count topics: %w", err)
	}
	return n, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
