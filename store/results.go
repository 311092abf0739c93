package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Episode is one finished run as recorded in the results index.
type Episode struct {
	ID        string
	Scenario  string
	Advanced  bool
	Ticks     int
	Outcome   string
	WrittenAt time.Time
}

// Results wraps the sqlite results index with thread-safe writes.
// SQLite only supports one writer, so all mutations go through a mutex.
type Results struct {
	conn *sql.DB
	mu   sync.Mutex
}

// OpenResults opens (creating if needed) the results database.
func OpenResults(path string) (*Results, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open results db: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	r := &Results{conn: conn}
	if err := r.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}
	return r, nil
}

func (r *Results) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS episodes (
		id          TEXT PRIMARY KEY,
		scenario    TEXT NOT NULL,
		advanced    INTEGER NOT NULL,
		ticks       INTEGER NOT NULL,
		outcome     TEXT NOT NULL,
		written_at  TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_episodes_outcome ON episodes(outcome);
	`
	if _, err := r.conn.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// InsertEpisode records one finished episode.
func (r *Results) InsertEpisode(e Episode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	when := e.WrittenAt
	if when.IsZero() {
		when = time.Now().UTC()
	}
	_, err := r.conn.Exec(
		`INSERT OR REPLACE INTO episodes (id, scenario, advanced, ticks, outcome, written_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Scenario, e.Advanced, e.Ticks, e.Outcome, when,
	)
	if err != nil {
		return fmt.Errorf("insert episode %s: %w", e.ID, err)
	}
	return nil
}

// OutcomeCounts returns episode counts grouped by outcome.
func (r *Results) OutcomeCounts() (map[string]int, error) {
	rows, err := r.conn.Query(`SELECT outcome, COUNT(*) FROM episodes GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, err
		}
		out[outcome] = n
	}
	return out, rows.Err()
}

func (r *Results) Close() error { return r.conn.Close() }
