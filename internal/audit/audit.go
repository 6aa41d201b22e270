// Package audit records actions served over HTTP and MCP in a SQLite database.
//
// Only invocation metadata is stored (surface, action, outcome, resulting size
// and capacity); the simulators themselves are never persisted and start fresh
// on every run.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nvandessel/vecsim/internal/sanitize"
)

// maxValueLen bounds stored action values.
const maxValueLen = 64

const schema = `
CREATE TABLE IF NOT EXISTS actions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp TEXT NOT NULL,
    surface TEXT NOT NULL,   -- 'http' or 'mcp'
    action TEXT NOT NULL,
    value TEXT,
    duration_ms INTEGER NOT NULL,
    status TEXT NOT NULL,    -- 'success' or 'error'
    error TEXT,
    size INTEGER,
    capacity INTEGER
);
CREATE INDEX IF NOT EXISTS idx_actions_timestamp ON actions(timestamp);
`

// Entry is one audited action.
type Entry struct {
	Timestamp  time.Time `json:"timestamp"`
	Surface    string    `json:"surface"`
	Action     string    `json:"action"`
	Value      string    `json:"value,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	Size       int       `json:"size"`
	Capacity   int       `json:"capacity"`
}

// Store writes audit entries to SQLite. It is safe for concurrent use.
// A nil Store is safe to use; all methods are no-ops on nil receiver.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens (or creates) the audit database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize audit schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Record inserts an entry. Values are escaped and cut to 64 characters.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if s == nil {
		return nil
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO actions (timestamp, surface, action, value, duration_ms, status, error, size, capacity)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Timestamp.UTC().Format(time.RFC3339Nano), e.Surface, e.Action, sanitize.Truncate(sanitize.Display(e.Value), maxValueLen),
		e.DurationMs, e.Status, e.Error, e.Size, e.Capacity)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if s == nil {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp, surface, action, COALESCE(value, ''), duration_ms, status, COALESCE(error, ''), size, capacity
		 FROM actions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts string
		if err := rows.Scan(&ts, &e.Surface, &e.Action, &e.Value, &e.DurationMs, &e.Status, &e.Error, &e.Size, &e.Capacity); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database. Safe to call more than once.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
