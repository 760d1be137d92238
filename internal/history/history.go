// Package history keeps a ledger of pipeline runs in SQLite.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
)

// Outcome values stored for a run.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// PostRecord is one post written by a run.
type PostRecord struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// Run is one recorded pipeline execution.
type Run struct {
	ID        string        `json:"id"`
	Mode      string        `json:"mode"`
	Trigger   string        `json:"trigger"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Outcome   string        `json:"outcome"`
	Error     string        `json:"error,omitempty"`
	Deleted   int           `json:"deleted"`
	Posts     []PostRecord  `json:"posts"`
}

// Store records runs.
type Store interface {
	Record(ctx context.Context, run Run) error
	Recent(ctx context.Context, limit int) ([]Run, error)
	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens or creates the ledger at path. ":memory:" gives a private
// in-memory database.
func Open(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryHistory, "create history directory").
				WithContext("path", path).Build()
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryHistory, "open sqlite database").
			WithContext("path", path).Build()
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, ferrors.WrapError(err, ferrors.CategoryHistory, "initialize schema").
			WithContext("path", path).Build()
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		trigger_source TEXT,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		error TEXT,
		deleted INTEGER NOT NULL DEFAULT 0,
		posts TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores run. Recording the same ID twice replaces the earlier row.
func (s *SQLiteStore) Record(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := json.Marshal(run.Posts)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryHistory, "marshal posts").Build()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, mode, trigger_source, started_at, duration_ms, outcome, error, deleted, posts)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Mode, run.Trigger, run.StartedAt.UnixNano(), run.Duration.Milliseconds(),
		run.Outcome, run.Error, run.Deleted, string(posts),
	)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryHistory, "insert run").
			WithContext("run_id", run.ID).Build()
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, trigger_source, started_at, duration_ms, outcome, error, deleted, posts
		 FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryHistory, "query runs").Build()
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			trigger    sql.NullString
			errText    sql.NullString
			posts      sql.NullString
			startedAt  int64
			durationMS int64
		)
		if err := rows.Scan(&r.ID, &r.Mode, &trigger, &startedAt, &durationMS, &r.Outcome, &errText, &r.Deleted, &posts); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryHistory, "scan run").Build()
		}
		r.Trigger = trigger.String
		r.Error = errText.String
		r.StartedAt = time.Unix(0, startedAt)
		r.Duration = time.Duration(durationMS) * time.Millisecond
		if posts.Valid && posts.String != "" {
			if err := json.Unmarshal([]byte(posts.String), &r.Posts); err != nil {
				return nil, ferrors.WrapError(err, ferrors.CategoryHistory, "decode posts").
					WithContext("run_id", r.ID).Build()
			}
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryHistory, "iterate runs").Build()
	}
	return runs, nil
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
