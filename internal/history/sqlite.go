package history

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jhlabs/unfold/docsite/internal/foundation/errors"
)

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (creating if needed) the history database at
// dbPath. Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, errors.WrapError(err, errors.CategoryHistory, "failed to create history directory").
				WithContext("path", dbPath).
				Build()
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryHistory, "open sqlite database").
			WithContext("path", dbPath).
			Build()
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, errors.WrapError(err, errors.CategoryHistory, "initialize history schema").
			WithContext("path", dbPath).
			Build()
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS renders (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		trigger_source TEXT NOT NULL,
		outcome TEXT NOT NULL,
		config_hash TEXT NOT NULL,
		content_hash TEXT NOT NULL,
		git_commit TEXT,
		files TEXT NOT NULL,
		errors INTEGER NOT NULL DEFAULT 0,
		warnings INTEGER NOT NULL DEFAULT 0,
		message TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_renders_started_at ON renders(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records e.
func (s *SQLiteStore) Append(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	files := e.Files
	if files == nil {
		files = []string{}
	}
	filesJSON, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("marshal files: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO renders (id, started_at, duration_ms, trigger_source, outcome, config_hash, content_hash, git_commit, files, errors, warnings, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.StartedAt.UnixMilli(), e.Duration.Milliseconds(), e.Trigger, string(e.Outcome),
		e.ConfigHash, e.ContentHash, e.Commit, string(filesJSON), e.Errors, e.Warnings, e.Message,
	)
	if err != nil {
		return errors.WrapError(err, errors.CategoryHistory, "insert render").
			WithContext("render_id", e.ID).
			Build()
	}
	return nil
}

const selectColumns = `SELECT id, started_at, duration_ms, trigger_source, outcome, config_hash, content_hash, git_commit, files, errors, warnings, message FROM renders`

// Latest returns the most recent entry, or nil when the history is empty.
func (s *SQLiteStore) Latest(ctx context.Context) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, selectColumns+` ORDER BY seq DESC LIMIT 1`)
	e, err := scanEntry(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryHistory, "query latest render").Build()
	}
	return &e, nil
}

// List returns up to limit entries, newest first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryHistory, "query renders").Build()
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryHistory, "scan render").Build()
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryHistory, "iterate renders").Build()
	}
	return entries, nil
}

// Prune deletes all but the newest keep entries and returns how many were
// removed.
func (s *SQLiteStore) Prune(ctx context.Context, keep int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM renders WHERE seq NOT IN (SELECT seq FROM renders ORDER BY seq DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, errors.WrapError(err, errors.CategoryHistory, "prune renders").Build()
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e                   Entry
		startedMS, duration int64
		outcome, files      string
		commit, message     sql.NullString
	)
	if err := row.Scan(&e.ID, &startedMS, &duration, &e.Trigger, &outcome, &e.ConfigHash, &e.ContentHash,
		&commit, &files, &e.Errors, &e.Warnings, &message); err != nil {
		return Entry{}, err
	}
	e.StartedAt = time.UnixMilli(startedMS)
	e.Duration = time.Duration(duration) * time.Millisecond
	e.Outcome = Outcome(outcome)
	e.Commit = commit.String
	e.Message = message.String
	if err := json.Unmarshal([]byte(files), &e.Files); err != nil {
		return Entry{}, fmt.Errorf("unmarshal files: %w", err)
	}
	return e, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
