// Package history records every render in a SQLite database so unchanged
// inputs can be detected and past renders inspected.
package history

import (
	"context"
	"time"
)

// Outcome of one render run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeWarning Outcome = "warning"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// Entry is one recorded render.
type Entry struct {
	ID          string        `json:"id"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	Trigger     string        `json:"trigger"`
	Outcome     Outcome       `json:"outcome"`
	ConfigHash  string        `json:"config_hash"`
	ContentHash string        `json:"content_hash"`
	Commit      string        `json:"commit,omitempty"`
	Files       []string      `json:"files"`
	Errors      int           `json:"errors"`
	Warnings    int           `json:"warnings"`
	Message     string        `json:"message,omitempty"`
}

// Store persists render entries.
type Store interface {
	Append(ctx context.Context, e Entry) error
	// Latest returns the most recent entry, or nil when there is none.
	Latest(ctx context.Context) (*Entry, error)
	// List returns up to limit entries, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}
