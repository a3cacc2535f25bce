// Package events publishes render notifications so deploy hooks and
// preview environments can react to a new framework config.
package events

import (
	"context"
	"time"
)

// RenderedEvent is published after every render that was not skipped.
type RenderedEvent struct {
	RenderID    string    `json:"render_id"`
	Site        string    `json:"site"`
	Outcome     string    `json:"outcome"`
	Trigger     string    `json:"trigger"`
	ConfigHash  string    `json:"config_hash"`
	ContentHash string    `json:"content_hash"`
	Commit      string    `json:"commit,omitempty"`
	Files       []string  `json:"files"`
	Errors      int       `json:"errors"`
	Warnings    int       `json:"warnings"`
	DurationMS  int64     `json:"duration_ms"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher delivers render events.
type Publisher interface {
	PublishRendered(ctx context.Context, event RenderedEvent) error
	Close() error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) PublishRendered(context.Context, RenderedEvent) error { return nil }
func (NoopPublisher) Close() error                                         { return nil }
