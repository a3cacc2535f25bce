// Package observability carries render-scoped logging context (render ID,
// trigger, stage) through context.Context so every log line of a run can be
// correlated.
package observability

import (
	"context"
	"log/slog"

	"github.com/jhlabs/unfold/docsite/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	RenderID string
	Trigger  string
	Stage    string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithRenderID adds a render ID to the context.
func WithRenderID(ctx context.Context, renderID string) context.Context {
	lc := extractLogContext(ctx)
	lc.RenderID = renderID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithTrigger records what started the render (cli, watch, schedule).
func WithTrigger(ctx context.Context, trigger string) context.Context {
	lc := extractLogContext(ctx)
	lc.Trigger = trigger
	return context.WithValue(ctx, logContextKey, lc)
}

// WithStage adds a stage name to the context.
func WithStage(ctx context.Context, stage string) context.Context {
	lc := extractLogContext(ctx)
	lc.Stage = stage
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext returns the LogContext stored in ctx, if any.
func FromContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}

func extractLogContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

func getLogAttrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := []slog.Attr{}
	if lc.RenderID != "" {
		attrs = append(attrs, logfields.RenderID(lc.RenderID))
	}
	if lc.Trigger != "" {
		attrs = append(attrs, logfields.Trigger(lc.Trigger))
	}
	if lc.Stage != "" {
		attrs = append(attrs, slog.String("stage", lc.Stage))
	}
	return attrs
}

func logContext(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	slog.LogAttrs(ctx, level, msg, append(getLogAttrs(ctx), attrs...)...)
}

// InfoContext logs an info message with context information.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelInfo, msg, attrs)
}

// WarnContext logs a warning message with context information.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelWarn, msg, attrs)
}

// ErrorContext logs an error message with context information.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelError, msg, attrs)
}

// DebugContext logs a debug message with context information.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelDebug, msg, attrs)
}
