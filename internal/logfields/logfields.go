package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRenderID    = "render_id"
	KeyPath        = "path"
	KeySlug        = "slug"
	KeyGroup       = "group"
	KeyFormat      = "format"
	KeyOutcome     = "outcome"
	KeyDurationMS  = "duration_ms"
	KeyConfigHash  = "config_hash"
	KeyContentHash = "content_hash"
	KeyTrigger     = "trigger"
	KeyRule        = "rule"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RenderID(id string) slog.Attr    { return slog.String(KeyRenderID, id) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Group(label string) slog.Attr    { return slog.String(KeyGroup, label) }
func Format(f string) slog.Attr       { return slog.String(KeyFormat, f) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func ConfigHash(h string) slog.Attr   { return slog.String(KeyConfigHash, h) }
func ContentHash(h string) slog.Attr  { return slog.String(KeyContentHash, h) }
func Trigger(t string) slog.Attr      { return slog.String(KeyTrigger, t) }
func Rule(r string) slog.Attr         { return slog.String(KeyRule, r) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
