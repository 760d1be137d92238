package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyMode       = "mode"
	KeySlug       = "slug"
	KeyTitle      = "title"
	KeyPath       = "path"
	KeyPosts      = "posts"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeySchedule   = "schedule"
	KeyTrigger    = "trigger"
	KeySubject    = "subject"
	KeyCommit     = "commit"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Mode(m string) slog.Attr          { return slog.String(KeyMode, m) }
func Slug(s string) slog.Attr          { return slog.String(KeySlug, s) }
func Title(t string) slog.Attr         { return slog.String(KeyTitle, t) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Posts(n int) slog.Attr            { return slog.Int(KeyPosts, n) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Schedule(expr string) slog.Attr   { return slog.String(KeySchedule, expr) }
func Trigger(name string) slog.Attr    { return slog.String(KeyTrigger, name) }
func Subject(s string) slog.Attr       { return slog.String(KeySubject, s) }
func Commit(sha string) slog.Attr      { return slog.String(KeyCommit, sha) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
