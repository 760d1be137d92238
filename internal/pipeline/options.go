package pipeline

import (
	"time"

	"git.home.luguber.info/inful/blogsync/internal/history"
	"git.home.luguber.info/inful/blogsync/internal/metrics"
	"git.home.luguber.info/inful/blogsync/internal/notify"
	"git.home.luguber.info/inful/blogsync/internal/publish"
)

// Option configures a Runner.
type Option func(*Runner)

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Runner) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// WithHistory records every run in store.
func WithHistory(store history.Store) Option {
	return func(r *Runner) { r.history = store }
}

// WithNotifier announces successful runs.
func WithNotifier(n notify.Notifier) Option {
	return func(r *Runner) {
		if n != nil {
			r.notifier = n
		}
	}
}

// WithCommitter commits changed files after each successful run.
func WithCommitter(c *publish.Committer) Option {
	return func(r *Runner) { r.committer = c }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithRunIDs overrides run ID generation.
func WithRunIDs(next func() string) Option {
	return func(r *Runner) { r.newRunID = next }
}

// WithTrigger labels runs with the source that started them (cli, schedule, watch, ...).
func WithTrigger(name string) Option {
	return func(r *Runner) { r.trigger = name }
}
