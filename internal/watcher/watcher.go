// Package watcher feeds draft files dropped into an inbox directory to a
// handler, one at a time.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
	"git.home.luguber.info/inful/blogsync/internal/logfields"
)

// FailedSuffix is appended to drafts the handler rejected.
const FailedSuffix = ".failed"

// Handler processes one draft file.
type Handler func(ctx context.Context, path string) error

// Watcher monitors an inbox directory for *.md and *.json drafts.
type Watcher struct {
	inbox     string
	processed string
	handler   Handler
	settle    time.Duration
}

// New creates a watcher. Processed drafts are moved into processed, or removed
// when processed is empty.
func New(inbox, processed string, handler Handler) *Watcher {
	return &Watcher{
		inbox:     inbox,
		processed: processed,
		handler:   handler,
		settle:    250 * time.Millisecond,
	}
}

// SetSettle changes how long the watcher waits after the last file event
// before processing.
func (w *Watcher) SetSettle(d time.Duration) { w.settle = d }

// Run processes drafts already in the inbox, then watches for new ones until
// ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	// #nosec G301 -- inbox directories hold user drafts.
	if err := os.MkdirAll(w.inbox, 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create inbox").
			WithContext("path", w.inbox).Fatal().Build()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to create file watcher").Fatal().Build()
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(w.inbox); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "watch inbox").
			WithContext("path", w.inbox).Fatal().Build()
	}
	slog.Info("Watching inbox", logfields.Path(w.inbox))

	if err := w.Drain(ctx); err != nil {
		return err
	}

	pending := map[string]struct{}{}
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping inbox watcher")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !isDraft(ev.Name) || !(ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write)) {
				continue
			}
			slog.Debug("Draft event", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			pending[ev.Name] = struct{}{}
			timer.Reset(w.settle)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Error("Inbox watcher error", logfields.Error(err))
		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			sort.Strings(paths)
			for _, p := range paths {
				w.process(ctx, p)
			}
		}
	}
}

// Drain processes every draft currently in the inbox, in name order.
func (w *Watcher) Drain(ctx context.Context) error {
	entries, err := os.ReadDir(w.inbox)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "read inbox").
			WithContext("path", w.inbox).Fatal().Build()
	}
	for _, e := range entries {
		if e.IsDir() || !isDraft(e.Name()) {
			continue
		}
		if ctx.Err() != nil {
			return nil
		}
		w.process(ctx, filepath.Join(w.inbox, e.Name()))
	}
	return nil
}

func (w *Watcher) process(ctx context.Context, path string) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err := w.handler(ctx, path); err != nil {
		slog.Error("Draft rejected", logfields.Path(path), logfields.Error(err))
		if rerr := os.Rename(path, path+FailedSuffix); rerr != nil {
			slog.Error("Failed to mark draft as failed", logfields.Path(path), logfields.Error(rerr))
		}
		return
	}
	if err := w.archive(path); err != nil {
		slog.Error("Failed to archive draft", logfields.Path(path), logfields.Error(err))
	}
}

func (w *Watcher) archive(path string) error {
	if w.processed == "" {
		return os.Remove(path)
	}
	if err := os.MkdirAll(w.processed, 0o750); err != nil {
		return err
	}
	return os.Rename(path, filepath.Join(w.processed, filepath.Base(path)))
}

func isDraft(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".md", ".markdown", ".json":
		return true
	}
	return false
}
