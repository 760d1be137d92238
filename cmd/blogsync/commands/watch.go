package commands

import (
	"cmp"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/blogsync/internal/event"
	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
	"git.home.luguber.info/inful/blogsync/internal/watcher"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Inbox     string        `help:"Inbox directory (overrides watch.inbox)"`
	Processed string        `help:"Archive directory for handled drafts (overrides watch.processed; empty deletes them)"`
	Settle    time.Duration `help:"Quiet period after the last file event before processing" default:"250ms"`
	Once      bool          `help:"Process the drafts already in the inbox and exit"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	inbox := cmp.Or(w.Inbox, cfg.Watch.Inbox)
	processed := cmp.Or(w.Processed, cfg.Watch.Processed)
	loc := cfg.Site.Location()

	s, err := openSession(cfg, "watch")
	if err != nil {
		return err
	}
	defer s.Close()

	wt := watcher.New(inbox, processed, func(ctx context.Context, path string) error {
		d, err := event.LoadAny(path, loc)
		if err != nil {
			return err
		}
		return s.append(ctx, d)
	})
	wt.SetSettle(w.Settle)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if w.Once {
		// #nosec G301 -- inbox directories hold user drafts.
		if err := os.MkdirAll(inbox, 0o750); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create inbox").
				WithContext("path", inbox).Build()
		}
		return wt.Drain(ctx)
	}
	return wt.Run(ctx)
}
