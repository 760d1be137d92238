package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
	"git.home.luguber.info/inful/blogsync/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int  `short:"n" help:"Number of runs to show" default:"20"`
	JSON  bool `help:"Print runs as JSON"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return ferrors.ConfigError("run history is disabled").
			WithContext("hint", "set history.enabled: true").Build()
	}

	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.Recent(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	if h.JSON {
		return writeJSON(g.out(), runs)
	}
	return writeRuns(g.out(), runs)
}

func writeRuns(w io.Writer, runs []history.Run) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "STARTED\tMODE\tTRIGGER\tOUTCOME\tPOSTS\tDELETED\tDURATION\tID")
	for _, r := range runs {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			r.StartedAt.Format(time.RFC3339), r.Mode, r.Trigger, r.Outcome,
			len(r.Posts), r.Deleted, r.Duration.Round(time.Millisecond), r.ID)
	}
	return tw.Flush()
}
