package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"git.home.luguber.info/inful/blogsync/internal/index"
	"git.home.luguber.info/inful/blogsync/internal/logfields"
	"git.home.luguber.info/inful/blogsync/internal/sitefs"
)

// ListCmd implements the 'list' command.
type ListCmd struct {
	JSON bool `help:"Print summaries as JSON"`
}

func (l *ListCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	site := sitefs.New(cfg.Paths.Root, cfg.Paths.Index, cfg.Paths.Posts)
	doc, err := site.ReadIndex()
	if err != nil {
		return err
	}
	summaries, err := index.List(doc)
	if err != nil {
		return err
	}
	warnUnlisted(site, summaries)
	if l.JSON {
		return writeJSON(g.out(), summaries)
	}
	return writeSummaries(g.out(), summaries)
}

// warnUnlisted logs post pages that the index no longer links to.
func warnUnlisted(site *sitefs.Site, summaries []index.Summary) {
	links := make([]string, 0, len(summaries))
	for _, s := range summaries {
		links = append(links, s.Link)
	}
	unlisted, err := site.Unlisted(links)
	if err != nil {
		slog.Warn("Could not check for unlisted posts", logfields.Error(err))
		return
	}
	for _, name := range unlisted {
		slog.Warn("Post page is not listed in the index", logfields.Path(site.PostPath(name)))
	}
}

func writeSummaries(w io.Writer, summaries []index.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "DATE\tTITLE\tLINK\tPINNED")
	for _, s := range summaries {
		pinned := ""
		if s.Pinned {
			pinned = "yes"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Date, s.Title, s.Link, pinned)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
