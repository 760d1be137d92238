package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/blogsync/internal/event"
	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
)

// AppendCmd implements the 'append' command.
type AppendCmd struct {
	Event  string `help:"Trigger payload (JSON) describing the post" type:"existingfile"`
	File   string `short:"f" help:"Markdown draft with optional YAML frontmatter (title, date, pinned)" type:"existingfile"`
	Title  string `help:"Post title"`
	Body   string `help:"Markdown post body"`
	Pinned bool   `help:"Mark the post as pinned"`
}

func (a *AppendCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	gh := event.GitHubFromEnv(os.Getenv)
	draft, err := a.draft(gh, cfg.Site.Location())
	if err != nil {
		return err
	}

	s, err := openSession(cfg, triggerName(gh, "cli"))
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.append(ctx, draft)
}

func (a *AppendCmd) draft(gh event.GitHubTrigger, loc *time.Location) (event.Draft, error) {
	var (
		d   event.Draft
		err error
	)
	switch {
	case a.Event != "":
		d, err = event.Load(a.Event, loc)
	case a.File != "":
		d, err = event.LoadAny(a.File, loc)
	case a.Title != "" || a.Body != "":
		d = event.Draft{Title: a.Title, Body: a.Body, Source: event.SourceFlags}
	case gh.Path != "":
		var ok bool
		d, ok, err = gh.Draft(loc)
		if err == nil && !ok {
			err = errNoPost()
		}
	default:
		err = errNoPost()
	}
	if err != nil {
		return event.Draft{}, err
	}
	d.Pinned = d.Pinned || a.Pinned
	return d, nil
}

func errNoPost() error {
	return ferrors.ValidationError("nothing to append").
		WithContext("hint", "pass --event, --file or --title/--body, or set "+event.EnvEventPath).
		Build()
}
