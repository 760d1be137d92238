package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/blogsync/internal/event"
)

// ResyncCmd implements the 'resync' command.
type ResyncCmd struct {
	Create bool   `help:"Create a dated post from the configured default title and body"`
	Event  string `help:"Create the post from a trigger payload (JSON) or markdown draft" type:"existingfile"`
	Title  string `help:"Title of the post to create"`
	Body   string `help:"Markdown body of the post to create"`
	Pinned bool   `help:"Mark the created post as pinned"`
}

func (r *ResyncCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	gh := event.GitHubFromEnv(os.Getenv)
	draft, err := r.draft(gh, cfg.Site.Location())
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
	return s.resync(ctx, draft)
}

// draft decides whether this resync creates a post. Explicit flags win over
// the Actions event; only a manual dispatch creates one on its own.
func (r *ResyncCmd) draft(gh event.GitHubTrigger, loc *time.Location) (*event.Draft, error) {
	switch {
	case r.Event != "":
		d, err := event.LoadAny(r.Event, loc)
		if err != nil {
			return nil, err
		}
		d.Pinned = d.Pinned || r.Pinned
		return &d, nil
	case r.Title != "" || r.Body != "":
		return &event.Draft{Title: r.Title, Body: r.Body, Pinned: r.Pinned, Source: event.SourceFlags}, nil
	case r.Create:
		return &event.Draft{Pinned: r.Pinned, Source: event.SourceDefault}, nil
	case gh.CreatesPost():
		d, ok, err := gh.Draft(loc)
		if err != nil {
			return nil, err
		}
		if !ok {
			d = event.Draft{Source: event.SourceDispatch}
		}
		return &d, nil
	default:
		return nil, nil
	}
}
