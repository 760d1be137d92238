package commands

import (
	"cmp"
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/blogsync/internal/event"
	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
	"git.home.luguber.info/inful/blogsync/internal/logfields"
	"git.home.luguber.info/inful/blogsync/internal/scheduler"
)

const resyncJob = "resync"

// ScheduleCmd implements the 'schedule' command.
type ScheduleCmd struct {
	Cron       string `help:"Cron expression (overrides schedule.cron)"`
	CreatePost bool   `name:"create-post" help:"Create a dated post on every run (also enabled by schedule.create_post)"`
	Now        bool   `help:"Run once immediately after starting"`
}

func (sc *ScheduleCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	expr := cmp.Or(sc.Cron, cfg.Schedule.Cron)
	if expr == "" {
		return ferrors.ConfigError("no schedule configured").
			WithContext("hint", "set schedule.cron or pass --cron").Fatal().Build()
	}
	createPost := sc.CreatePost || cfg.Schedule.CreatePost

	sched, err := scheduler.New(cfg.Site.Location())
	if err != nil {
		return err
	}

	s, err := openSession(cfg, "schedule")
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := sched.AddCron(ctx, resyncJob, expr, func(ctx context.Context) error {
		var draft *event.Draft
		if createPost {
			draft = &event.Draft{Source: event.SourceDefault}
		}
		return s.resync(ctx, draft)
	}); err != nil {
		return err
	}

	sched.Start()
	if sc.Now {
		if err := sched.RunNow(resyncJob); err != nil {
			_ = sched.Stop()
			return err
		}
	}
	if next, err := sched.NextRun(resyncJob); err == nil {
		slog.Info("Scheduler running", logfields.Schedule(expr), slog.Time("next_run", next),
			slog.Bool("create_post", createPost))
	}

	<-ctx.Done()
	slog.Info("Shutdown signal received, stopping scheduler")
	return sched.Stop()
}
