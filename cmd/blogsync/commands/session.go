package commands

import (
	"context"
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/blogsync/internal/config"
	"git.home.luguber.info/inful/blogsync/internal/event"
	"git.home.luguber.info/inful/blogsync/internal/history"
	"git.home.luguber.info/inful/blogsync/internal/logfields"
	"git.home.luguber.info/inful/blogsync/internal/metrics"
	"git.home.luguber.info/inful/blogsync/internal/notify"
	"git.home.luguber.info/inful/blogsync/internal/pipeline"
	"git.home.luguber.info/inful/blogsync/internal/publish"
)

// session owns a pipeline runner and the optional services wired into it.
type session struct {
	cfg      *config.Config
	runner   *pipeline.Runner
	registry *prom.Registry
	closers  []func()
}

func openSession(cfg *config.Config, trigger string) (*session, error) {
	s := &session{cfg: cfg}
	opts := []pipeline.Option{pipeline.WithTrigger(trigger)}

	if cfg.Metrics.Textfile != "" {
		s.registry = prom.NewRegistry()
		opts = append(opts, pipeline.WithRecorder(metrics.NewPrometheusRecorder(s.registry)))
	}

	if cfg.History.Enabled {
		store, err := history.Open(cfg.HistoryPath())
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() {
			if err := store.Close(); err != nil {
				slog.Warn("Failed to close history store", logfields.Error(err))
			}
		})
		opts = append(opts, pipeline.WithHistory(store))
	}

	if cfg.Notify.NATS.Enabled {
		n, err := notify.NewNATS(cfg.Notify.NATS)
		if err != nil {
			slog.Warn("Notifications disabled for this run", logfields.Error(err))
		} else {
			s.closers = append(s.closers, n.Close)
			opts = append(opts, pipeline.WithNotifier(n))
		}
	}

	if cfg.Publish.Git.Enabled {
		c, err := publish.NewCommitter(cfg.Publish.Git)
		if err != nil {
			s.Close()
			return nil, err
		}
		opts = append(opts, pipeline.WithCommitter(c))
	}

	runner, err := pipeline.New(cfg, opts...)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.runner = runner
	return s, nil
}

// Close releases the services in reverse order of opening.
func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

func (s *session) resync(ctx context.Context, draft *event.Draft) error {
	res, err := s.runner.Resync(ctx, draft)
	s.flushMetrics()
	if err != nil {
		return err
	}
	report(res)
	return nil
}

func (s *session) append(ctx context.Context, draft event.Draft) error {
	res, err := s.runner.Append(ctx, draft)
	s.flushMetrics()
	if err != nil {
		return err
	}
	report(res)
	return nil
}

func (s *session) flushMetrics() {
	if s.registry == nil {
		return
	}
	if err := metrics.WriteTextfile(s.cfg.Metrics.Textfile, s.registry); err != nil {
		slog.Warn("Failed to write metrics textfile", logfields.Path(s.cfg.Metrics.Textfile), logfields.Error(err))
	}
}

func report(res pipeline.Result) {
	attrs := []any{
		logfields.RunID(res.RunID),
		logfields.Mode(string(res.Mode)),
		logfields.Posts(len(res.Posts)),
		slog.Int("written", len(res.Written)),
		slog.Int("deleted", len(res.Deleted)),
	}
	if res.Commit != "" {
		attrs = append(attrs, logfields.Commit(res.Commit))
	}
	slog.Info("posts processed", attrs...)
}
