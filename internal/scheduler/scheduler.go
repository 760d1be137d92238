// Package scheduler runs pipeline tasks on a cron schedule.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
	"git.home.luguber.info/inful/blogsync/internal/logfields"
)

// Task is one scheduled unit of work.
type Task func(ctx context.Context) error

// Scheduler wraps a gocron scheduler. Jobs run in singleton mode: a tick that
// arrives while the previous run is still going is rescheduled, so runs never
// overlap.
type Scheduler struct {
	scheduler gocron.Scheduler
	jobs      map[string]gocron.Job
}

// New creates a scheduler evaluating cron expressions in loc.
func New(loc *time.Location) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to create gocron scheduler").Build()
	}
	return &Scheduler{scheduler: s, jobs: map[string]gocron.Job{}}, nil
}

// AddCron registers task under name using a five-field cron expression.
// ctx is handed to every invocation.
func (s *Scheduler) AddCron(ctx context.Context, name, expr string, task Task) (string, error) {
	job, err := s.scheduler.NewJob(
		gocron.CronJob(expr, false),
		gocron.NewTask(s.execute, ctx, name, task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryConfig, "invalid schedule").
			WithContext("cron", expr).Fatal().Build()
	}
	s.jobs[name] = job
	slog.Info("Scheduled job", slog.String("job", name), logfields.Schedule(expr))
	return job.ID().String(), nil
}

// RunNow triggers the named job immediately, outside its schedule.
func (s *Scheduler) RunNow(name string) error {
	job, ok := s.jobs[name]
	if !ok {
		return ferrors.NewError(ferrors.CategoryNotFound, "unknown job").WithContext("job", name).Build()
	}
	if err := job.RunNow(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "run job").WithContext("job", name).Build()
	}
	return nil
}

// NextRun reports when the named job fires next.
func (s *Scheduler) NextRun(name string) (time.Time, error) {
	job, ok := s.jobs[name]
	if !ok {
		return time.Time{}, ferrors.NewError(ferrors.CategoryNotFound, "unknown job").WithContext("job", name).Build()
	}
	return job.NextRun()
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop waits for running jobs and shuts the scheduler down.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

func (s *Scheduler) execute(ctx context.Context, name string, task Task) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	slog.Info("Executing scheduled job", slog.String("job", name))
	if err := task(ctx); err != nil {
		slog.Error("Scheduled job failed", slog.String("job", name), logfields.Error(err))
		return
	}
	slog.Info("Scheduled job finished", slog.String("job", name),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
}
