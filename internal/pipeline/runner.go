package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/blogsync/internal/config"
	"git.home.luguber.info/inful/blogsync/internal/event"
	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
	"git.home.luguber.info/inful/blogsync/internal/history"
	"git.home.luguber.info/inful/blogsync/internal/index"
	"git.home.luguber.info/inful/blogsync/internal/logfields"
	"git.home.luguber.info/inful/blogsync/internal/markdown"
	"git.home.luguber.info/inful/blogsync/internal/metrics"
	"git.home.luguber.info/inful/blogsync/internal/notify"
	"git.home.luguber.info/inful/blogsync/internal/post"
	"git.home.luguber.info/inful/blogsync/internal/publish"
	"git.home.luguber.info/inful/blogsync/internal/sitefs"
	"git.home.luguber.info/inful/blogsync/internal/workspace"
)

// Mode names a pipeline entry point.
type Mode string

const (
	ModeResync Mode = "resync"
	ModeAppend Mode = "append"
)

// Stage names used for metrics and logs.
const (
	StageLoad    = "load"
	StageRender  = "render"
	StageIndex   = "index"
	StageWrite   = "write"
	StagePublish = "publish"
	StageNotify  = "notify"
)

// Result summarises a finished run.
type Result struct {
	RunID   string
	Mode    Mode
	Posts   []index.Summary
	Written []string
	Deleted []string
	Commit  string
}

// Runner executes pipeline runs against one site. Runs are not safe to
// overlap; callers serialize them.
type Runner struct {
	cfg       *config.Config
	site      *sitefs.Site
	pages     *post.Builder
	defaults  *event.Defaults
	indexOpts index.Options

	recorder  metrics.Recorder
	history   history.Store
	notifier  notify.Notifier
	committer *publish.Committer
	trigger   string
	now       func() time.Time
	newRunID  func() string
}

// New builds a Runner for cfg, which must already be finalized.
func New(cfg *config.Config, opts ...Option) (*Runner, error) {
	defaults, err := event.NewDefaults(cfg.Defaults, cfg.Site)
	if err != nil {
		return nil, err
	}
	md := markdown.New(markdown.Options{
		Extensions: cfg.Markdown.Extensions,
		HardWraps:  cfg.Markdown.HardWraps,
		SafeMode:   cfg.Markdown.SafeMode,
	})

	r := &Runner{
		cfg:       cfg,
		site:      sitefs.New(cfg.Paths.Root, cfg.Paths.Index, cfg.Paths.Posts),
		pages:     post.NewBuilder(cfg.Site, cfg.Paths.Posts, cfg.Paths.Index, md),
		defaults:  defaults,
		indexOpts: index.OptionsFromSite(cfg.Site),
		recorder:  metrics.NoopRecorder{},
		notifier:  notify.Noop{},
		trigger:   "cli",
		now:       time.Now,
		newRunID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Site returns the site the runner writes to.
func (r *Runner) Site() *sitefs.Site { return r.site }

// rendered is one post ready to be staged.
type rendered struct {
	post    post.Post
	summary index.Summary
	html    []byte
}

// Resync deletes every post page and rebuilds the index list. When draft is
// non-nil a single post is created from it first, named by the resync slug
// strategy.
func (r *Runner) Resync(ctx context.Context, draft *event.Draft) (Result, error) {
	return r.run(ctx, ModeResync, func(ctx context.Context, doc []byte) ([]rendered, []byte, error) {
		var posts []rendered
		if draft != nil {
			rp, err := r.prepare(*draft, r.cfg.Slug.Resync)
			if err != nil {
				return nil, nil, err
			}
			posts = append(posts, rp)
		}

		var out []byte
		err := r.stage(StageIndex, func() error {
			summaries := make([]index.Summary, 0, len(posts))
			for _, p := range posts {
				summaries = append(summaries, p.summary)
			}
			var err error
			out, err = index.Rebuild(doc, summaries, r.indexOpts)
			return err
		})
		return posts, out, err
	})
}

// Append writes one post from draft and inserts its summary into the index,
// leaving every other entry untouched.
func (r *Runner) Append(ctx context.Context, draft event.Draft) (Result, error) {
	return r.run(ctx, ModeAppend, func(ctx context.Context, doc []byte) ([]rendered, []byte, error) {
		if draft.Empty() {
			return nil, nil, ferrors.ValidationError("draft has neither title nor body").
				WithContext("source", string(draft.Source)).Build()
		}
		rp, err := r.prepare(draft, r.cfg.Slug.Append)
		if err != nil {
			return nil, nil, err
		}
		var out []byte
		err = r.stage(StageIndex, func() error {
			var err error
			out, err = index.Insert(doc, rp.summary, r.indexOpts)
			return err
		})
		return []rendered{rp}, out, err
	})
}

type buildFunc func(ctx context.Context, doc []byte) ([]rendered, []byte, error)

func (r *Runner) run(ctx context.Context, mode Mode, build buildFunc) (res Result, err error) {
	started := r.now()
	res = Result{RunID: r.newRunID(), Mode: mode}
	log := slog.With(logfields.RunID(res.RunID), logfields.Mode(string(mode)))
	log.Info("Starting run", logfields.Trigger(r.trigger))

	var posts []rendered
	defer func() {
		r.finish(ctx, log, res, posts, started, err)
	}()

	if err = checkCanceled(ctx); err != nil {
		return res, err
	}

	var doc []byte
	if err = r.stage(StageLoad, func() error {
		var lerr error
		doc, lerr = r.loadIndex(log)
		return lerr
	}); err != nil {
		return res, err
	}

	var out []byte
	posts, out, err = build(ctx, doc)
	if err != nil {
		return res, err
	}
	if err = checkCanceled(ctx); err != nil {
		return res, err
	}

	err = r.stage(StageWrite, func() error {
		cs, cerr := r.site.Begin()
		if cerr != nil {
			return cerr
		}
		defer cs.Discard()

		if mode == ModeResync {
			cs.ClearPosts()
		}
		for _, p := range posts {
			if werr := cs.WritePost(p.post.FileName(), p.html); werr != nil {
				return werr
			}
		}
		if werr := cs.WriteIndex(out); werr != nil {
			return werr
		}
		written, cerr := cs.Commit()
		res.Written = written
		res.Deleted = without(cs.Deleted(), written)
		return cerr
	})
	if err != nil {
		return res, err
	}

	for _, p := range posts {
		res.Posts = append(res.Posts, p.summary)
	}

	if r.committer != nil {
		err = r.stage(StagePublish, func() error {
			hash, perr := r.committer.Commit(r.site.Root(),
				publish.Change{Written: res.Written, Deleted: res.Deleted},
				publish.MessageData{RunID: res.RunID, Mode: string(mode), Posts: len(res.Posts)})
			res.Commit = hash
			return perr
		})
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

func (r *Runner) loadIndex(log *slog.Logger) ([]byte, error) {
	if left, _ := workspace.Leftovers(r.site.Root()); len(left) > 0 {
		log.Warn("Staging directories left by an interrupted run", slog.Any("paths", left))
	}
	doc, err := r.site.ReadIndex()
	if err == nil {
		return doc, nil
	}
	if !ferrors.HasCategory(err, ferrors.CategoryNotFound) {
		return nil, err
	}
	log.Info("Index page missing, starting from a fresh one", logfields.Path(r.site.IndexPath()))
	return index.Bootstrap(r.indexOpts)
}

// prepare fills defaults, derives the slug and renders the page and summary.
func (r *Runner) prepare(d event.Draft, strategy config.SlugStrategy) (rendered, error) {
	var rp rendered
	err := r.stage(StageRender, func() error {
		filled, err := r.defaults.Apply(d, r.now())
		if err != nil {
			return err
		}
		createdAt := filled.CreatedAt.In(r.cfg.Site.Location())
		slug, err := post.Slug(strategy, filled.Title, createdAt)
		if err != nil {
			return err
		}

		p := post.Post{
			Title:     filled.Title,
			Body:      filled.Body,
			CreatedAt: createdAt,
			Pinned:    filled.Pinned,
			Slug:      slug,
		}
		page, err := r.pages.Build(p)
		if err != nil {
			return err
		}

		rp = rendered{
			post: p,
			summary: index.Summary{
				Title:   p.Title,
				Date:    r.pages.DisplayDate(p),
				Excerpt: post.Excerpt(p.Body, r.cfg.Excerpt.Length, r.cfg.Excerpt.Marker),
				Link:    r.site.PostLink(p.FileName()),
				Pinned:  p.Pinned,
			},
			html: []byte(page),
		}
		slog.Debug("Rendered post", logfields.Slug(slug), logfields.Title(p.Title))
		return nil
	})
	return rp, err
}

// stage times fn and records its result.
func (r *Runner) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	r.recorder.ObserveStageDuration(name, time.Since(start))
	if err != nil {
		r.recorder.IncStageResult(name, metrics.ResultFailed)
		return err
	}
	r.recorder.IncStageResult(name, metrics.ResultSuccess)
	return nil
}

func (r *Runner) finish(ctx context.Context, log *slog.Logger, res Result, posts []rendered, started time.Time, runErr error) {
	elapsed := r.now().Sub(started)
	mode := string(res.Mode)
	r.recorder.ObserveRunDuration(mode, elapsed)

	outcome := history.OutcomeSuccess
	if runErr != nil {
		outcome = history.OutcomeFailed
		r.recorder.IncRunOutcome(mode, metrics.OutcomeFailed)
		log.Error("Run failed", logfields.Error(runErr), logfields.DurationMS(float64(elapsed.Milliseconds())))
	} else {
		r.recorder.IncRunOutcome(mode, metrics.OutcomeSuccess)
		r.recorder.AddPostsWritten(mode, len(res.Posts))
		r.recorder.AddPostsDeleted(len(res.Deleted))
		r.recorder.SetLastSuccess(mode, r.now())
		log.Info("Run completed", logfields.Posts(len(res.Posts)), logfields.DurationMS(float64(elapsed.Milliseconds())))
		r.announce(ctx, log, res, posts)
	}

	if r.history == nil {
		return
	}
	run := history.Run{
		ID:        res.RunID,
		Mode:      mode,
		Trigger:   r.trigger,
		StartedAt: started,
		Duration:  elapsed,
		Outcome:   outcome,
		Deleted:   len(res.Deleted),
	}
	if runErr != nil {
		run.Error = runErr.Error()
	} else {
		for _, p := range posts {
			run.Posts = append(run.Posts, history.PostRecord{
				Slug:        p.post.Slug,
				Title:       p.post.Title,
				Link:        p.summary.Link,
				Fingerprint: post.Fingerprint(p.post),
			})
		}
	}
	// The ledger must be written even when ctx was canceled mid-run.
	if err := r.history.Record(context.WithoutCancel(ctx), run); err != nil {
		log.Warn("Failed to record run history", logfields.Error(err))
	}
}

// announce sends the notification. Failures are logged, never returned: the
// site is already published by the time it runs.
func (r *Runner) announce(ctx context.Context, log *slog.Logger, res Result, posts []rendered) {
	ev := notify.Event{
		RunID:       res.RunID,
		Mode:        string(res.Mode),
		PublishedAt: r.now().UTC(),
		Deleted:     len(res.Deleted),
	}
	for _, p := range posts {
		ev.Posts = append(ev.Posts, notify.Post{
			Slug:        p.post.Slug,
			Title:       p.post.Title,
			Link:        p.summary.Link,
			Date:        p.summary.Date,
			Fingerprint: post.Fingerprint(p.post),
		})
	}
	if err := r.stage(StageNotify, func() error { return r.notifier.Notify(ctx, ev) }); err != nil {
		log.Warn("Failed to send run notification", logfields.Error(err))
	}
}

func checkCanceled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ferrors.WrapError(err, ferrors.CategoryRuntime, "run deadline exceeded").Build()
		}
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "run canceled").Build()
	}
	return nil
}

func without(paths, exclude []string) []string {
	var out []string
	for _, p := range paths {
		if !slices.Contains(exclude, p) {
			out = append(out, p)
		}
	}
	return out
}
