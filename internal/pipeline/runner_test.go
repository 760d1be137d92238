package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogsync/internal/config"
	"git.home.luguber.info/inful/blogsync/internal/event"
	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
	"git.home.luguber.info/inful/blogsync/internal/history"
	"git.home.luguber.info/inful/blogsync/internal/index"
	"git.home.luguber.info/inful/blogsync/internal/notify"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.Root = t.TempDir()
	cfg.Site.TimeZone = "UTC"
	cfg.Site.CreatePostURL = "https://example.com/new"
	return cfg
}

func newRunner(t *testing.T, cfg *config.Config, opts ...Option) *Runner {
	t.Helper()
	n := 0
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithRunIDs(func() string { n++; return fmt.Sprintf("run-%d", n) }),
	}
	r, err := New(cfg, append(base, opts...)...)
	require.NoError(t, err)
	return r
}

func bootstrapSite(t *testing.T, r *Runner) []byte {
	t.Helper()
	doc, err := index.Bootstrap(r.indexOpts)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(r.Site().IndexPath(), doc, 0o600))
	return doc
}

func readIndex(t *testing.T, r *Runner) []byte {
	t.Helper()
	doc, err := r.Site().ReadIndex()
	require.NoError(t, err)
	return doc
}

func listIndex(t *testing.T, r *Runner) []index.Summary {
	t.Helper()
	got, err := index.List(readIndex(t, r))
	require.NoError(t, err)
	return got
}

func TestResyncWithoutPostIsIdempotent(t *testing.T) {
	r := newRunner(t, testConfig(t))
	bootstrapSite(t, r)

	res, err := r.Resync(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, ModeResync, res.Mode)
	assert.Empty(t, res.Posts)
	first := readIndex(t, r)

	_, err = r.Resync(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(readIndex(t, r)))

	placeholder, err := index.HasPlaceholder(first)
	require.NoError(t, err)
	assert.True(t, placeholder)
}

func TestResyncClearsExistingPosts(t *testing.T) {
	r := newRunner(t, testConfig(t))
	bootstrapSite(t, r)

	postsDir := r.Site().PostsPath()
	require.NoError(t, os.MkdirAll(postsDir, 0o750))
	for i := 1; i <= 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(postsDir, fmt.Sprintf("p%d.html", i)), []byte("x"), 0o600))
	}
	require.NoError(t, os.WriteFile(filepath.Join(postsDir, "README.txt"), []byte("keep"), 0o600))

	res, err := r.Resync(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, res.Deleted, 3)

	posts, err := r.Site().ListPosts()
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.FileExists(t, filepath.Join(postsDir, "README.txt"))
	assert.Empty(t, listIndex(t, r))

	placeholder, err := index.HasPlaceholder(readIndex(t, r))
	require.NoError(t, err)
	assert.True(t, placeholder)
}

func TestResyncCreatesDatedPost(t *testing.T) {
	r := newRunner(t, testConfig(t))
	bootstrapSite(t, r)

	res, err := r.Resync(context.Background(), &event.Draft{Source: event.SourceDispatch})
	require.NoError(t, err)
	require.Len(t, res.Posts, 1)

	want := index.Summary{
		Title:   "2024-05-01 记录",
		Date:    "2024-05-01",
		Excerpt: "今天是 2024-05-01，现在是 09:30:00。",
		Link:    "posts/post-2024-05-01.html",
	}
	assert.Equal(t, want, res.Posts[0])
	assert.Equal(t, []index.Summary{want}, listIndex(t, r))

	posts, err := r.Site().ListPosts()
	require.NoError(t, err)
	assert.Equal(t, []string{"post-2024-05-01.html"}, posts)

	page, err := os.ReadFile(r.Site().PostPath("post-2024-05-01.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "<h1>2024-05-01 记录</h1>")

	// A second dispatch on the same day replaces the page rather than adding one.
	res, err = r.Resync(context.Background(), &event.Draft{Title: "Again"})
	require.NoError(t, err)
	assert.Empty(t, res.Deleted, "overwritten page is not reported as deleted")
	assert.Equal(t, []string{"Again"}, titles(listIndex(t, r)))
}

func TestResyncBootstrapsMissingIndex(t *testing.T) {
	r := newRunner(t, testConfig(t))

	_, err := r.Resync(context.Background(), nil)
	require.NoError(t, err)
	assert.FileExists(t, r.Site().IndexPath())
	assert.DirExists(t, r.Site().PostsPath())
}

func TestAppendIntoEmptyIndex(t *testing.T) {
	r := newRunner(t, testConfig(t))
	bootstrapSite(t, r)

	res, err := r.Append(context.Background(), event.Draft{Title: "Hello, World!", Body: "First line\nsecond"})
	require.NoError(t, err)
	require.Len(t, res.Posts, 1)
	assert.Equal(t, "posts/hello-world.html", res.Posts[0].Link)
	assert.Equal(t, "First line", res.Posts[0].Excerpt)
	assert.Len(t, res.Written, 2)
	assert.Equal(t, r.Site().IndexPath(), res.Written[len(res.Written)-1])

	doc := readIndex(t, r)
	placeholder, err := index.HasPlaceholder(doc)
	require.NoError(t, err)
	assert.False(t, placeholder)
	assert.Equal(t, []string{"Hello, World!"}, titles(listIndex(t, r)))
	assert.FileExists(t, r.Site().PostPath("hello-world.html"))
}

func TestAppendKeepsPriorEntries(t *testing.T) {
	r := newRunner(t, testConfig(t))
	bootstrapSite(t, r)
	ctx := context.Background()

	for _, title := range []string{"First", "Second", "Third"} {
		_, err := r.Append(ctx, event.Draft{Title: title, Body: title + " body"})
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"Third", "Second", "First"}, titles(listIndex(t, r)))

	_, err := r.Append(ctx, event.Draft{Title: "Second", Body: "rewritten", Pinned: true})
	require.NoError(t, err)

	got := listIndex(t, r)
	assert.Equal(t, []string{"Second", "Third", "First"}, titles(got))
	assert.True(t, got[0].Pinned)
	assert.Equal(t, "rewritten", got[0].Excerpt)

	posts, err := r.Site().ListPosts()
	require.NoError(t, err)
	assert.Equal(t, []string{"first.html", "second.html", "third.html"}, posts)
}

func TestAppendFailuresLeaveSiteUntouched(t *testing.T) {
	cfg := testConfig(t)
	r := newRunner(t, cfg)
	before := bootstrapSite(t, r)

	_, err := r.Append(context.Background(), event.Draft{Title: "!!!", Body: "x"})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryInvalidSlug))
	assert.Equal(t, string(before), string(readIndex(t, r)))

	_, err = r.Append(context.Background(), event.Draft{Source: event.SourceFile})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	assert.Equal(t, string(before), string(readIndex(t, r)))

	require.NoError(t, os.WriteFile(r.Site().IndexPath(), []byte("<html><main></main></html>"), 0o600))
	_, err = r.Append(context.Background(), event.Draft{Title: "Valid", Body: "x"})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryMalformedIndex))
	assert.NoFileExists(t, r.Site().PostPath("valid.html"))

	entries, err := os.ReadDir(cfg.Paths.Root)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), "stage", "staging directory left behind")
	}
}

func TestCanceledContext(t *testing.T) {
	r := newRunner(t, testConfig(t))
	before := bootstrapSite(t, r)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Append(ctx, event.Draft{Title: "Late", Body: "x"})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryRuntime))
	assert.Equal(t, string(before), string(readIndex(t, r)))
}

type recordingNotifier struct {
	events []notify.Event
}

func (n *recordingNotifier) Notify(_ context.Context, ev notify.Event) error {
	n.events = append(n.events, ev)
	return nil
}

func (n *recordingNotifier) Close() {}

func TestHistoryAndNotification(t *testing.T) {
	store, err := history.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	notifier := &recordingNotifier{}

	r := newRunner(t, testConfig(t), WithHistory(store), WithNotifier(notifier), WithTrigger("test"))
	bootstrapSite(t, r)

	_, err = r.Append(context.Background(), event.Draft{Title: "Hello", Body: "body"})
	require.NoError(t, err)
	_, err = r.Append(context.Background(), event.Draft{Title: "???", Body: "body"})
	require.Error(t, err)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, "run-1", notifier.events[0].RunID)
	require.Len(t, notifier.events[0].Posts, 1)
	assert.Equal(t, "hello", notifier.events[0].Posts[0].Slug)
	assert.NotEmpty(t, notifier.events[0].Posts[0].Fingerprint)

	runs, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	byID := map[string]history.Run{runs[0].ID: runs[0], runs[1].ID: runs[1]}
	assert.Equal(t, history.OutcomeSuccess, byID["run-1"].Outcome)
	assert.Equal(t, "test", byID["run-1"].Trigger)
	require.Len(t, byID["run-1"].Posts, 1)
	assert.Equal(t, "posts/hello.html", byID["run-1"].Posts[0].Link)
	assert.Equal(t, history.OutcomeFailed, byID["run-2"].Outcome)
	assert.NotEmpty(t, byID["run-2"].Error)
}

func titles(s []index.Summary) []string {
	out := make([]string, 0, len(s))
	for _, x := range s {
		out = append(out, x.Title)
	}
	return out
}
