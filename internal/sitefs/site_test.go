package sitefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
	"git.home.luguber.info/inful/blogsync/internal/workspace"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestClearPostsRemovesOnlyHTML(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "posts")
	for _, name := range []string{"a.html", "b.html", "c.HTML"} {
		writeFile(t, filepath.Join(dir, name), name)
	}
	writeFile(t, filepath.Join(dir, "notes.txt"), "keep")
	writeFile(t, filepath.Join(dir, "img", "x.html"), "nested stays")

	deleted, err := ClearPosts(dir)
	require.NoError(t, err)
	assert.Len(t, deleted, 3)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var left []string
	for _, e := range entries {
		left = append(left, e.Name())
	}
	assert.ElementsMatch(t, []string{"notes.txt", "img"}, left)
	assert.FileExists(t, filepath.Join(dir, "img", "x.html"))
}

func TestClearPostsCreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh", "posts")

	deleted, err := ClearPosts(dir)
	require.NoError(t, err)
	assert.Empty(t, deleted)
	assert.DirExists(t, dir)
}

func TestReadIndexMissing(t *testing.T) {
	site := New(t.TempDir(), "index.html", "posts")
	_, err := site.ReadIndex()
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestChangesetCommit(t *testing.T) {
	root := t.TempDir()
	site := New(root, "index.html", "posts")
	writeFile(t, site.IndexPath(), "old index")
	writeFile(t, site.PostPath("old.html"), "old post")

	cs, err := site.Begin()
	require.NoError(t, err)
	cs.ClearPosts()
	require.NoError(t, cs.WritePost("new.html", []byte("new post")))
	require.NoError(t, cs.WriteIndex([]byte("new index")))

	// Nothing is visible before commit.
	data, err := os.ReadFile(site.IndexPath())
	require.NoError(t, err)
	assert.Equal(t, "old index", string(data))
	assert.FileExists(t, site.PostPath("old.html"))

	written, err := cs.Commit()
	require.NoError(t, err)
	assert.Equal(t, []string{site.PostPath("new.html"), site.IndexPath()}, written)
	assert.Equal(t, []string{site.PostPath("old.html")}, cs.Deleted())

	posts, err := site.ListPosts()
	require.NoError(t, err)
	assert.Equal(t, []string{"new.html"}, posts)

	data, err = site.ReadIndex()
	require.NoError(t, err)
	assert.Equal(t, "new index", string(data))

	left, err := workspace.Leftovers(root)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestUnlistedPosts(t *testing.T) {
	root := t.TempDir()
	site := New(root, "index.html", "posts")
	require.NoError(t, os.MkdirAll(site.PostsPath(), 0o750))
	for _, name := range []string{"kept.html", "orphan.html", "notes.txt"} {
		require.NoError(t, os.WriteFile(site.PostPath(name), []byte("x"), 0o600))
	}

	assert.Equal(t, "posts/kept.html", site.PostLink("kept.html"))

	unlisted, err := site.Unlisted([]string{"posts/kept.html", "posts/gone.html"})
	require.NoError(t, err)
	assert.Equal(t, []string{"orphan.html"}, unlisted)

	unlisted, err = New(filepath.Join(root, "missing"), "index.html", "posts").Unlisted(nil)
	require.NoError(t, err)
	assert.Empty(t, unlisted)
}

func TestChangesetDiscardLeavesSiteUntouched(t *testing.T) {
	root := t.TempDir()
	site := New(root, "index.html", "posts")
	writeFile(t, site.IndexPath(), "old index")

	cs, err := site.Begin()
	require.NoError(t, err)
	require.NoError(t, cs.WriteIndex([]byte("new index")))
	cs.Discard()

	data, err := site.ReadIndex()
	require.NoError(t, err)
	assert.Equal(t, "old index", string(data))
	left, err := workspace.Leftovers(root)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestWritePostRejectsPaths(t *testing.T) {
	site := New(t.TempDir(), "index.html", "posts")
	cs, err := site.Begin()
	require.NoError(t, err)
	defer cs.Discard()

	for _, name := range []string{"", "../x.html", "a/b.html"} {
		err := cs.WritePost(name, nil)
		require.Error(t, err, "name=%q", name)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryInvalidSlug))
	}
}
