package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
)

func TestManagerLifecycle(t *testing.T) {
	base := t.TempDir()
	mgr := NewManager(base)

	require.NoError(t, mgr.Create())
	dir := mgr.Path()
	require.NotEmpty(t, dir)
	assert.True(t, strings.HasPrefix(filepath.Base(dir), stagePrefix))
	assert.Equal(t, base, filepath.Dir(dir))

	staged, err := mgr.Stage("posts/a.html", []byte("<p>a</p>"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "posts", "a.html"), staged)
	data, err := os.ReadFile(staged)
	require.NoError(t, err)
	assert.Equal(t, "<p>a</p>", string(data))

	left, err := Leftovers(base)
	require.NoError(t, err)
	assert.Equal(t, []string{dir}, left)

	require.NoError(t, mgr.Cleanup())
	assert.NoDirExists(t, dir)
	assert.Empty(t, mgr.Path())
	require.NoError(t, mgr.Cleanup(), "second cleanup is a no-op")
}

func TestStageRejectsEscapingPaths(t *testing.T) {
	mgr := NewManager(t.TempDir())
	require.NoError(t, mgr.Create())
	t.Cleanup(func() { _ = mgr.Cleanup() })

	for _, p := range []string{"", ".", "../outside.html", "/abs.html", "posts/../../x.html"} {
		_, err := mgr.Stage(p, []byte("x"))
		require.Error(t, err, "path=%q", p)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation), "path=%q", p)
	}
}

func TestStageBeforeCreate(t *testing.T) {
	_, err := NewManager(t.TempDir()).Stage("a.html", nil)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryInternal))
}
