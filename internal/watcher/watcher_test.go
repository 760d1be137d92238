package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
	fail  map[string]bool
}

func (r *recorder) handle(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, filepath.Base(path))
	if r.fail[filepath.Base(path)] {
		return errors.New("rejected")
	}
	return nil
}

func (r *recorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func TestDrainProcessesExistingDrafts(t *testing.T) {
	dir := t.TempDir()
	inbox := filepath.Join(dir, "inbox")
	processed := filepath.Join(dir, "done")
	require.NoError(t, os.MkdirAll(inbox, 0o750))
	for _, name := range []string{"b.md", "a.json", "notes.txt", ".hidden.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(inbox, name), []byte("x"), 0o600))
	}

	rec := &recorder{fail: map[string]bool{"b.md": true}}
	w := New(inbox, processed, rec.handle)
	require.NoError(t, w.Drain(context.Background()))

	assert.Equal(t, []string{"a.json", "b.md"}, rec.seen())
	assert.FileExists(t, filepath.Join(processed, "a.json"))
	assert.FileExists(t, filepath.Join(inbox, "b.md"+FailedSuffix))
	assert.FileExists(t, filepath.Join(inbox, "notes.txt"))
	assert.NoFileExists(t, filepath.Join(inbox, "a.json"))
}

func TestRunPicksUpNewDrafts(t *testing.T) {
	inbox := filepath.Join(t.TempDir(), "inbox")
	rec := &recorder{}
	w := New(inbox, "", rec.handle)
	w.SetSettle(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(inbox)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	// Give the watcher a moment to register the directory.
	time.Sleep(50 * time.Millisecond)

	draft := filepath.Join(inbox, "post.md")
	require.NoError(t, os.WriteFile(draft, []byte("# Title\n\nbody"), 0o600))

	require.Eventually(t, func() bool {
		return len(rec.seen()) == 1
	}, 5*time.Second, 20*time.Millisecond)
	require.Eventually(t, func() bool {
		_, err := os.Stat(draft)
		return errors.Is(err, os.ErrNotExist)
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
	assert.Equal(t, []string{"post.md"}, rec.seen())
}
