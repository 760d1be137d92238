package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndRecent(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, Run{
		ID: "first", Mode: "resync", StartedAt: base, Duration: 1500 * time.Millisecond,
		Outcome: OutcomeSuccess, Deleted: 3,
	}))
	require.NoError(t, store.Record(ctx, Run{
		ID: "second", Mode: "append", Trigger: "issue", StartedAt: base.Add(time.Hour),
		Outcome: OutcomeSuccess,
		Posts:   []PostRecord{{Slug: "hello-world", Title: "Hello, World!", Link: "posts/hello-world.html", Fingerprint: "abc"}},
	}))
	require.NoError(t, store.Record(ctx, Run{
		ID: "third", Mode: "append", StartedAt: base.Add(2 * time.Hour),
		Outcome: OutcomeFailed, Error: "boom",
	}))

	runs, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "third", runs[0].ID)
	assert.Equal(t, "boom", runs[0].Error)
	assert.Empty(t, runs[0].Posts)
	assert.Equal(t, "second", runs[1].ID)
	assert.Equal(t, "issue", runs[1].Trigger)
	require.Len(t, runs[1].Posts, 1)
	assert.Equal(t, "hello-world", runs[1].Posts[0].Slug)
	assert.True(t, base.Add(time.Hour).Equal(runs[1].StartedAt))

	all, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 3, all[2].Deleted)
	assert.Equal(t, 1500*time.Millisecond, all[2].Duration)
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(context.Background(), Run{ID: "x", Mode: "resync", StartedAt: time.Now(), Outcome: OutcomeSuccess}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	runs, err := reopened.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
