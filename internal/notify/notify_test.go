package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogsync/internal/config"
	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
)

type fakeConn struct {
	subject    string
	data       []byte
	publishErr error
	flushed    bool
	closed     bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.subject = subject
	f.data = data
	return f.publishErr
}

func (f *fakeConn) FlushWithContext(context.Context) error {
	f.flushed = true
	return nil
}

func (f *fakeConn) Close() { f.closed = true }

func TestNATSNotifierPublishesJSON(t *testing.T) {
	fc := &fakeConn{}
	n := newNATSNotifier(fc, "blogsync.posts.published")

	ev := Event{
		RunID:       "run-1",
		Mode:        "append",
		PublishedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Posts:       []Post{{Slug: "hello-world", Title: "Hello", Link: "posts/hello-world.html", Date: "2024-05-01"}},
	}
	require.NoError(t, n.Notify(context.Background(), ev))
	assert.Equal(t, "blogsync.posts.published", fc.subject)
	assert.True(t, fc.flushed)

	var got Event
	require.NoError(t, json.Unmarshal(fc.data, &got))
	assert.Equal(t, ev, got)

	n.Close()
	assert.True(t, fc.closed)
}

func TestNATSNotifierPublishError(t *testing.T) {
	n := newNATSNotifier(&fakeConn{publishErr: errors.New("nope")}, "s")
	err := n.Notify(context.Background(), Event{RunID: "x"})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotify))
}

func TestNewNATSUnreachable(t *testing.T) {
	_, err := NewNATS(config.NATSConfig{URL: "nats://127.0.0.1:1", Subject: "s"})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotify))
}

func TestNoop(t *testing.T) {
	var n Notifier = Noop{}
	require.NoError(t, n.Notify(context.Background(), Event{}))
	n.Close()
}
