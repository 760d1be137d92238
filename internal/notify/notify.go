// Package notify announces published posts on a NATS subject.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/blogsync/internal/config"
	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
	"git.home.luguber.info/inful/blogsync/internal/logfields"
)

// Post describes one published post in a notification.
type Post struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	Date        string `json:"date"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// Event is the message body sent after a successful run.
type Event struct {
	RunID       string    `json:"run_id"`
	Mode        string    `json:"mode"`
	PublishedAt time.Time `json:"published_at"`
	Posts       []Post    `json:"posts"`
	Deleted     int       `json:"deleted"`
}

// Notifier delivers run events.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
	Close()
}

// Noop discards events.
type Noop struct{}

func (Noop) Notify(context.Context, Event) error { return nil }
func (Noop) Close()                              {}

// conn is the subset of *nats.Conn used for publishing.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSNotifier publishes events as JSON on a single subject.
type NATSNotifier struct {
	conn    conn
	subject string
}

// NewNATS connects to the configured server.
func NewNATS(cfg config.NATSConfig) (*NATSNotifier, error) {
	nc, err := nats.Connect(cfg.URL, nats.Name("blogsync"))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNotify, "failed to connect to NATS").
			WithContext("url", cfg.URL).Build()
	}
	return newNATSNotifier(nc, cfg.Subject), nil
}

func newNATSNotifier(c conn, subject string) *NATSNotifier {
	return &NATSNotifier{conn: c, subject: subject}
}

// Notify publishes ev and waits for the server to acknowledge the flush.
func (n *NATSNotifier) Notify(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNotify, "marshal event").Build()
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNotify, "publish event").
			WithContext("subject", n.subject).Build()
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNotify, "flush event").
			WithContext("subject", n.subject).Build()
	}
	slog.Debug("Published run event", logfields.Subject(n.subject), logfields.RunID(ev.RunID), logfields.Posts(len(ev.Posts)))
	return nil
}

// Close closes the connection.
func (n *NATSNotifier) Close() {
	n.conn.Close()
}
