// Package nats publishes todo notifications over NATS.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/modernice/todoapi/todo"
	"github.com/nats-io/nats.go"
)

var _ todo.Notifier = (*Notifier)(nil)

// Notifier publishes todo notifications to NATS. Every notification is
// published as JSON to the subject "<prefix><notification name>", e.g.
// "todo.created".
type Notifier struct {
	url         string
	subjectFunc func(name string) string

	conn     *nats.Conn
	natsOpts []nats.Option

	onceConnect sync.Once
	connectErr  error
}

// Option is an option for the Notifier.
type Option func(*Notifier)

// URL returns an Option that sets the connection URL to the NATS server. If no
// URL is specified, the environment variable "NATS_URL" will be used as the
// connection URL, falling back to nats.DefaultURL.
func URL(url string) Option {
	return func(n *Notifier) {
		n.url = url
	}
}

// Conn returns an Option that provides the underlying *nats.Conn for the
// Notifier.
func Conn(conn *nats.Conn) Option {
	return func(n *Notifier) {
		n.conn = conn
	}
}

// SubjectFunc returns an Option that sets the function that builds the NATS
// subject from the name of a notification.
func SubjectFunc(fn func(name string) string) Option {
	return func(n *Notifier) {
		n.subjectFunc = fn
	}
}

// SubjectPrefix returns an Option that sets the NATS subject for outgoing
// notifications by prepending prefix to the name of the notification.
//
// Can also be set with the "NATS_SUBJECT_PREFIX" environment variable.
func SubjectPrefix(prefix string) Option {
	return SubjectFunc(func(name string) string {
		return prefix + name
	})
}

// NATSOptions returns an Option that passes opts to nats.Connect.
func NATSOptions(opts ...nats.Option) Option {
	return func(n *Notifier) {
		n.natsOpts = append(n.natsOpts, opts...)
	}
}

// NewNotifier returns a NATS notifier. The connection is established lazily
// on the first Notify call, or explicitly by calling Connect.
func NewNotifier(opts ...Option) *Notifier {
	var envOpts []Option
	if prefix := strings.TrimSpace(os.Getenv("NATS_SUBJECT_PREFIX")); prefix != "" {
		envOpts = append(envOpts, SubjectPrefix(prefix))
	}

	n := &Notifier{}
	for _, opt := range append(envOpts, opts...) {
		opt(n)
	}

	if n.subjectFunc == nil {
		n.subjectFunc = defaultSubjectFunc
	}

	return n
}

// Subject returns the NATS subject for the given notification name.
func (n *Notifier) Subject(name string) string {
	return n.subjectFunc(name)
}

// Connect connects to NATS. A failed connect is not retried.
func (n *Notifier) Connect(ctx context.Context) error {
	n.onceConnect.Do(func() {
		n.connectErr = n.connect(ctx)
	})
	return n.connectErr
}

func (n *Notifier) connect(ctx context.Context) error {
	// *nats.Conn provided via Conn() option.
	if n.conn != nil {
		return nil
	}

	type result struct {
		conn *nats.Conn
		err  error
	}

	results := make(chan result, 1)
	go func() {
		url := n.natsURL()
		conn, err := nats.Connect(url, n.natsOpts...)
		if err != nil {
			err = fmt.Errorf("connect: %w [url=%v]", err, url)
		}
		results <- result{conn, err}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-results:
		n.conn = res.conn
		return res.err
	}
}

func (n *Notifier) natsURL() string {
	if n.url != "" {
		return n.url
	}
	if url := os.Getenv("NATS_URL"); url != "" {
		return url
	}
	return nats.DefaultURL
}

// Notify publishes the notification.
func (n *Notifier) Notify(ctx context.Context, note todo.Notification) error {
	if err := n.Connect(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	b, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("encode notification: %w [name=%v]", err, note.Name)
	}

	subject := n.Subject(note.Name)
	if err := n.conn.Publish(subject, b); err != nil {
		return fmt.Errorf("publish: %w [subject=%v]", err, subject)
	}

	return nil
}

// Disconnect drains the NATS connection.
func (n *Notifier) Disconnect(ctx context.Context) error {
	if n.conn == nil {
		return nil
	}

	errs := make(chan error, 1)
	go func() { errs <- n.conn.Drain() }()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errs:
		return err
	}
}

func defaultSubjectFunc(name string) string {
	return name
}
