package events

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultPublishTimeout bounds a single background publish.
const DefaultPublishTimeout = 5 * time.Second

// DefaultMaxInflight bounds concurrent background publishes. Changes beyond it are dropped.
const DefaultMaxInflight = 1024

// Notifier publishes changes at most once, in the background. A failed publish
// is logged and counted; it never reaches the caller and is never retried.
type Notifier struct {
	publisher Publisher
	timeout   time.Duration
	logger    logrus.FieldLogger

	maxInflight int
	slots       chan struct{}

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// Option configures optional Notifier behaviour.
type Option func(*Notifier)

// WithTimeout overrides the per-publish deadline.
func WithTimeout(d time.Duration) Option {
	return func(n *Notifier) {
		if d > 0 {
			n.timeout = d
		}
	}
}

// WithMaxInflight overrides how many publishes may run at once.
func WithMaxInflight(limit int) Option {
	return func(n *Notifier) {
		if limit > 0 {
			n.maxInflight = limit
		}
	}
}

// WithLogger sets the logger used for publish failures.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(n *Notifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// NewNotifier wraps publisher. A nil publisher discards every change.
func NewNotifier(publisher Publisher, opts ...Option) *Notifier {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	discard := logrus.New()
	discard.Out = io.Discard
	n := &Notifier{
		publisher:   publisher,
		timeout:     DefaultPublishTimeout,
		maxInflight: DefaultMaxInflight,
		logger:      discard,
	}
	for _, opt := range opts {
		opt(n)
	}
	n.slots = make(chan struct{}, n.maxInflight)
	return n
}

// Notify schedules change for publication and returns immediately. The publish
// keeps the values of ctx but not its cancellation. When the in-flight limit is
// reached the change is dropped and counted.
func (n *Notifier) Notify(ctx context.Context, change Change) {
	if n == nil {
		return
	}
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		n.logger.WithField("event_type", change.EventType()).Warn("notifier closed, change dropped")
		return
	}
	select {
	case n.slots <- struct{}{}:
	default:
		n.mu.Unlock()
		recordDrop(change)
		n.logger.WithField("event_type", change.EventType()).Warn("too many pending publishes, change dropped")
		return
	}
	n.inflight.Add(1)
	n.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	go func() {
		defer n.inflight.Done()
		defer func() { <-n.slots }()
		n.publish(detached, change)
	}()
}

func (n *Notifier) publish(ctx context.Context, change Change) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	start := time.Now()
	err := n.publisher.Publish(ctx, change)
	recordPublish(change, time.Since(start), err)
	if err != nil {
		n.logger.WithError(err).WithFields(logrus.Fields{
			"event_type": change.EventType(),
			"id":         change.ID,
		}).Error("publish change notification")
		return
	}
	n.logger.WithFields(logrus.Fields{
		"event_type": change.EventType(),
		"id":         change.ID,
	}).Debug("change notification published")
}

// Close stops accepting changes, waits for in-flight publishes and closes the publisher.
func (n *Notifier) Close() error {
	if n == nil {
		return nil
	}
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	n.mu.Unlock()

	n.inflight.Wait()
	return n.publisher.Close()
}
