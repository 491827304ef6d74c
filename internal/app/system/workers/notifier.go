// internal/app/system/workers/notifier.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/disputehub/internal/app/system/mailer"
	"github.com/dalemusser/waffle/pantry/email"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmailQueue accepts emails for background delivery. Handlers depend on
// this rather than on *Notifier.
type EmailQueue interface {
	Enqueue(e mailer.Email) bool
}

// NotifierConfig tunes the notification worker.
type NotifierConfig struct {
	QueueSize   int           // undelivered messages before Enqueue starts dropping
	MaxAttempts int           // delivery attempts per message
	DrainPoll   time.Duration // how often Stop checks the backlog
}

func (c *NotifierConfig) defaults() {
	if c.QueueSize <= 0 {
		c.QueueSize = 256
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.DrainPoll <= 0 {
		c.DrainPoll = 100 * time.Millisecond
	}
}

// Notifier delivers email off the request path through a WAFFLE email
// queue backed by memory. A failed or dropped email never affects the
// request that queued it.
type Notifier struct {
	queue *email.Queue
	store *email.MemoryQueueStore
	log   *zap.Logger
	cfg   NotifierConfig

	mu      sync.Mutex
	stopped bool
}

// NewNotifier creates a notification worker. Call Start to begin delivery.
func NewNotifier(sender *email.Sender, logger *zap.Logger, cfg NotifierConfig) *Notifier {
	cfg.defaults()
	n := &Notifier{
		store: email.NewMemoryQueueStore(),
		log:   logger,
		cfg:   cfg,
	}
	// One worker: the memory store does not claim a message on Dequeue, so a
	// second worker could send it twice.
	n.queue = email.NewQueue(email.QueueConfig{
		Sender:   sender,
		Store:    n.store,
		Logger:   logger,
		Workers:  1,
		OnFailed: n.abandoned,
	})
	return n
}

// Enqueue hands e to the worker without blocking on delivery. It reports
// false when the backlog is full or the worker is stopping; the email is
// then dropped.
func (n *Notifier) Enqueue(e mailer.Email) bool {
	n.mu.Lock()
	stopped := n.stopped
	n.mu.Unlock()
	if stopped {
		n.log.Warn("notification dropped; notifier stopped", zap.String("subject", e.Subject))
		return false
	}

	ctx := context.Background()
	if n.backlog(ctx) >= int64(n.cfg.QueueSize) {
		n.log.Warn("notification dropped; queue full",
			zap.String("subject", e.Subject),
			zap.Int("queue_size", n.cfg.QueueSize))
		return false
	}

	err := n.queue.Enqueue(ctx, &email.QueuedEmail{
		ID:         uuid.NewString(),
		Message:    e.Message(),
		MaxRetries: n.cfg.MaxAttempts,
		Metadata:   map[string]string{"to": e.To},
	})
	if err != nil {
		n.log.Warn("notification dropped", zap.Error(err), zap.String("subject", e.Subject))
		return false
	}
	return true
}

// Start begins the delivery loop.
func (n *Notifier) Start() {
	n.queue.Start()
	n.log.Info("notifier started",
		zap.Int("queue_size", n.cfg.QueueSize),
		zap.Int("max_attempts", n.cfg.MaxAttempts))
}

// Stop refuses new messages, waits for the backlog to be delivered or
// abandoned, then stops the queue. It gives up when ctx ends.
func (n *Notifier) Stop(ctx context.Context) error {
	n.mu.Lock()
	n.stopped = true
	n.mu.Unlock()

	t := time.NewTicker(n.cfg.DrainPoll)
	defer t.Stop()
	for n.backlog(ctx) > 0 {
		select {
		case <-t.C:
		case <-ctx.Done():
			n.log.Warn("notifier stop timed out", zap.Int64("pending", n.backlog(context.Background())))
			_ = n.queue.Stop(context.Background())
			return ctx.Err()
		}
	}
	return n.queue.Stop(ctx)
}

// Prune forgets delivered and abandoned messages older than maxAge and
// reports how many were removed.
func (n *Notifier) Prune(ctx context.Context, maxAge time.Duration) int {
	return n.store.Cleanup(ctx, maxAge)
}

// backlog counts messages not yet delivered or abandoned.
func (n *Notifier) backlog(ctx context.Context) int64 {
	st, err := n.store.Stats(ctx)
	if err != nil {
		return 0
	}
	return st.Pending + st.Scheduled + st.Sending
}

func (n *Notifier) abandoned(e *email.QueuedEmail, err error) {
	n.log.Error("notification abandoned",
		zap.Error(err),
		zap.String("to", e.Metadata["to"]),
		zap.String("subject", e.Message.Subject),
		zap.Int("attempts", e.Attempts))
}
