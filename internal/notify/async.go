package notify

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// Sentinel errors returned by Async.Notify.
var (
	ErrQueueFull = errors.New("notification queue full")
	ErrClosed    = errors.New("notifier closed")
)

// Async queues messages for a single background worker that forwards them to
// the wrapped Notifier. Notify never blocks: a full queue drops the message.
type Async struct {
	next    Notifier
	lg      *zap.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan Message
	done   chan struct{}
}

// NewAsync starts the worker. Close must be called to stop it.
func NewAsync(next Notifier, lg *zap.Logger, size int, timeout time.Duration) *Async {
	if size <= 0 {
		size = 1
	}
	a := &Async{
		next:    next,
		lg:      lg,
		timeout: timeout,
		queue:   make(chan Message, size),
		done:    make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Async) Notify(_ context.Context, m Message) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return ErrClosed
	}
	select {
	case a.queue <- m:
		return nil
	default:
		a.lg.Warn("Dropping notification",
			zap.String("event", string(m.Event)),
			zap.Int("booking_id", m.BookingID),
		)
		return ErrQueueFull
	}
}

func (a *Async) run() {
	defer close(a.done)
	for m := range a.queue {
		a.deliver(m)
	}
}

func (a *Async) deliver(m Message) {
	ctx := context.Background()
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	if err := a.next.Notify(ctx, m); err != nil {
		a.lg.Error("Notification failed",
			zap.Int("booking_id", m.BookingID),
			zap.Error(err),
		)
	}
}

// Close stops accepting messages and waits for queued ones to be delivered
// or for ctx to expire.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "drain notifications")
	}
}
