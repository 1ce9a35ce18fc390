// Package notify delivers booking confirmations to customers.
//
// Delivery is fire-and-forget: callers hand a Message to a Notifier and do
// not wait for, or depend on, the outcome.
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Event names the booking transition a message reports.
type Event string

const (
	EventConfirmed Event = "booking.confirmed"
	EventCancelled Event = "booking.cancelled"
)

// Message is a formatted notification for one customer.
type Message struct {
	Event     Event
	BookingID int
	Name      string
	Email     string
	Text      string
	At        time.Time
}

// Notifier sends a message to its recipient.
type Notifier interface {
	Notify(ctx context.Context, m Message) error
}

// Log writes messages to a zap logger instead of sending them anywhere.
type Log struct {
	lg *zap.Logger
}

func NewLog(lg *zap.Logger) *Log {
	return &Log{lg: lg}
}

func (l *Log) Notify(_ context.Context, m Message) error {
	l.lg.Info("Notification sent",
		zap.String("event", string(m.Event)),
		zap.Int("booking_id", m.BookingID),
		zap.String("email", m.Email),
		zap.String("text", m.Text),
	)
	return nil
}

// Nop discards every message.
type Nop struct{}

func (Nop) Notify(context.Context, Message) error { return nil }
