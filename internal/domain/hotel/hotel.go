// Package hotel is the aggregate root of the booking engine. It owns the room
// catalog, the offer registries, the active bookings and the review board,
// and is the single entry point the transport layer talks to.
package hotel

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/xenking/hotel-booking/internal/domain/booking"
	"github.com/xenking/hotel-booking/internal/domain/offer"
	"github.com/xenking/hotel-booking/internal/domain/review"
	"github.com/xenking/hotel-booking/internal/domain/room"
	"github.com/xenking/hotel-booking/internal/notify"
)

const instrumentationName = "github.com/xenking/hotel-booking/internal/domain/hotel"

// Hotel holds all engine state in memory.
type Hotel struct {
	rooms    *room.Catalog
	codes    *offer.Registry
	seasons  *offer.Seasons
	reviews  *review.Board
	notifier notify.Notifier
	now      func() time.Time
	lg       *zap.Logger
	tracer   trace.Tracer
	metrics  metrics

	// mu serializes confirm and cancel so the availability check, the payment
	// and the flip happen as one step.
	mu       sync.Mutex
	seq      int
	bookings map[int]*booking.Booking
}

type metrics struct {
	confirmed metric.Int64Counter
	cancelled metric.Int64Counter
	declined  metric.Int64Counter
	revenue   metric.Float64Counter
}

// Option configures a Hotel.
type Option func(*options)

type options struct {
	notifier       notify.Notifier
	now            func() time.Time
	lg             *zap.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithNotifier sets where confirmation messages go. Defaults to notify.Nop.
func WithNotifier(n notify.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithClock overrides time.Now, used for offer windows and review timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithLogger(lg *zap.Logger) Option {
	return func(o *options) { o.lg = lg }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// New creates an empty hotel.
func New(opts ...Option) (*Hotel, error) {
	o := options{
		notifier:       notify.Nop{},
		now:            time.Now,
		lg:             zap.NewNop(),
		tracerProvider: tracenoop.NewTracerProvider(),
		meterProvider:  metricnoop.NewMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	meter := o.meterProvider.Meter(instrumentationName)
	var (
		m   metrics
		err error
	)
	if m.confirmed, err = meter.Int64Counter("hotel.bookings.confirmed",
		metric.WithDescription("Bookings confirmed"),
	); err != nil {
		return nil, errors.Wrap(err, "confirmed counter")
	}
	if m.cancelled, err = meter.Int64Counter("hotel.bookings.cancelled",
		metric.WithDescription("Bookings cancelled"),
	); err != nil {
		return nil, errors.Wrap(err, "cancelled counter")
	}
	if m.declined, err = meter.Int64Counter("hotel.payments.declined",
		metric.WithDescription("Payments declined during confirmation"),
	); err != nil {
		return nil, errors.Wrap(err, "declined counter")
	}
	if m.revenue, err = meter.Float64Counter("hotel.revenue",
		metric.WithDescription("Total charged for confirmed bookings"),
		metric.WithUnit("USD"),
	); err != nil {
		return nil, errors.Wrap(err, "revenue counter")
	}

	return &Hotel{
		rooms:    room.NewCatalog(),
		codes:    offer.NewRegistry(),
		seasons:  offer.NewSeasons(),
		reviews:  review.NewBoard(),
		notifier: o.notifier,
		now:      o.now,
		lg:       o.lg,
		tracer:   o.tracerProvider.Tracer(instrumentationName),
		metrics:  m,
		bookings: make(map[int]*booking.Booking),
	}, nil
}

func (h *Hotel) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return h.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// Booking returns a copy of the booking with the given id, active or cancelled.
func (h *Hotel) Booking(id int) (*booking.Booking, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	b, ok := h.bookings[id]
	if !ok {
		return nil, errors.Wrapf(booking.ErrNotFound, "booking %d", id)
	}
	return b.Clone(), nil
}

// Bookings returns the confirmed bookings ordered by id.
func (h *Hotel) Bookings() []*booking.Booking {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]*booking.Booking, 0, len(h.bookings))
	for _, id := range slices.Sorted(maps.Keys(h.bookings)) {
		if b := h.bookings[id]; b.Status == booking.StatusConfirmed {
			out = append(out, b.Clone())
		}
	}
	return out
}

// CancelBooking cancels a booking, frees its room and drops it from the
// active set. Cancelling twice fails with booking.ErrAlreadyCancelled.
func (h *Hotel) CancelBooking(ctx context.Context, id int) (*booking.Booking, error) {
	ctx, span := h.start(ctx, "hotel.CancelBooking", attribute.Int("booking.id", id))
	defer span.End()

	h.mu.Lock()
	b, ok := h.bookings[id]
	if !ok {
		h.mu.Unlock()
		return nil, fail(span, errors.Wrapf(booking.ErrNotFound, "booking %d", id))
	}
	if err := b.Cancel(h.rooms); err != nil {
		h.mu.Unlock()
		return nil, fail(span, err)
	}
	out := b.Clone()
	h.mu.Unlock()

	h.metrics.cancelled.Add(ctx, 1)
	h.lg.Info("Booking cancelled",
		zap.Int("booking_id", id),
		zap.Int("room", out.Room.Number),
	)
	h.send(ctx, notify.EventCancelled, out)
	return out, nil
}

func (h *Hotel) send(ctx context.Context, event notify.Event, b *booking.Booking) {
	err := h.notifier.Notify(ctx, notify.Message{
		Event:     event,
		BookingID: b.ID,
		Name:      b.Customer.Name,
		Email:     b.Customer.Email,
		Text:      b.Summary(),
		At:        h.now(),
	})
	if err != nil {
		h.lg.Warn("Notification not queued",
			zap.Int("booking_id", b.ID),
			zap.Error(err),
		)
	}
}
