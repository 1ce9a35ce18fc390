package hotel

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xenking/hotel-booking/internal/domain/booking"
	"github.com/xenking/hotel-booking/internal/domain/customer"
	"github.com/xenking/hotel-booking/internal/domain/input"
	"github.com/xenking/hotel-booking/internal/domain/offer"
	"github.com/xenking/hotel-booking/internal/domain/payment"
	"github.com/xenking/hotel-booking/internal/domain/room"
	"github.com/xenking/hotel-booking/internal/domain/service"
	"github.com/xenking/hotel-booking/internal/notify"
)

// BookRequest is a booking form submission.
type BookRequest struct {
	Name     string
	Email    string
	Password string

	// RoomNumber picks a specific room. When zero, the first available room
	// of RoomType is used.
	RoomNumber int
	RoomType   room.Type

	CheckIn  time.Time
	CheckOut time.Time

	Services  []service.Kind
	PromoCode string
	Payment   PaymentDetails
}

// PaymentDetails carries the raw fields of either payment method.
type PaymentDetails struct {
	Kind        payment.Kind
	CardNumber  string
	Expiry      string
	Holder      string
	CVV         string
	PayPalEmail string
}

// Method validates the details and builds the payment method.
func (p PaymentDetails) Method() (payment.Method, error) {
	switch p.Kind {
	case payment.KindCreditCard:
		return payment.NewCreditCard(p.CardNumber, p.Expiry, p.Holder, p.CVV)
	case payment.KindPayPal:
		return payment.NewPayPal(p.PayPalEmail)
	default:
		return nil, input.Field("payment.method", "payment method must be credit_card or paypal")
	}
}

// Quote prices a prospective booking without reserving anything.
func (h *Hotel) Quote(ctx context.Context, req BookRequest) (*booking.Booking, error) {
	_, span := h.start(ctx, "hotel.Quote")
	defer span.End()

	b, err := h.prepare(0, req)
	if err != nil {
		return nil, fail(span, err)
	}
	if _, err := b.CalculatePrice(); err != nil {
		return nil, fail(span, err)
	}
	return b, nil
}

// Book runs the full submission flow: validate the guest and payment, pick a
// room, apply offers and services, charge, reserve and notify. Any failure
// leaves the catalog and the booking set unchanged.
func (h *Hotel) Book(ctx context.Context, req BookRequest) (*booking.Booking, error) {
	ctx, span := h.start(ctx, "hotel.Book", attribute.String("room.type", string(req.RoomType)))
	defer span.End()

	method, err := req.Payment.Method()
	if err != nil {
		return nil, fail(span, err)
	}

	h.mu.Lock()
	b, err := h.prepare(h.seq+1, req)
	if err != nil {
		h.mu.Unlock()
		return nil, fail(span, err)
	}
	receipt, err := b.Confirm(ctx, h.rooms, method)
	if err != nil {
		h.mu.Unlock()
		if errors.Is(err, booking.ErrPaymentDeclined) {
			h.metrics.declined.Add(ctx, 1)
		}
		return nil, fail(span, err)
	}
	h.seq = b.ID
	h.bookings[b.ID] = b
	out := b.Clone()
	h.mu.Unlock()

	span.SetAttributes(
		attribute.Int("booking.id", out.ID),
		attribute.Int("room.number", out.Room.Number),
	)
	h.metrics.confirmed.Add(ctx, 1)
	h.metrics.revenue.Add(ctx, out.Total.InexactFloat64())
	h.lg.Info("Booking confirmed",
		zap.Int("booking_id", out.ID),
		zap.Int("room", out.Room.Number),
		zap.String("total", out.Total.StringFixed(2)),
		zap.Stringer("receipt", receipt.ID),
	)
	h.send(ctx, notify.EventConfirmed, out)
	return out, nil
}

// prepare builds a priced-but-unconfirmed booking from req. It reads the
// catalog and offer registries but mutates nothing. An unregistered promo
// code is dropped with a warning on the booking.
func (h *Hotel) prepare(id int, req BookRequest) (*booking.Booking, error) {
	c, err := customer.New(req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	var r room.Room
	if req.RoomNumber > 0 {
		r, err = h.rooms.Get(req.RoomNumber)
	} else {
		if req.RoomType == "" {
			return nil, input.Field("room_type", "room type or room number is required")
		}
		r, err = h.rooms.FirstAvailable(req.RoomType)
	}
	if err != nil {
		return nil, err
	}

	b, err := booking.New(id, c, r, req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	if s, ok := h.seasons.Active(h.now()); ok {
		if err := b.ApplyOffer(s); err != nil {
			return nil, err
		}
	}
	if req.PromoCode != "" {
		code, err := h.codes.Lookup(req.PromoCode)
		switch {
		case errors.Is(err, offer.ErrInvalidCode):
			// The stay is still priced, without the code.
			b.Warnings = append(b.Warnings, fmt.Sprintf("promo code %q is not valid and was not applied", req.PromoCode))
		case err != nil:
			return nil, err
		default:
			if err := b.ApplyOffer(code); err != nil {
				return nil, err
			}
		}
	}
	for _, kind := range req.Services {
		s, err := service.Standard(kind)
		if err != nil {
			return nil, err
		}
		if err := b.AddService(s); err != nil {
			return nil, err
		}
	}
	return b, nil
}
