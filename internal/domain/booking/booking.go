// Package booking implements the booking lifecycle: create, price, confirm
// and cancel a stay in one room.
package booking

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/hotel-booking/internal/domain/customer"
	"github.com/xenking/hotel-booking/internal/domain/offer"
	"github.com/xenking/hotel-booking/internal/domain/payment"
	"github.com/xenking/hotel-booking/internal/domain/room"
	"github.com/xenking/hotel-booking/internal/domain/service"
)

// Sentinel errors for the booking lifecycle.
var (
	ErrInvalidDateRange = errors.New("check-out must be after check-in")
	ErrAlreadyCancelled = errors.New("booking already cancelled")
	ErrAlreadyConfirmed = errors.New("booking already confirmed")
	ErrPaymentDeclined  = errors.New("payment declined")
	ErrNotFound         = errors.New("booking not found")
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusCreated   Status = "created"
	StatusPriced    Status = "priced"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Rooms is the part of the room catalog the lifecycle flips availability on.
type Rooms interface {
	IsAvailable(number int) bool
	Reserve(number int) error
	Release(number int) error
}

// Booking is a stay of one customer in one room between two dates.
type Booking struct {
	ID       int
	Customer customer.Customer
	Room     room.Room
	CheckIn  time.Time
	CheckOut time.Time
	Services []service.Service
	Offers   []offer.Offer
	Total    decimal.Decimal
	Status   Status
	Receipt  *payment.Receipt

	// Warnings are notes for the guest about request parts that were
	// skipped, such as an unrecognized promo code.
	Warnings []string
}

// New creates a booking in the Created state. Dates are truncated to UTC days.
func New(id int, c customer.Customer, r room.Room, checkIn, checkOut time.Time) (*Booking, error) {
	in, out := day(checkIn), day(checkOut)
	if !in.Before(out) {
		return nil, errors.Wrapf(ErrInvalidDateRange, "%s to %s",
			in.Format(time.DateOnly), out.Format(time.DateOnly))
	}
	if !r.Available {
		return nil, errors.Wrapf(room.ErrUnavailable, "room %d", r.Number)
	}
	return &Booking{
		ID:       id,
		Customer: c,
		Room:     r,
		CheckIn:  in,
		CheckOut: out,
		Total:    decimal.Zero,
		Status:   StatusCreated,
	}, nil
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const secondsPerDay = 24 * 60 * 60

// Nights returns the number of whole days between check-in and check-out.
// Both are UTC midnights, so the Unix difference is an exact multiple of a
// day at any range.
func (b *Booking) Nights() int {
	return int((b.CheckOut.Unix() - b.CheckIn.Unix()) / secondsPerDay)
}

func (b *Booking) mutable() error {
	switch b.Status {
	case StatusCancelled:
		return ErrAlreadyCancelled
	case StatusConfirmed:
		return ErrAlreadyConfirmed
	default:
		return nil
	}
}

// AddService attaches an add-on service. The total is not recomputed until
// CalculatePrice is called.
func (b *Booking) AddService(s service.Service) error {
	if err := b.mutable(); err != nil {
		return err
	}
	b.Services = append(b.Services, s)
	return nil
}

// ApplyOffer records a discount to fold into the total. A second offer of the
// same kind replaces the first, so a booking carries at most one seasonal
// offer and one promo code.
func (b *Booking) ApplyOffer(o offer.Offer) error {
	if err := b.mutable(); err != nil {
		return err
	}
	for i, applied := range b.Offers {
		if sameKind(applied, o) {
			b.Offers[i] = o
			return nil
		}
	}
	b.Offers = append(b.Offers, o)
	return nil
}

func sameKind(a, b offer.Offer) bool {
	switch a.(type) {
	case offer.Seasonal:
		_, ok := b.(offer.Seasonal)
		return ok
	case offer.Code:
		_, ok := b.(offer.Code)
		return ok
	default:
		return false
	}
}

// Subtotal returns nights x nightly rate plus every attached service.
func (b *Booking) Subtotal() decimal.Decimal {
	total := b.Room.Price.Mul(decimal.NewFromInt(int64(b.Nights())))
	for _, s := range b.Services {
		total = total.Add(s.Price)
	}
	return total
}

// Discount returns how much the applied offers take off the subtotal. It does
// not depend on CalculatePrice having been called.
func (b *Booking) Discount() decimal.Decimal {
	return b.Subtotal().Round(2).Sub(b.price())
}

// price folds every applied offer into the subtotal, floored at zero and
// rounded to cents.
func (b *Booking) price() decimal.Decimal {
	total := b.Subtotal()
	for _, o := range b.Offers {
		total = o.Apply(total)
	}
	if total.IsNegative() {
		total = decimal.Zero
	}
	return total.Round(2)
}

// CalculatePrice computes and stores the total: the subtotal reduced by every
// applied offer, floored at zero and rounded to cents. It is a pure function
// of the current room, dates, services and offers.
func (b *Booking) CalculatePrice() (decimal.Decimal, error) {
	if b.Nights() <= 0 {
		return decimal.Zero, ErrInvalidDateRange
	}
	if b.Status == StatusConfirmed || b.Status == StatusCancelled {
		return b.Total, nil
	}

	b.Total = b.price()
	b.Status = StatusPriced
	return b.Total, nil
}

// Confirm prices the booking, charges the total to m and reserves the room.
// A failed or declined payment leaves the room untouched and the booking in
// the Created state.
func (b *Booking) Confirm(ctx context.Context, rooms Rooms, m payment.Method) (payment.Receipt, error) {
	if err := b.mutable(); err != nil {
		return payment.Receipt{}, err
	}
	fail := func(err error) (payment.Receipt, error) {
		b.Status = StatusCreated
		return payment.Receipt{}, err
	}

	total, err := b.CalculatePrice()
	if err != nil {
		return fail(err)
	}
	if !rooms.IsAvailable(b.Room.Number) {
		return fail(errors.Wrapf(room.ErrUnavailable, "room %d", b.Room.Number))
	}

	receipt, err := m.Pay(ctx, total)
	if err != nil {
		return fail(errors.Wrap(err, "pay"))
	}
	if !receipt.Approved {
		return fail(errors.Wrapf(ErrPaymentDeclined, "%s %s", receipt.Kind, receipt.Reference))
	}

	if err := rooms.Reserve(b.Room.Number); err != nil {
		return fail(errors.Wrap(err, "reserve"))
	}
	b.Room.Available = false
	b.Status = StatusConfirmed
	b.Receipt = &receipt
	return receipt, nil
}

// Cancel moves the booking to the terminal Cancelled state. The room is
// released only when the booking had been confirmed.
func (b *Booking) Cancel(rooms Rooms) error {
	if b.Status == StatusCancelled {
		return errors.Wrapf(ErrAlreadyCancelled, "booking %d", b.ID)
	}
	if b.Status == StatusConfirmed {
		if err := rooms.Release(b.Room.Number); err != nil {
			return errors.Wrap(err, "release")
		}
		b.Room.Available = true
	}
	b.Status = StatusCancelled
	return nil
}

// Clone returns a deep copy safe to hand out of a lock.
func (b *Booking) Clone() *Booking {
	c := *b
	c.Services = slices.Clone(b.Services)
	c.Offers = slices.Clone(b.Offers)
	c.Warnings = slices.Clone(b.Warnings)
	if b.Receipt != nil {
		r := *b.Receipt
		c.Receipt = &r
	}
	return &c
}

// Summary formats the confirmation message sent to the customer.
func (b *Booking) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Booking #%d %s for %s: room %d (%s), %s to %s, %d night(s)",
		b.ID, b.Status, b.Customer.Name,
		b.Room.Number, b.Room.Type.Title(),
		b.CheckIn.Format(time.DateOnly), b.CheckOut.Format(time.DateOnly),
		b.Nights(),
	)
	if len(b.Services) > 0 {
		names := make([]string, len(b.Services))
		for i, s := range b.Services {
			names[i] = s.Name
		}
		fmt.Fprintf(&sb, ", services: %s", strings.Join(names, ", "))
	}
	if len(b.Offers) > 0 {
		names := make([]string, len(b.Offers))
		for i, o := range b.Offers {
			names[i] = o.Name()
		}
		fmt.Fprintf(&sb, ", offers: %s", strings.Join(names, ", "))
	}
	fmt.Fprintf(&sb, ". Total: $%s", b.Total.StringFixed(2))
	return sb.String()
}
