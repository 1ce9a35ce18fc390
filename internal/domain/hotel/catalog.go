package hotel

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xenking/hotel-booking/internal/domain/customer"
	"github.com/xenking/hotel-booking/internal/domain/offer"
	"github.com/xenking/hotel-booking/internal/domain/review"
	"github.com/xenking/hotel-booking/internal/domain/room"
	"github.com/xenking/hotel-booking/internal/domain/service"
)

// RoomFilter narrows a room listing. The zero value lists every room.
type RoomFilter struct {
	Type          room.Type
	AvailableOnly bool
}

// AddRoom registers a new room. Numbers must be unique.
func (h *Hotel) AddRoom(ctx context.Context, number int, t room.Type, price decimal.Decimal, available bool) (room.Room, error) {
	_, span := h.start(ctx, "hotel.AddRoom", attribute.Int("room.number", number))
	defer span.End()

	r, err := room.New(number, t, price, available)
	if err != nil {
		return room.Room{}, fail(span, err)
	}
	if err := h.rooms.Add(r); err != nil {
		return room.Room{}, fail(span, err)
	}
	h.lg.Info("Room added",
		zap.Int("number", number),
		zap.String("type", string(t)),
		zap.String("price", price.StringFixed(2)),
	)
	return r, nil
}

// Rooms lists rooms in catalog order.
func (h *Hotel) Rooms(f RoomFilter) []room.Room {
	list := h.rooms.All()
	if f.AvailableOnly {
		list = h.rooms.Available()
	}
	if f.Type == "" {
		return list
	}
	out := list[:0]
	for _, r := range list {
		if r.Type == f.Type {
			out = append(out, r)
		}
	}
	return out
}

// AvailableRooms lists free rooms, optionally of one type.
func (h *Hotel) AvailableRooms(t room.Type) []room.Room {
	return h.Rooms(RoomFilter{Type: t, AvailableOnly: true})
}

// RoomCount returns the size of the catalog.
func (h *Hotel) RoomCount() int {
	return h.rooms.Len()
}

// Services lists the add-on services guests can order.
func (h *Hotel) Services() []service.Service {
	return service.Menu()
}

// AddPromoCode registers or replaces a promo code.
func (h *Hotel) AddPromoCode(ctx context.Context, code string, discount decimal.Decimal) error {
	_, span := h.start(ctx, "hotel.AddPromoCode")
	defer span.End()

	if err := h.codes.Add(code, discount); err != nil {
		return fail(span, err)
	}
	h.lg.Info("Promo code registered", zap.String("discount", discount.String()))
	return nil
}

// AddSeasonalOffer registers a discount valid in [start, end].
func (h *Hotel) AddSeasonalOffer(ctx context.Context, discount decimal.Decimal, start, end time.Time) (offer.Seasonal, error) {
	_, span := h.start(ctx, "hotel.AddSeasonalOffer")
	defer span.End()

	s, err := offer.NewSeasonal(discount, start, end)
	if err != nil {
		return offer.Seasonal{}, fail(span, err)
	}
	h.seasons.Add(s)
	h.lg.Info("Seasonal offer registered", zap.String("offer", s.Name()))
	return s, nil
}

// Offers is a snapshot of the registered discounts.
type Offers struct {
	Codes    []offer.Code
	Seasonal []offer.Seasonal
	// Active is the seasonal offer a booking made now would receive.
	Active *offer.Seasonal
}

func (h *Hotel) Offers() Offers {
	o := Offers{
		Codes:    h.codes.Codes(),
		Seasonal: h.seasons.All(),
	}
	if s, ok := h.seasons.Active(h.now()); ok {
		o.Active = &s
	}
	return o
}

// GuestEmail stands in for the address of a reviewer who left none.
const GuestEmail = "guest@example.com"

// AddReview stores a review by a validated customer. The email is optional
// and defaults to GuestEmail.
func (h *Hotel) AddReview(ctx context.Context, name, email string, rating int, comment string) (review.Review, error) {
	_, span := h.start(ctx, "hotel.AddReview", attribute.Int("review.rating", rating))
	defer span.End()

	if strings.TrimSpace(email) == "" {
		email = GuestEmail
	}
	author, err := customer.New(name, email, "")
	if err != nil {
		return review.Review{}, fail(span, err)
	}
	r, err := h.reviews.Add(author, rating, comment, h.now())
	if err != nil {
		return review.Review{}, fail(span, err)
	}
	return r, nil
}

// Reviews returns every review, newest first, and the average rating.
func (h *Hotel) Reviews() ([]review.Review, decimal.Decimal) {
	return h.reviews.All(), h.reviews.Average()
}
