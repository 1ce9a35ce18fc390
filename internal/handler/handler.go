// Package handler exposes the hotel over a JSON HTTP API.
package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/hotel-booking/internal/admin"
	"github.com/xenking/hotel-booking/internal/domain/booking"
	"github.com/xenking/hotel-booking/internal/domain/hotel"
	"github.com/xenking/hotel-booking/internal/domain/input"
	"github.com/xenking/hotel-booking/internal/domain/offer"
	"github.com/xenking/hotel-booking/internal/domain/payment"
	"github.com/xenking/hotel-booking/internal/domain/room"
	"github.com/xenking/hotel-booking/pkg/httpmiddleware"
)

const maxBodySize = 1 << 20

// Handler serves the booking API on top of a Hotel.
type Handler struct {
	hotel *hotel.Hotel
	gate  *admin.Gate
}

// New creates a Handler. Admin routes are wrapped by gate.
func New(h *hotel.Hotel, gate *admin.Gate) *Handler {
	return &Handler{hotel: h, gate: gate}
}

// Register adds every API route to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.Handle("GET /api/rooms", h.handle(h.listRooms))
	mux.Handle("GET /api/services", h.handle(h.listServices))
	mux.Handle("POST /api/quotes", h.handle(h.quote))
	mux.Handle("POST /api/bookings", h.handle(h.book))
	mux.Handle("GET /api/bookings", h.handle(h.listBookings))
	mux.Handle("GET /api/bookings/{id}", h.handle(h.getBooking))
	mux.Handle("POST /api/bookings/{id}/cancel", h.handle(h.cancelBooking))
	mux.Handle("GET /api/reviews", h.handle(h.listReviews))
	mux.Handle("POST /api/reviews", h.handle(h.addReview))

	mux.Handle("POST /api/admin/rooms", h.gate.Require(h.handle(h.addRoom)))
	mux.Handle("POST /api/admin/promo-codes", h.gate.Require(h.handle(h.addPromoCode)))
	mux.Handle("POST /api/admin/seasonal-offers", h.gate.Require(h.handle(h.addSeasonalOffer)))
	mux.Handle("GET /api/admin/offers", h.gate.Require(h.handle(h.listOffers)))
}

// apiFunc is an endpoint that reports failures as errors for handle to map.
type apiFunc func(w http.ResponseWriter, r *http.Request) error

func (h *Handler) handle(fn apiFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		code, message := mapError(err)
		if code >= http.StatusInternalServerError {
			zctx.From(r.Context()).Error("Request failed", zap.Error(err))
		}
		httpmiddleware.WriteError(w, code, message)
	})
}

// mapError converts domain errors to a status code and client message.
func mapError(err error) (int, string) {
	var fe *input.FieldError
	switch {
	case errors.As(err, &fe):
		return http.StatusBadRequest, fe.Error()
	case errors.Is(err, input.ErrInvalid), errors.Is(err, booking.ErrInvalidDateRange):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, booking.ErrNotFound), errors.Is(err, room.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, booking.ErrPaymentDeclined):
		return http.StatusPaymentRequired, "payment declined"
	case errors.Is(err, payment.ErrInvalidDetails):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, offer.ErrInvalidCode):
		return http.StatusUnprocessableEntity, "invalid promo code"
	case errors.Is(err, room.ErrUnavailable),
		errors.Is(err, room.ErrDuplicateNumber),
		errors.Is(err, booking.ErrAlreadyCancelled),
		errors.Is(err, booking.ErrAlreadyConfirmed):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func readBody(w http.ResponseWriter, r *http.Request) (*jx.Decoder, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return nil, input.Field("body", "request body is too large or unreadable")
	}
	if len(data) == 0 {
		return nil, input.Field("body", "request body is required")
	}
	return jx.DecodeBytes(data), nil
}

func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	encode(e)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}
