package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/jx"

	"github.com/xenking/hotel-booking/internal/domain/input"
)

func (h *Handler) quote(w http.ResponseWriter, r *http.Request) error {
	d, err := readBody(w, r)
	if err != nil {
		return err
	}
	req, err := decodeBookRequest(d)
	if err != nil {
		return err
	}
	b, err := h.hotel.Quote(r.Context(), req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeBooking(e, b) })
	return nil
}

func (h *Handler) book(w http.ResponseWriter, r *http.Request) error {
	d, err := readBody(w, r)
	if err != nil {
		return err
	}
	req, err := decodeBookRequest(d)
	if err != nil {
		return err
	}
	b, err := h.hotel.Book(r.Context(), req)
	if err != nil {
		return err
	}
	w.Header().Set("Location", "/api/bookings/"+strconv.Itoa(b.ID))
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) { encodeBooking(e, b) })
	return nil
}

func (h *Handler) listBookings(w http.ResponseWriter, _ *http.Request) error {
	bookings := h.hotel.Bookings()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, b := range bookings {
			encodeBooking(e, b)
		}
		e.ArrEnd()
	})
	return nil
}

func bookingID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		return 0, input.Field("id", "booking id must be a positive integer")
	}
	return id, nil
}

func (h *Handler) getBooking(w http.ResponseWriter, r *http.Request) error {
	id, err := bookingID(r)
	if err != nil {
		return err
	}
	b, err := h.hotel.Booking(id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeBooking(e, b) })
	return nil
}

func (h *Handler) cancelBooking(w http.ResponseWriter, r *http.Request) error {
	id, err := bookingID(r)
	if err != nil {
		return err
	}
	b, err := h.hotel.CancelBooking(r.Context(), id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeBooking(e, b) })
	return nil
}
