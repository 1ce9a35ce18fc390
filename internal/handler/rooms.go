package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/jx"

	"github.com/xenking/hotel-booking/internal/domain/hotel"
	"github.com/xenking/hotel-booking/internal/domain/input"
	"github.com/xenking/hotel-booking/internal/domain/room"
)

// listRooms serves GET /api/rooms?type=single&available=true.
func (h *Handler) listRooms(w http.ResponseWriter, r *http.Request) error {
	var f hotel.RoomFilter
	q := r.URL.Query()
	if s := q.Get("type"); s != "" {
		t, err := room.ParseType(s)
		if err != nil {
			return err
		}
		f.Type = t
	}
	if s := q.Get("available"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return input.Field("available", "must be true or false")
		}
		f.AvailableOnly = v
	}

	rooms := h.hotel.Rooms(f)
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, rm := range rooms {
			encodeRoom(e, rm)
		}
		e.ArrEnd()
	})
	return nil
}

func (h *Handler) listServices(w http.ResponseWriter, _ *http.Request) error {
	services := h.hotel.Services()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, s := range services {
			encodeService(e, s)
		}
		e.ArrEnd()
	})
	return nil
}
