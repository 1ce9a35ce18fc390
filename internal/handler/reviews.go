package handler

import (
	"net/http"

	"github.com/go-faster/jx"
)

func (h *Handler) listReviews(w http.ResponseWriter, _ *http.Request) error {
	reviews, avg := h.hotel.Reviews()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("average")
		e.Num(jx.Num(avg.StringFixed(1)))
		e.FieldStart("reviews")
		e.ArrStart()
		for _, rv := range reviews {
			encodeReview(e, rv)
		}
		e.ArrEnd()
		e.ObjEnd()
	})
	return nil
}

func (h *Handler) addReview(w http.ResponseWriter, r *http.Request) error {
	d, err := readBody(w, r)
	if err != nil {
		return err
	}
	req, err := decodeReviewRequest(d)
	if err != nil {
		return err
	}
	rv, err := h.hotel.AddReview(r.Context(), req.Name, req.Email, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) { encodeReview(e, rv) })
	return nil
}
