package handler

import (
	"net/http"

	"github.com/go-faster/jx"
)

func (h *Handler) addRoom(w http.ResponseWriter, r *http.Request) error {
	d, err := readBody(w, r)
	if err != nil {
		return err
	}
	req, err := decodeRoomRequest(d)
	if err != nil {
		return err
	}
	rm, err := h.hotel.AddRoom(r.Context(), req.Number, req.Type, req.Price, req.Available)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) { encodeRoom(e, rm) })
	return nil
}

func (h *Handler) addPromoCode(w http.ResponseWriter, r *http.Request) error {
	d, err := readBody(w, r)
	if err != nil {
		return err
	}
	req, err := decodePromoRequest(d)
	if err != nil {
		return err
	}
	if err := h.hotel.AddPromoCode(r.Context(), req.Code, req.Discount); err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Str(req.Code)
		e.FieldStart("discount")
		e.Num(jx.Num(req.Discount.String()))
		e.ObjEnd()
	})
	return nil
}

func (h *Handler) addSeasonalOffer(w http.ResponseWriter, r *http.Request) error {
	d, err := readBody(w, r)
	if err != nil {
		return err
	}
	req, err := decodeSeasonalRequest(d)
	if err != nil {
		return err
	}
	s, err := h.hotel.AddSeasonalOffer(r.Context(), req.Discount, req.Start, req.End)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) { encodeSeasonal(e, s) })
	return nil
}

func (h *Handler) listOffers(w http.ResponseWriter, _ *http.Request) error {
	o := h.hotel.Offers()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("promo_codes")
		e.ArrStart()
		for _, c := range o.Codes {
			e.ObjStart()
			e.FieldStart("code")
			e.Str(c.Code)
			e.FieldStart("discount")
			e.Num(jx.Num(c.Discount.String()))
			e.ObjEnd()
		}
		e.ArrEnd()
		e.FieldStart("seasonal_offers")
		e.ArrStart()
		for _, s := range o.Seasonal {
			encodeSeasonal(e, s)
		}
		e.ArrEnd()
		if o.Active != nil {
			e.FieldStart("active")
			encodeSeasonal(e, *o.Active)
		}
		e.ObjEnd()
	})
	return nil
}
