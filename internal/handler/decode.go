package handler

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/hotel-booking/internal/domain/hotel"
	"github.com/xenking/hotel-booking/internal/domain/input"
	"github.com/xenking/hotel-booking/internal/domain/payment"
	"github.com/xenking/hotel-booking/internal/domain/room"
	"github.com/xenking/hotel-booking/internal/domain/service"
)

func malformed(err error) error {
	return input.Field("body", "malformed JSON: "+err.Error())
}

// decodeObject walks a JSON object, wrapping syntax errors as input errors.
// Field errors returned by fn pass through unchanged.
func decodeObject(d *jx.Decoder, fn func(d *jx.Decoder, key string) error) error {
	var fieldErr error
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if err := fn(d, string(key)); err != nil {
			if errors.Is(err, input.ErrInvalid) {
				fieldErr = err
			}
			return err
		}
		return nil
	})
	if fieldErr != nil {
		return fieldErr
	}
	if err != nil {
		return malformed(err)
	}
	return nil
}

func decodeDecimal(d *jx.Decoder, field string) (decimal.Decimal, error) {
	var s string
	switch d.Next() {
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return decimal.Zero, err
		}
		s = string(n)
	case jx.String:
		v, err := d.Str()
		if err != nil {
			return decimal.Zero, err
		}
		s = v
	default:
		return decimal.Zero, input.Field(field, "must be a number")
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, input.Field(field, "must be a number")
	}
	return v, nil
}

// parseDate accepts YYYY-MM-DD or RFC 3339.
func parseDate(field, s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, input.Field(field, "must be a date like 2024-01-31")
}

func decodeDate(d *jx.Decoder, field string) (time.Time, error) {
	s, err := d.Str()
	if err != nil {
		return time.Time{}, err
	}
	return parseDate(field, s)
}

func decodeBookRequest(d *jx.Decoder) (hotel.BookRequest, error) {
	var req hotel.BookRequest
	err := decodeObject(d, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			req.Name, err = d.Str()
		case "email":
			req.Email, err = d.Str()
		case "password":
			req.Password, err = d.Str()
		case "room_number":
			req.RoomNumber, err = d.Int()
		case "room_type":
			var s string
			if s, err = d.Str(); err == nil {
				req.RoomType, err = room.ParseType(s)
			}
		case "check_in":
			req.CheckIn, err = decodeDate(d, "check_in")
		case "check_out":
			req.CheckOut, err = decodeDate(d, "check_out")
		case "services":
			err = d.Arr(func(d *jx.Decoder) error {
				s, err := d.Str()
				if err != nil {
					return err
				}
				kind, err := service.ParseKind(s)
				if err != nil {
					return err
				}
				req.Services = append(req.Services, kind)
				return nil
			})
		case "promo_code":
			req.PromoCode, err = d.Str()
		case "payment":
			req.Payment, err = decodePayment(d)
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return hotel.BookRequest{}, err
	}
	if req.CheckIn.IsZero() || req.CheckOut.IsZero() {
		return hotel.BookRequest{}, input.Field("check_in", "check_in and check_out are required")
	}
	return req, nil
}

func decodePayment(d *jx.Decoder) (hotel.PaymentDetails, error) {
	var p hotel.PaymentDetails
	err := decodeObject(d, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "method":
			var s string
			s, err = d.Str()
			p.Kind = payment.Kind(s)
		case "card_number":
			p.CardNumber, err = d.Str()
		case "expiry":
			p.Expiry, err = d.Str()
		case "holder":
			p.Holder, err = d.Str()
		case "cvv":
			p.CVV, err = d.Str()
		case "email":
			p.PayPalEmail, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	return p, err
}

type reviewRequest struct {
	Name    string
	Email   string
	Rating  int
	Comment string
}

func decodeReviewRequest(d *jx.Decoder) (reviewRequest, error) {
	var req reviewRequest
	err := decodeObject(d, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			req.Name, err = d.Str()
		case "email":
			req.Email, err = d.Str()
		case "rating":
			req.Rating, err = d.Int()
		case "comment":
			req.Comment, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	return req, err
}

type roomRequest struct {
	Number    int
	Type      room.Type
	Price     decimal.Decimal
	Available bool
}

func decodeRoomRequest(d *jx.Decoder) (roomRequest, error) {
	req := roomRequest{Available: true}
	err := decodeObject(d, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "number":
			req.Number, err = d.Int()
		case "type":
			var s string
			if s, err = d.Str(); err == nil {
				req.Type, err = room.ParseType(s)
			}
		case "price":
			req.Price, err = decodeDecimal(d, "price")
		case "available":
			req.Available, err = d.Bool()
		default:
			err = d.Skip()
		}
		return err
	})
	return req, err
}

type promoRequest struct {
	Code     string
	Discount decimal.Decimal
}

func decodePromoRequest(d *jx.Decoder) (promoRequest, error) {
	var req promoRequest
	err := decodeObject(d, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "code":
			req.Code, err = d.Str()
		case "discount":
			req.Discount, err = decodeDecimal(d, "discount")
		default:
			err = d.Skip()
		}
		return err
	})
	return req, err
}

type seasonalRequest struct {
	Discount decimal.Decimal
	Start    time.Time
	End      time.Time
}

func decodeSeasonalRequest(d *jx.Decoder) (seasonalRequest, error) {
	var req seasonalRequest
	err := decodeObject(d, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "discount":
			req.Discount, err = decodeDecimal(d, "discount")
		case "start":
			req.Start, err = decodeDate(d, "start")
		case "end":
			req.End, err = decodeDate(d, "end")
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return seasonalRequest{}, err
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return seasonalRequest{}, input.Field("start", "start and end are required")
	}
	return req, nil
}
