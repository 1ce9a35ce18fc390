package handler

import (
	"time"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/hotel-booking/internal/domain/booking"
	"github.com/xenking/hotel-booking/internal/domain/offer"
	"github.com/xenking/hotel-booking/internal/domain/payment"
	"github.com/xenking/hotel-booking/internal/domain/review"
	"github.com/xenking/hotel-booking/internal/domain/room"
	"github.com/xenking/hotel-booking/internal/domain/service"
)

// money writes d as a JSON number with two decimals.
func money(e *jx.Encoder, d decimal.Decimal) {
	e.Num(jx.Num(d.StringFixed(2)))
}

func encodeRoom(e *jx.Encoder, r room.Room) {
	e.ObjStart()
	e.FieldStart("number")
	e.Int(r.Number)
	e.FieldStart("type")
	e.Str(string(r.Type))
	e.FieldStart("capacity")
	e.Int(r.Capacity())
	e.FieldStart("price")
	money(e, r.Price)
	e.FieldStart("available")
	e.Bool(r.Available)
	e.ObjEnd()
}

func encodeService(e *jx.Encoder, s service.Service) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int(s.ID)
	e.FieldStart("kind")
	e.Str(string(s.Kind))
	e.FieldStart("name")
	e.Str(s.Name)
	e.FieldStart("description")
	e.Str(s.Description)
	e.FieldStart("detail")
	e.Str(s.Describe())
	e.FieldStart("price")
	money(e, s.Price)
	e.ObjEnd()
}

func encodeOffer(e *jx.Encoder, o offer.Offer) {
	e.ObjStart()
	e.FieldStart("name")
	e.Str(o.Name())
	e.FieldStart("discount")
	e.Num(jx.Num(o.Rate().String()))
	e.ObjEnd()
}

func encodeSeasonal(e *jx.Encoder, s offer.Seasonal) {
	e.ObjStart()
	e.FieldStart("discount")
	e.Num(jx.Num(s.Discount.String()))
	e.FieldStart("start")
	e.Str(s.Start.UTC().Format(time.RFC3339))
	e.FieldStart("end")
	e.Str(s.End.UTC().Format(time.RFC3339))
	e.ObjEnd()
}

func encodeReceipt(e *jx.Encoder, r payment.Receipt) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(r.ID.String())
	e.FieldStart("method")
	e.Str(string(r.Kind))
	e.FieldStart("reference")
	e.Str(r.Reference)
	e.FieldStart("amount")
	money(e, r.Amount)
	e.FieldStart("approved")
	e.Bool(r.Approved)
	e.FieldStart("at")
	e.Str(r.At.UTC().Format(time.RFC3339))
	e.ObjEnd()
}

func encodeBooking(e *jx.Encoder, b *booking.Booking) {
	e.ObjStart()
	if b.ID > 0 {
		e.FieldStart("id")
		e.Int(b.ID)
	}
	e.FieldStart("status")
	e.Str(string(b.Status))

	e.FieldStart("customer")
	e.ObjStart()
	e.FieldStart("name")
	e.Str(b.Customer.Name)
	e.FieldStart("email")
	e.Str(b.Customer.Email)
	e.ObjEnd()

	e.FieldStart("room")
	encodeRoom(e, b.Room)
	e.FieldStart("check_in")
	e.Str(b.CheckIn.Format(time.DateOnly))
	e.FieldStart("check_out")
	e.Str(b.CheckOut.Format(time.DateOnly))
	e.FieldStart("nights")
	e.Int(b.Nights())

	e.FieldStart("services")
	e.ArrStart()
	for _, s := range b.Services {
		encodeService(e, s)
	}
	e.ArrEnd()

	e.FieldStart("offers")
	e.ArrStart()
	for _, o := range b.Offers {
		encodeOffer(e, o)
	}
	e.ArrEnd()

	e.FieldStart("subtotal")
	money(e, b.Subtotal())
	e.FieldStart("discount")
	money(e, b.Discount())
	e.FieldStart("total")
	money(e, b.Total)

	if b.Receipt != nil {
		e.FieldStart("receipt")
		encodeReceipt(e, *b.Receipt)
	}
	if len(b.Warnings) > 0 {
		e.FieldStart("warnings")
		e.ArrStart()
		for _, w := range b.Warnings {
			e.Str(w)
		}
		e.ArrEnd()
	}
	e.FieldStart("summary")
	e.Str(b.Summary())
	e.ObjEnd()
}

func encodeReview(e *jx.Encoder, r review.Review) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int(r.ID)
	e.FieldStart("name")
	e.Str(r.Author.Name)
	e.FieldStart("rating")
	e.Int(r.Rating)
	e.FieldStart("comment")
	e.Str(r.Comment)
	e.FieldStart("created_at")
	e.Str(r.CreatedAt.UTC().Format(time.RFC3339))
	e.ObjEnd()
}
