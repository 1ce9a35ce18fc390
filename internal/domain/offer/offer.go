// Package offer implements the discount rules a booking total can be reduced by:
// time-gated seasonal offers and code-gated promo offers.
package offer

import (
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/hotel-booking/internal/domain/input"
)

// ErrInvalidCode is returned when a promo code is not registered.
var ErrInvalidCode = errors.New("invalid promo code")

var one = decimal.NewFromInt(1)

// Offer reduces an amount by a fixed fraction.
type Offer interface {
	// Name identifies the offer in booking summaries.
	Name() string
	// Rate is the discount fraction in [0, 1].
	Rate() decimal.Decimal
	// Apply returns amount * (1 - Rate).
	Apply(amount decimal.Decimal) decimal.Decimal
}

var (
	_ Offer = Seasonal{}
	_ Offer = Code{}
)

// ValidateRate checks that a discount fraction lies in [0, 1].
func ValidateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(one) {
		return input.Field("discount", "discount must be a fraction between 0 and 1")
	}
	return nil
}

func apply(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(one.Sub(rate))
}

// Seasonal is a discount that applies while now falls within [Start, End].
type Seasonal struct {
	Discount decimal.Decimal
	Start    time.Time
	End      time.Time
}

// NewSeasonal validates and constructs a seasonal offer.
func NewSeasonal(discount decimal.Decimal, start, end time.Time) (Seasonal, error) {
	if err := ValidateRate(discount); err != nil {
		return Seasonal{}, err
	}
	if end.Before(start) {
		return Seasonal{}, input.Field("end", "offer must end after it starts")
	}
	return Seasonal{Discount: discount, Start: start, End: end}, nil
}

// Applies reports whether now lies within the validity window, boundaries included.
func (s Seasonal) Applies(now time.Time) bool {
	return !now.Before(s.Start) && !now.After(s.End)
}

// Apply returns the discounted amount. It does not check the window.
func (s Seasonal) Apply(amount decimal.Decimal) decimal.Decimal {
	return apply(amount, s.Discount)
}

func (s Seasonal) Rate() decimal.Decimal { return s.Discount }

func (s Seasonal) Name() string {
	return fmt.Sprintf("seasonal %s%% (%s to %s)",
		s.Discount.Shift(2).String(),
		s.Start.Format(time.DateOnly),
		s.End.Format(time.DateOnly),
	)
}

// Code is a discount redeemed by presenting a registered promo code.
type Code struct {
	Code     string
	Discount decimal.Decimal
}

// Apply returns the discounted amount.
func (c Code) Apply(amount decimal.Decimal) decimal.Decimal {
	return apply(amount, c.Discount)
}

func (c Code) Rate() decimal.Decimal { return c.Discount }

func (c Code) Name() string {
	return fmt.Sprintf("promo %s %s%%", c.Code, c.Discount.Shift(2).String())
}
