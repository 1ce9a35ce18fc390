// Package payment validates guest payment details and settles booking totals.
//
// Settlement is a demo stub: a method that passed construction always
// approves. A real backend can replace it by implementing Method.
package payment

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/hotel-booking/internal/domain/input"
)

// ErrInvalidDetails is returned when card or PayPal fields are malformed.
var ErrInvalidDetails = errors.New("invalid payment details")

// Kind enumerates the supported payment methods.
type Kind string

const (
	KindCreditCard Kind = "credit_card"
	KindPayPal     Kind = "paypal"
)

// Receipt records the outcome of a pay attempt.
type Receipt struct {
	ID        uuid.UUID
	Kind      Kind
	Reference string
	Amount    decimal.Decimal
	Approved  bool
	At        time.Time
}

// Method is a validated payment method that can settle an amount.
type Method interface {
	Kind() Kind
	// Reference identifies the payer without exposing secrets.
	Reference() string
	Pay(ctx context.Context, amount decimal.Decimal) (Receipt, error)
}

var (
	_ Method = (*CreditCard)(nil)
	_ Method = (*PayPal)(nil)
)

// CreditCard holds card details that passed validation.
type CreditCard struct {
	number string
	holder string
	cvv    string
	expiry time.Time
}

// NewCreditCard validates card details. The number must be exactly 16 digits
// (spaces are ignored), the CVV exactly 3 digits, and the expiry a MM/YY or
// MM/YYYY month.
func NewCreditCard(number, expiry, holder, cvv string) (*CreditCard, error) {
	number = strings.ReplaceAll(strings.TrimSpace(number), " ", "")
	if len(number) != 16 || !digits(number) {
		return nil, errors.Wrap(ErrInvalidDetails, "card number must be 16 digits")
	}
	cvv = strings.TrimSpace(cvv)
	if len(cvv) != 3 || !digits(cvv) {
		return nil, errors.Wrap(ErrInvalidDetails, "cvv must be 3 digits")
	}
	holder = strings.TrimSpace(holder)
	if holder == "" {
		return nil, errors.Wrap(ErrInvalidDetails, "cardholder name is required")
	}
	exp, err := ParseExpiry(expiry)
	if err != nil {
		return nil, err
	}

	return &CreditCard{
		number: number,
		holder: holder,
		cvv:    cvv,
		expiry: exp,
	}, nil
}

// ParseExpiry parses MM/YY or MM/YYYY into the first day of that month, UTC.
func ParseExpiry(s string) (time.Time, error) {
	month, year, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return time.Time{}, errors.Wrap(ErrInvalidDetails, "expiry must be MM/YY")
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return time.Time{}, errors.Wrap(ErrInvalidDetails, "expiry month must be 01-12")
	}
	if !digits(year) || (len(year) != 2 && len(year) != 4) {
		return time.Time{}, errors.Wrap(ErrInvalidDetails, "expiry year must be YY or YYYY")
	}
	y, _ := strconv.Atoi(year)
	if len(year) == 2 {
		y += 2000
	}
	return time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC), nil
}

func (c *CreditCard) Kind() Kind { return KindCreditCard }

// Reference returns the masked card number.
func (c *CreditCard) Reference() string {
	return strings.Repeat("*", 12) + c.number[12:]
}

// Holder returns the cardholder name.
func (c *CreditCard) Holder() string { return c.holder }

// Expiry returns the first day of the expiry month.
func (c *CreditCard) Expiry() time.Time { return c.expiry }

func (c *CreditCard) Pay(ctx context.Context, amount decimal.Decimal) (Receipt, error) {
	return settle(ctx, c, amount)
}

// PayPal holds a validated PayPal account email.
type PayPal struct {
	email string
}

// NewPayPal validates a PayPal account email.
func NewPayPal(email string) (*PayPal, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.Wrap(ErrInvalidDetails, "paypal email must contain @")
	}
	return &PayPal{email: email}, nil
}

func (p *PayPal) Kind() Kind { return KindPayPal }

func (p *PayPal) Reference() string { return p.email }

func (p *PayPal) Pay(ctx context.Context, amount decimal.Decimal) (Receipt, error) {
	return settle(ctx, p, amount)
}

func settle(ctx context.Context, m Method, amount decimal.Decimal) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if amount.IsNegative() {
		return Receipt{}, input.Field("amount", "amount must not be negative")
	}
	return Receipt{
		ID:        uuid.New(),
		Kind:      m.Kind(),
		Reference: m.Reference(),
		Amount:    amount,
		Approved:  true,
		At:        time.Now().UTC(),
	}, nil
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
