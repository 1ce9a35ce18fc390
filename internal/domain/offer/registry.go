package offer

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/hotel-booking/internal/domain/input"
)

// Registry maps promo codes to their discount. It is populated at startup and
// by administrators, and read on every booking.
type Registry struct {
	mu    sync.RWMutex
	codes map[string]decimal.Decimal
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{codes: make(map[string]decimal.Decimal)}
}

// Add registers a code. Registering an existing code replaces its discount.
func (r *Registry) Add(code string, discount decimal.Decimal) error {
	if strings.TrimSpace(code) == "" {
		return input.Field("code", "promo code is required")
	}
	if err := ValidateRate(discount); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[code] = discount
	return nil
}

// Lookup returns the offer for an exactly matching code.
func (r *Registry) Lookup(code string) (Code, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.codes[code]
	if !ok {
		return Code{}, errors.Wrapf(ErrInvalidCode, "code %q", code)
	}
	return Code{Code: code, Discount: d}, nil
}

// Codes returns every registered offer sorted by code.
func (r *Registry) Codes() []Code {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Code, 0, len(r.codes))
	for code, d := range r.codes {
		out = append(out, Code{Code: code, Discount: d})
	}
	slices.SortFunc(out, func(a, b Code) int { return strings.Compare(a.Code, b.Code) })
	return out
}

// Seasons is the ordered list of seasonal offers.
type Seasons struct {
	mu     sync.RWMutex
	offers []Seasonal
}

// NewSeasons returns an empty list.
func NewSeasons() *Seasons {
	return &Seasons{}
}

// Add appends an offer.
func (s *Seasons) Add(o Seasonal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offers = append(s.offers, o)
}

// Active returns the first offer, in registration order, whose window contains now.
func (s *Seasons) Active(now time.Time) (Seasonal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.offers {
		if o.Applies(now) {
			return o, true
		}
	}
	return Seasonal{}, false
}

// All returns every registered seasonal offer.
func (s *Seasons) All() []Seasonal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.offers)
}
