// Package review holds guest reviews of the hotel.
package review

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xenking/hotel-booking/internal/domain/customer"
	"github.com/xenking/hotel-booking/internal/domain/input"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is an immutable rating left by a customer.
type Review struct {
	ID        int
	Author    customer.Customer
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// Board stores reviews in submission order and assigns sequential ids.
type Board struct {
	mu      sync.RWMutex
	seq     int
	reviews []Review
}

func NewBoard() *Board {
	return &Board{}
}

// Add validates and stores a review, returning it with its id assigned.
func (b *Board) Add(author customer.Customer, rating int, comment string, at time.Time) (Review, error) {
	if rating < MinRating || rating > MaxRating {
		return Review{}, input.Field("rating", "rating must be between 1 and 5")
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return Review{}, input.Field("comment", "comment is required")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	r := Review{
		ID:        b.seq,
		Author:    author,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: at,
	}
	b.reviews = append(b.reviews, r)
	return r, nil
}

// All returns the reviews, newest first.
func (b *Board) All() []Review {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := slices.Clone(b.reviews)
	slices.Reverse(out)
	return out
}

// Average returns the mean rating rounded to one decimal, zero when empty.
func (b *Board) Average() decimal.Decimal {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.reviews) == 0 {
		return decimal.Zero
	}
	sum := 0
	for _, r := range b.reviews {
		sum += r.Rating
	}
	return decimal.NewFromInt(int64(sum)).
		Div(decimal.NewFromInt(int64(len(b.reviews)))).
		Round(1)
}

// Len returns the number of reviews.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.reviews)
}
