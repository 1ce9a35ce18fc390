package room

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/hotel-booking/internal/domain/input"
)

// Type enumerates the room variants offered by the hotel.
type Type string

const (
	// TypeSingle sleeps one guest.
	TypeSingle Type = "single"
	// TypeDouble sleeps two guests.
	TypeDouble Type = "double"
	// TypeSuite sleeps four guests.
	TypeSuite Type = "suite"
)

var (
	// ErrUnavailable is returned when no matching room is currently free.
	ErrUnavailable = errors.New("room unavailable")
	// ErrDuplicateNumber is returned when a room number is already in the catalog.
	ErrDuplicateNumber = errors.New("duplicate room number")
	// ErrNotFound is returned when a room number is not in the catalog.
	ErrNotFound = errors.New("room not found")
)

// Types lists the room variants in display order.
func Types() []Type {
	return []Type{TypeSingle, TypeDouble, TypeSuite}
}

// ParseType parses a room type name, ignoring case.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeSingle, TypeDouble, TypeSuite:
		return t, nil
	default:
		return "", input.Field("type", "room type must be one of single, double, suite")
	}
}

// Capacity returns the number of guests the room type sleeps.
func (t Type) Capacity() int {
	switch t {
	case TypeSingle:
		return 1
	case TypeDouble:
		return 2
	case TypeSuite:
		return 4
	default:
		return 0
	}
}

// Title returns the display name of the type.
func (t Type) Title() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// Room is a bookable unit identified by its number.
type Room struct {
	Number    int
	Type      Type
	Price     decimal.Decimal
	Available bool
}

// New validates and constructs a Room.
func New(number int, t Type, price decimal.Decimal, available bool) (Room, error) {
	if number <= 0 {
		return Room{}, input.Field("number", "room number must be positive")
	}
	if t.Capacity() == 0 {
		return Room{}, input.Field("type", "unknown room type")
	}
	if !price.IsPositive() {
		return Room{}, input.Field("price", "nightly price must be positive")
	}
	return Room{
		Number:    number,
		Type:      t,
		Price:     price,
		Available: available,
	}, nil
}

// Capacity returns the number of guests the room sleeps.
func (r Room) Capacity() int {
	return r.Type.Capacity()
}
