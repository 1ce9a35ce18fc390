// Package service describes the add-on services a guest can attach to a booking.
package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xenking/hotel-booking/internal/domain/input"
)

// Kind enumerates the add-on service variants.
type Kind string

const (
	KindRoomService Kind = "room_service"
	KindLaundry     Kind = "laundry"
	KindSpa         Kind = "spa"
)

// ParseKind parses a service kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindRoomService, KindLaundry, KindSpa:
		return k, nil
	default:
		return "", input.Field("services", fmt.Sprintf("unknown service %q", s))
	}
}

// Service is a flat-priced extra attached to exactly one booking.
//
// Detail carries the kind-specific attribute: the meal for room service, the
// package for the spa. Items is the number of laundry pieces.
type Service struct {
	ID          int
	Kind        Kind
	Name        string
	Description string
	Price       decimal.Decimal
	Detail      string
	Items       int
}

// Describe returns the kind-specific attribute as display text.
func (s Service) Describe() string {
	switch s.Kind {
	case KindRoomService:
		return "Meal: " + s.Detail
	case KindLaundry:
		return fmt.Sprintf("Items: %d", s.Items)
	case KindSpa:
		return "Package: " + s.Detail
	default:
		return s.Detail
	}
}

// Standard returns the house version of a service.
func Standard(kind Kind) (Service, error) {
	for _, s := range Menu() {
		if s.Kind == kind {
			return s, nil
		}
	}
	return Service{}, input.Field("services", fmt.Sprintf("unknown service %q", kind))
}

// Menu lists the services offered to guests.
func Menu() []Service {
	return []Service{
		{
			ID:          1,
			Kind:        KindRoomService,
			Name:        "Room Service",
			Description: "In-room dining",
			Price:       decimal.NewFromInt(15),
			Detail:      "Dinner",
		},
		{
			ID:          2,
			Kind:        KindLaundry,
			Name:        "Laundry",
			Description: "Professional laundry",
			Price:       decimal.NewFromInt(10),
			Items:       5,
		},
		{
			ID:          3,
			Kind:        KindSpa,
			Name:        "Spa",
			Description: "Relaxing treatments",
			Price:       decimal.NewFromInt(50),
			Detail:      "Basic",
		},
	}
}
