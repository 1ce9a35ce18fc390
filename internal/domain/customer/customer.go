package customer

import (
	"net/mail"
	"strings"

	"github.com/xenking/hotel-booking/internal/domain/input"
)

// Customer is the guest a booking or review belongs to.
type Customer struct {
	Name     string
	Email    string
	Password string
}

// New validates the name and email and constructs a Customer.
func New(name, email, password string) (Customer, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" {
		return Customer{}, input.Field("name", "customer name is required")
	}
	if email == "" {
		return Customer{}, input.Field("email", "customer email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Customer{}, input.Field("email", "provide a valid email")
	}

	return Customer{Name: name, Email: email, Password: password}, nil
}
