// Package input holds the validation error shared by the domain packages.
package input

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrInvalid is matched by every FieldError.
var ErrInvalid = errors.New("invalid input")

// FieldError reports a malformed or missing field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is reports ErrInvalid as the error kind.
func (e *FieldError) Is(target error) bool {
	return target == ErrInvalid
}

// Field returns a FieldError for the given field.
func Field(field, message string) error {
	return &FieldError{Field: field, Message: message}
}
