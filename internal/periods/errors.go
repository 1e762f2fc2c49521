package periods

import (
	"errors"
	"fmt"
)

// ErrInvalidAge is returned for negative or non-finite ages.
var ErrInvalidAge = errors.New("age must be a finite number >= 0")

// ValidationMessage is the one message shown to users for any bad chart input.
const ValidationMessage = "Please fill all fields correctly."

// ValidationError names the chart input that failed validation.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err came from chart input validation.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
