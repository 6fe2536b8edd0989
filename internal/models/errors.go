// ABOUTME: Validation error type shared by models and storage.
// ABOUTME: Reports which field failed and why, so forms can keep user input.
package models

import (
	"errors"
	"fmt"
)

// ValidationError reports a required field that is empty or out of range.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
