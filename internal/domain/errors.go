package domain

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound covers missing and soft-deleted resources alike.
	ErrNotFound = errors.New("not found")
	// ErrProtectedKey is returned when deleting a config key that may only
	// be updated.
	ErrProtectedKey = errors.New("protected config key")
)

// ValidationError collects every violated rule of a write so the caller can
// fix all of them in one round trip.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// AsValidation unwraps err into a ValidationError, if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
