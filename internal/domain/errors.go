package domain

import (
	"errors"
	"fmt"
)

// ErrReceiptNotFound signals an explicit absent result for a lookup by
// identifier. It is never wrapped around partial data.
var ErrReceiptNotFound = errors.New("receipt not found")

// ValidationError reports a required entity field that is missing or
// malformed. It is raised before any storage write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is (or wraps) a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// TransitionError reports a status change the transition table forbids
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}
