package progression

import (
	"errors"
	"fmt"
)

// ErrNoFreezeAvailable is the domain-expected failure of UseStreakFreeze.
// Callers treat it as a result variant, not an exceptional condition.
var ErrNoFreezeAvailable = errors.New("progression: no streak freeze available")

// ErrNotFound signals a missing progress or streak row. Rows are
// provisioned at registration, so absence is a data-integrity fault.
var ErrNotFound = errors.New("progression: record not found")

// ValidationError reports a rejected command input. No state is mutated
// when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("progression: invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
