package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an identifier does not match any record.
// Update, Delete, ToggleFavorite and Get all report it the same way.
var ErrNotFound = errors.New("property not found")

// ValidationError reports a field that violates the listing contract.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
