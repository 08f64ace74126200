package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound                   = errors.New("e-invoice not found")
	ErrIllegalTransition          = errors.New("illegal e-invoice status transition")
	ErrCancellationWindowExpired  = errors.New("cancellation window of 24 hours has elapsed")
	ErrCancellationReasonRequired = errors.New("cancellation reason is required")
	ErrSubmissionFailed           = errors.New("e-invoice submission failed")
	ErrVersionConflict            = errors.New("e-invoice was modified concurrently")
	ErrInvalidStatus              = errors.New("invalid e-invoice status")
)

// ValidationError carries the ordered list of structural validation
// failures for a candidate e-invoice.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("e-invoice validation failed: %s", strings.Join(e.Errors, "; "))
}

// NewValidationError wraps a non-empty error list.
func NewValidationError(errs []string) *ValidationError {
	return &ValidationError{Errors: errs}
}
