package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for simple conditions without extra context.
var (
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrItemNotFound    = errors.New("billing item not found")
	ErrSummaryNotFound = errors.New("billing summary not found")
	ErrUnauthenticated = errors.New("no valid session")
	ErrForbidden       = errors.New("caller lacks required privilege")

	// ErrStatusConflict is returned by a conditional invoice update when
	// the stored status no longer matches the expected predecessor.
	// Callers re-read and report the state that won the race.
	ErrStatusConflict = errors.New("invoice status changed concurrently")
)

// ValidationError is returned when request input is out of contract.
// It is detected before any storage access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

// TransitionError is returned when a state transition is not allowed.
type TransitionError struct {
	Event   Event
	Current InvoiceStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("event %q is not valid from state %q", e.Event, e.Current)
}
