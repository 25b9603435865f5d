package domain_test

import (
	"testing"

	"github.com/neomorfeo/wastebill/internal/domain"
)

func TestValidationError_Error(t *testing.T) {
	err := &domain.ValidationError{Field: "item_ids", Reason: "must not be empty"}
	want := `field "item_ids": must not be empty`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestTransitionError_Error(t *testing.T) {
	err := &domain.TransitionError{
		Event:   domain.EventLock,
		Current: domain.InvoiceIssued,
	}
	want := `event "lock" is not valid from state "issued"`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
