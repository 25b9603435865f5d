package fsm_test

import (
	"context"
	"errors"
	"testing"

	adapter "github.com/neomorfeo/wastebill/internal/adapter/fsm"
	"github.com/neomorfeo/wastebill/internal/domain"
)

func TestValidator_AllTransitions(t *testing.T) {
	v := adapter.New()
	ctx := context.Background()

	for _, tr := range domain.InvoiceTransitions {
		dst, err := v.Apply(ctx, tr.Src, tr.Event)
		if err != nil {
			t.Errorf("Apply(%q, %q) unexpected error: %v", tr.Src, tr.Event, err)
			continue
		}
		if dst != tr.Dst {
			t.Errorf("Apply(%q, %q) = %q, want %q", tr.Src, tr.Event, dst, tr.Dst)
		}
	}
}

func TestValidator_FullLifecycle(t *testing.T) {
	v := adapter.New()
	ctx := context.Background()

	steps := []struct {
		from  domain.InvoiceStatus
		event domain.Event
		want  domain.InvoiceStatus
	}{
		{domain.InvoiceDraft, domain.EventLock, domain.InvoiceLocked},
		{domain.InvoiceLocked, domain.EventIssue, domain.InvoiceIssued},
		{domain.InvoiceIssued, domain.EventMarkPaid, domain.InvoicePaid},
	}

	for _, step := range steps {
		got, err := v.Apply(ctx, step.from, step.event)
		if err != nil {
			t.Fatalf("Apply(%q, %q) error: %v", step.from, step.event, err)
		}
		if got != step.want {
			t.Errorf("Apply(%q, %q) = %q, want %q", step.from, step.event, got, step.want)
		}
	}
}

func TestValidator_RejectsSkipsAndReversals(t *testing.T) {
	v := adapter.New()
	ctx := context.Background()

	invalid := []struct {
		from  domain.InvoiceStatus
		event domain.Event
	}{
		{domain.InvoiceDraft, domain.EventIssue},     // skip
		{domain.InvoiceDraft, domain.EventMarkPaid},  // skip
		{domain.InvoiceLocked, domain.EventLock},     // repeat
		{domain.InvoiceIssued, domain.EventLock},     // reverse
		{domain.InvoicePaid, domain.EventLock},       // terminal
		{domain.InvoicePaid, domain.EventIssue},      // terminal
		{domain.InvoicePaid, domain.EventMarkPaid},   // repeat on terminal
		{domain.InvoiceLocked, domain.EventMarkPaid}, // skip
	}

	for _, tc := range invalid {
		_, err := v.Apply(ctx, tc.from, tc.event)
		var trErr *domain.TransitionError
		if !errors.As(err, &trErr) {
			t.Errorf("Apply(%q, %q): expected TransitionError, got %v", tc.from, tc.event, err)
			continue
		}
		if trErr.Event != tc.event || trErr.Current != tc.from {
			t.Errorf("Apply(%q, %q): error carries (%q, %q)", tc.from, tc.event, trErr.Event, trErr.Current)
		}
	}
}
