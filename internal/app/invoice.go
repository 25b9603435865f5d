package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neomorfeo/wastebill/internal/domain"
)

// InvoiceService orchestrates the tenant invoice state machine. All
// transitions require system administrator privilege and are arbitrated
// by the repository's conditional update, so of two concurrent identical
// transitions only one can succeed.
type InvoiceService struct {
	repo      domain.TenantInvoiceRepository
	validator domain.TransitionValidator
	publisher domain.EventPublisher
}

// NewInvoiceService creates a service with the given adapters.
func NewInvoiceService(repo domain.TenantInvoiceRepository, validator domain.TransitionValidator, publisher domain.EventPublisher) *InvoiceService {
	return &InvoiceService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
	}
}

// Create persists a new draft invoice for a tenant organization.
func (s *InvoiceService) Create(ctx context.Context, caller domain.Caller, tenantOrgID string) (domain.TenantInvoice, error) {
	if !caller.SystemAdmin {
		return domain.TenantInvoice{}, domain.ErrForbidden
	}
	if err := validateID("tenant_org_id", tenantOrgID); err != nil {
		return domain.TenantInvoice{}, err
	}

	invoice := domain.NewTenantInvoice(newID(), tenantOrgID)
	invoice.UpdatedBy = caller.ID

	if err := s.repo.Create(ctx, invoice); err != nil {
		return domain.TenantInvoice{}, fmt.Errorf("creating invoice: %w", err)
	}
	return invoice, nil
}

// GetByID returns an invoice visible to the caller: administrators see all,
// other callers only invoices of organizations they belong to.
func (s *InvoiceService) GetByID(ctx context.Context, caller domain.Caller, id string) (domain.TenantInvoice, error) {
	if err := validateID("id", id); err != nil {
		return domain.TenantInvoice{}, err
	}

	invoice, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.TenantInvoice{}, err
	}
	if !caller.SystemAdmin && !caller.MemberOf(invoice.TenantOrgID) {
		return domain.TenantInvoice{}, domain.ErrForbidden
	}
	return invoice, nil
}

// List returns invoices matching the filter. Administrator only.
func (s *InvoiceService) List(ctx context.Context, caller domain.Caller, filter domain.InvoiceFilter) ([]domain.TenantInvoice, error) {
	if !caller.SystemAdmin {
		return nil, domain.ErrForbidden
	}
	return s.repo.List(ctx, filter)
}

// Lock transitions a draft invoice to locked. Once locked, the invoice's
// line items must no longer be edited by the surrounding system.
func (s *InvoiceService) Lock(ctx context.Context, caller domain.Caller, id string) (domain.TenantInvoice, error) {
	return s.transition(ctx, caller, id, domain.EventLock)
}

// Issue transitions a locked invoice to issued.
func (s *InvoiceService) Issue(ctx context.Context, caller domain.Caller, id string) (domain.TenantInvoice, error) {
	return s.transition(ctx, caller, id, domain.EventIssue)
}

// MarkPaid transitions an issued invoice to paid, its terminal state.
func (s *InvoiceService) MarkPaid(ctx context.Context, caller domain.Caller, id string) (domain.TenantInvoice, error) {
	return s.transition(ctx, caller, id, domain.EventMarkPaid)
}

func (s *InvoiceService) transition(ctx context.Context, caller domain.Caller, id string, event domain.Event) (domain.TenantInvoice, error) {
	if !caller.SystemAdmin {
		return domain.TenantInvoice{}, domain.ErrForbidden
	}
	if err := validateID("id", id); err != nil {
		return domain.TenantInvoice{}, err
	}

	invoice, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.TenantInvoice{}, err
	}

	from := invoice.Status
	newStatus, err := s.validator.Apply(ctx, from, event)
	if err != nil {
		return domain.TenantInvoice{}, err
	}

	now := time.Now().UTC()
	invoice.Status = newStatus
	invoice.UpdatedAt = now
	invoice.UpdatedBy = caller.ID
	switch event {
	case domain.EventLock:
		invoice.LockedAt = &now
		invoice.LockedBy = caller.ID
	case domain.EventIssue:
		invoice.IssuedAt = &now
	case domain.EventMarkPaid:
		invoice.PaidAt = &now
	}

	if err := s.repo.TransitionFrom(ctx, invoice, from); err != nil {
		if errors.Is(err, domain.ErrStatusConflict) {
			// Lost a race: report the state that won.
			current, getErr := s.repo.GetByID(ctx, id)
			if getErr != nil {
				return domain.TenantInvoice{}, getErr
			}
			return domain.TenantInvoice{}, &domain.TransitionError{Event: event, Current: current.Status}
		}
		return domain.TenantInvoice{}, fmt.Errorf("updating invoice: %w", err)
	}

	ref := domain.EventRef{ActorID: caller.ID, InvoiceID: invoice.ID, Count: 1}
	if err := s.publisher.Publish(ctx, event, ref); err != nil {
		return domain.TenantInvoice{}, fmt.Errorf("publishing event %q: %w", event, err)
	}

	return invoice, nil
}
