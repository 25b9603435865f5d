package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/neomorfeo/wastebill/internal/domain"
)

// BillingService orchestrates billing item and summary operations.
type BillingService struct {
	items     domain.BillingItemRepository
	summaries domain.BillingSummaryRepository
	publisher domain.EventPublisher
}

// NewBillingService creates a service with the given adapters.
func NewBillingService(items domain.BillingItemRepository, summaries domain.BillingSummaryRepository, publisher domain.EventPublisher) *BillingService {
	return &BillingService{
		items:     items,
		summaries: summaries,
		publisher: publisher,
	}
}

// ApproveItems marks the given billing items approved in one atomic update
// and returns the number of rows updated. Soft-deleted and missing ids are
// simply not matched; already-approved items are overwritten. The update
// deliberately does not filter by current status.
func (s *BillingService) ApproveItems(ctx context.Context, caller domain.Caller, itemIDs []string) (int64, error) {
	if err := validateIDs("item_ids", itemIDs); err != nil {
		return 0, err
	}

	count, err := s.items.ApproveAll(ctx, itemIDs, caller.ID, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("approving billing items: %w", err)
	}

	ref := domain.EventRef{ActorID: caller.ID, EntityIDs: itemIDs, Count: count}
	if err := s.publisher.Publish(ctx, domain.EventItemsApproved, ref); err != nil {
		return 0, fmt.Errorf("publishing approval event: %w", err)
	}

	return count, nil
}

// SubmitSummaries marks the given draft summaries submitted in one atomic
// update and returns the number of rows updated. Summaries not currently
// draft are excluded from the match, not errored, so a repeat submission
// of the same ids yields count 0.
func (s *BillingService) SubmitSummaries(ctx context.Context, caller domain.Caller, summaryIDs []string) (int64, error) {
	if err := validateIDs("billing_summary_ids", summaryIDs); err != nil {
		return 0, err
	}

	count, err := s.summaries.SubmitAll(ctx, summaryIDs, caller.ID, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("submitting billing summaries: %w", err)
	}

	ref := domain.EventRef{ActorID: caller.ID, EntityIDs: summaryIDs, Count: count}
	if err := s.publisher.Publish(ctx, domain.EventSummariesSubmitted, ref); err != nil {
		return 0, fmt.Errorf("publishing submission event: %w", err)
	}

	return count, nil
}

// CreateItem persists a new draft billing item for an organization the
// caller belongs to.
func (s *BillingService) CreateItem(ctx context.Context, caller domain.Caller, organizationID, billingMonth, itemName string, amount decimal.Decimal, commissionType domain.CommissionType, commissionAmount *decimal.Decimal) (domain.BillingItem, error) {
	if err := validateID("organization_id", organizationID); err != nil {
		return domain.BillingItem{}, err
	}
	if !caller.SystemAdmin && !caller.MemberOf(organizationID) {
		return domain.BillingItem{}, domain.ErrForbidden
	}
	if _, err := time.Parse("2006-01", billingMonth); err != nil {
		return domain.BillingItem{}, &domain.ValidationError{Field: "billing_month", Reason: "must be formatted YYYY-MM"}
	}
	if itemName == "" {
		return domain.BillingItem{}, &domain.ValidationError{Field: "item_name", Reason: "must not be empty"}
	}
	if amount.IsNegative() {
		return domain.BillingItem{}, &domain.ValidationError{Field: "amount", Reason: "must not be negative"}
	}

	item := domain.NewBillingItem(newID(), organizationID, billingMonth, itemName, amount)
	item.CommissionType = commissionType
	item.CommissionAmount = commissionAmount

	if err := s.items.Create(ctx, item); err != nil {
		return domain.BillingItem{}, fmt.Errorf("creating billing item: %w", err)
	}

	return item, nil
}

// DeleteItem soft-deletes a billing item. Items already approved or paid
// may only be removed by a system administrator.
func (s *BillingService) DeleteItem(ctx context.Context, caller domain.Caller, id string) error {
	if err := validateID("id", id); err != nil {
		return err
	}

	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !caller.SystemAdmin {
		if !caller.MemberOf(item.OrganizationID) {
			return domain.ErrForbidden
		}
		if item.Status != domain.ItemDraft {
			return domain.ErrForbidden
		}
	}

	if err := s.items.SoftDelete(ctx, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deleting billing item: %w", err)
	}
	return nil
}

// ListItems returns billing items matching the filter. Non-administrators
// must scope the listing to an organization they belong to.
func (s *BillingService) ListItems(ctx context.Context, caller domain.Caller, filter domain.ItemFilter) ([]domain.BillingItem, error) {
	if !caller.SystemAdmin {
		if filter.OrganizationID == "" || !caller.MemberOf(filter.OrganizationID) {
			return nil, domain.ErrForbidden
		}
	}
	return s.items.List(ctx, filter)
}

// CreateSummary persists a new draft billing summary.
func (s *BillingService) CreateSummary(ctx context.Context, caller domain.Caller, collectorID, billingPeriod string) (domain.BillingSummary, error) {
	if err := validateID("collector_id", collectorID); err != nil {
		return domain.BillingSummary{}, err
	}
	if _, err := time.Parse("2006-01", billingPeriod); err != nil {
		return domain.BillingSummary{}, &domain.ValidationError{Field: "billing_period", Reason: "must be formatted YYYY-MM"}
	}

	summary := domain.NewBillingSummary(newID(), collectorID, billingPeriod)
	if err := s.summaries.Create(ctx, summary); err != nil {
		return domain.BillingSummary{}, fmt.Errorf("creating billing summary: %w", err)
	}
	return summary, nil
}

// ListSummaries returns billing summaries matching the filter.
func (s *BillingService) ListSummaries(ctx context.Context, caller domain.Caller, filter domain.SummaryFilter) ([]domain.BillingSummary, error) {
	return s.summaries.List(ctx, filter)
}
