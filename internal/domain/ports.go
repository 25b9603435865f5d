package domain

import (
	"context"
	"time"
)

// BillingItemRepository defines the persistence contract for billing items.
// Every method excludes soft-deleted rows; the filter is baked in here so
// call sites cannot forget it.
type BillingItemRepository interface {
	Create(ctx context.Context, item BillingItem) error
	GetByID(ctx context.Context, id string) (BillingItem, error)
	List(ctx context.Context, filter ItemFilter) ([]BillingItem, error)
	// ApproveAll marks every matching, non-deleted item approved in one
	// atomic statement and returns the number of rows updated. It does
	// not filter by current status: re-approving is an overwrite.
	ApproveAll(ctx context.Context, ids []string, approverID string, at time.Time) (int64, error)
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// ItemFilter holds optional criteria for listing billing items.
type ItemFilter struct {
	OrganizationID string
	BillingMonth   string
	Status         *ItemStatus
	Limit          int
	Offset         int
}

// BillingSummaryRepository defines the persistence contract for billing summaries.
type BillingSummaryRepository interface {
	Create(ctx context.Context, summary BillingSummary) error
	GetByID(ctx context.Context, id string) (BillingSummary, error)
	List(ctx context.Context, filter SummaryFilter) ([]BillingSummary, error)
	// SubmitAll marks every matching draft summary submitted in one atomic
	// statement and returns the number of rows updated. Rows not in draft
	// are excluded from the match, which makes the operation idempotent.
	SubmitAll(ctx context.Context, ids []string, submitterID string, at time.Time) (int64, error)
}

// SummaryFilter holds optional criteria for listing billing summaries.
type SummaryFilter struct {
	CollectorID   string
	BillingPeriod string
	Status        *SummaryStatus
	Limit         int
	Offset        int
}

// TenantInvoiceRepository defines the persistence contract for tenant invoices.
type TenantInvoiceRepository interface {
	Create(ctx context.Context, invoice TenantInvoice) error
	GetByID(ctx context.Context, id string) (TenantInvoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]TenantInvoice, error)
	// TransitionFrom persists the invoice only if its stored status still
	// equals from, so the storage layer arbitrates concurrent transitions.
	// Returns ErrStatusConflict when the row exists with another status and
	// ErrInvoiceNotFound when it does not exist.
	TransitionFrom(ctx context.Context, invoice TenantInvoice, from InvoiceStatus) error
}

// InvoiceFilter holds optional criteria for listing tenant invoices.
type InvoiceFilter struct {
	TenantOrgID string
	Status      *InvoiceStatus
	Limit       int
	Offset      int
}

// TransitionValidator checks whether an event is valid from a status and
// yields the destination status.
type TransitionValidator interface {
	Apply(ctx context.Context, current InvoiceStatus, event Event) (InvoiceStatus, error)
}

// CallerResolver resolves a session token to a caller identity.
// Returns ErrUnauthenticated when the token is unknown or expired.
type CallerResolver interface {
	Resolve(ctx context.Context, token string) (Caller, error)
}

// EventRef identifies what an event happened to and who did it.
type EventRef struct {
	ActorID   string
	InvoiceID string
	EntityIDs []string
	Count     int64
}

// EventPublisher defines the contract for emitting domain events.
type EventPublisher interface {
	Publish(ctx context.Context, event Event, ref EventRef) error
}
