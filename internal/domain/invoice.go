package domain

import "time"

// InvoiceStatus represents the lifecycle state of a tenant invoice.
type InvoiceStatus string

const (
	InvoiceDraft  InvoiceStatus = "draft"
	InvoiceLocked InvoiceStatus = "locked"
	InvoiceIssued InvoiceStatus = "issued"
	InvoicePaid   InvoiceStatus = "paid"
)

// Event represents an action that triggers a state change or is published
// to the async event queue after one.
type Event string

const (
	EventLock     Event = "lock"
	EventIssue    Event = "issue"
	EventMarkPaid Event = "mark_paid"

	// Bulk billing events. These are published after the corresponding
	// bulk update commits; they do not drive the invoice state machine.
	EventItemsApproved      Event = "items_approved"
	EventSummariesSubmitted Event = "summaries_submitted"
)

// Transition defines a valid state change: an event moves an invoice from Src to Dst.
type Transition struct {
	Event Event
	Src   InvoiceStatus
	Dst   InvoiceStatus
}

// InvoiceTransitions defines all valid state changes in the invoice
// lifecycle. The order is strict: no skipping, no going backward.
// This is domain knowledge consumed by the FSM adapter.
var InvoiceTransitions = []Transition{
	{Event: EventLock, Src: InvoiceDraft, Dst: InvoiceLocked},
	{Event: EventIssue, Src: InvoiceLocked, Dst: InvoiceIssued},
	{Event: EventMarkPaid, Src: InvoiceIssued, Dst: InvoicePaid},
}

// TenantInvoice is the invoice issued to a tenant organization.
// Once locked, its line items (managed elsewhere) must no longer be
// edited; downstream checks honor the status value as that flag.
type TenantInvoice struct {
	ID          string
	TenantOrgID string
	Status      InvoiceStatus
	LockedAt    *time.Time
	LockedBy    string
	IssuedAt    *time.Time
	PaidAt      *time.Time
	UpdatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTenantInvoice creates an invoice in the initial "draft" state.
func NewTenantInvoice(id, tenantOrgID string) TenantInvoice {
	now := time.Now().UTC()
	return TenantInvoice{
		ID:          id,
		TenantOrgID: tenantOrgID,
		Status:      InvoiceDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
