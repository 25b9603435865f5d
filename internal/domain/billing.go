package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemStatus represents the lifecycle state of a billing item.
type ItemStatus string

const (
	ItemDraft    ItemStatus = "draft"
	ItemApproved ItemStatus = "approved"
	ItemPaid     ItemStatus = "paid"
)

// SummaryStatus represents the lifecycle state of a billing summary.
// Accepted is reached by a downstream acceptance flow and is only read here.
type SummaryStatus string

const (
	SummaryDraft     SummaryStatus = "draft"
	SummarySubmitted SummaryStatus = "submitted"
	SummaryAccepted  SummaryStatus = "accepted"
)

// CommissionType classifies how a billing item's commission is computed.
type CommissionType string

const (
	CommissionFixed CommissionType = "fixed"
	CommissionRate  CommissionType = "rate"
)

// BillingItem is one chargeable line entry for an organization within a
// billing month. Items are never hard-deleted; DeletedAt marks them
// inactive and excludes them from every query and update.
type BillingItem struct {
	ID               string
	OrganizationID   string
	BillingMonth     string // "YYYY-MM"
	ItemName         string
	Amount           decimal.Decimal
	CommissionType   CommissionType // empty when no commission applies
	CommissionAmount *decimal.Decimal
	Status           ItemStatus
	ApprovedAt       *time.Time
	ApprovedBy       string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

// NewBillingItem creates a billing item in the initial "draft" state.
func NewBillingItem(id, organizationID, billingMonth, itemName string, amount decimal.Decimal) BillingItem {
	now := time.Now().UTC()
	return BillingItem{
		ID:             id,
		OrganizationID: organizationID,
		BillingMonth:   billingMonth,
		ItemName:       itemName,
		Amount:         amount,
		Status:         ItemDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// BillingSummary is the aggregate billing record per collector per period,
// rolled up from items by a separate aggregation process.
type BillingSummary struct {
	ID            string
	CollectorID   string
	BillingPeriod string // "YYYY-MM"
	Status        SummaryStatus
	SubmittedAt   *time.Time
	SubmittedBy   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

// NewBillingSummary creates a billing summary in the initial "draft" state.
func NewBillingSummary(id, collectorID, billingPeriod string) BillingSummary {
	now := time.Now().UTC()
	return BillingSummary{
		ID:            id,
		CollectorID:   collectorID,
		BillingPeriod: billingPeriod,
		Status:        SummaryDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
