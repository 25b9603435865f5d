package river

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/wastebill/internal/domain"
)

// Compile-time check: Publisher implements domain.EventPublisher.
var _ domain.EventPublisher = (*Publisher)(nil)

// BillingEventArgs carries the data needed to process a billing event
// asynchronously. River serializes this as JSON into its job queue table.
// It snapshots everything the worker needs, so the worker never queries
// the database.
type BillingEventArgs struct {
	Event     string   `json:"event"`
	ActorID   string   `json:"actor_id"`
	InvoiceID string   `json:"invoice_id,omitempty"`
	EntityIDs []string `json:"entity_ids,omitempty"`
	Count     int64    `json:"count"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (BillingEventArgs) Kind() string { return "billing.event" }

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Publisher implements domain.EventPublisher by enqueuing River jobs.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher backed by the given River client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish enqueues a billing event as an async job in River.
func (p *Publisher) Publish(ctx context.Context, event domain.Event, ref domain.EventRef) error {
	_, err := p.client.Insert(ctx, BillingEventArgs{
		Event:     string(event),
		ActorID:   ref.ActorID,
		InvoiceID: ref.InvoiceID,
		EntityIDs: ref.EntityIDs,
		Count:     ref.Count,
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing billing event job: %w", err)
	}
	return nil
}
