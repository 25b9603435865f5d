package river

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"
)

// BillingEventWorker processes billing event jobs from the River queue.
// For now it logs the event; future versions will dispatch to invoice
// PDF generation, notification systems, or an accounting export.
type BillingEventWorker struct {
	river.WorkerDefaults[BillingEventArgs]
}

// Work processes a single billing event job.
func (w *BillingEventWorker) Work(ctx context.Context, job *river.Job[BillingEventArgs]) error {
	slog.InfoContext(ctx, "processing billing event",
		"event", job.Args.Event,
		"actor_id", job.Args.ActorID,
		"invoice_id", job.Args.InvoiceID,
		"count", job.Args.Count,
		"job_id", job.ID,
		"attempt", job.Attempt,
	)
	return nil
}
