package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/wastebill/internal/domain"
)

const tracerName = "github.com/neomorfeo/wastebill/internal/adapter/otel"

// TracingItemRepository wraps a domain.BillingItemRepository with
// OpenTelemetry tracing. Each method creates a span with semantic
// attributes and records errors.
type TracingItemRepository struct {
	next   domain.BillingItemRepository
	tracer trace.Tracer
}

// Compile-time check: TracingItemRepository implements domain.BillingItemRepository.
var _ domain.BillingItemRepository = (*TracingItemRepository)(nil)

// NewTracingItemRepository creates a tracing decorator around the given repository.
func NewTracingItemRepository(next domain.BillingItemRepository) *TracingItemRepository {
	return &TracingItemRepository{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingItemRepository) Create(ctx context.Context, item domain.BillingItem) error {
	ctx, span := r.tracer.Start(ctx, "BillingItemRepository.Create",
		trace.WithAttributes(
			attribute.String("item.id", item.ID),
			attribute.String("item.organization_id", item.OrganizationID),
		),
	)
	defer span.End()

	err := r.next.Create(ctx, item)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *TracingItemRepository) GetByID(ctx context.Context, id string) (domain.BillingItem, error) {
	ctx, span := r.tracer.Start(ctx, "BillingItemRepository.GetByID",
		trace.WithAttributes(attribute.String("item.id", id)),
	)
	defer span.End()

	item, err := r.next.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return item, err
}

func (r *TracingItemRepository) List(ctx context.Context, filter domain.ItemFilter) ([]domain.BillingItem, error) {
	ctx, span := r.tracer.Start(ctx, "BillingItemRepository.List",
		trace.WithAttributes(
			attribute.Int("filter.limit", filter.Limit),
			attribute.Int("filter.offset", filter.Offset),
		),
	)
	defer span.End()

	items, err := r.next.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("result.count", len(items)))
	}
	return items, err
}

func (r *TracingItemRepository) ApproveAll(ctx context.Context, ids []string, approverID string, at time.Time) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "BillingItemRepository.ApproveAll",
		trace.WithAttributes(
			attribute.Int("request.count", len(ids)),
			attribute.String("approver.id", approverID),
		),
	)
	defer span.End()

	count, err := r.next.ApproveAll(ctx, ids, approverID, at)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int64("result.count", count))
	}
	return count, err
}

func (r *TracingItemRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	ctx, span := r.tracer.Start(ctx, "BillingItemRepository.SoftDelete",
		trace.WithAttributes(attribute.String("item.id", id)),
	)
	defer span.End()

	err := r.next.SoftDelete(ctx, id, at)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// TracingSummaryRepository wraps a domain.BillingSummaryRepository with
// OpenTelemetry tracing.
type TracingSummaryRepository struct {
	next   domain.BillingSummaryRepository
	tracer trace.Tracer
}

var _ domain.BillingSummaryRepository = (*TracingSummaryRepository)(nil)

// NewTracingSummaryRepository creates a tracing decorator around the given repository.
func NewTracingSummaryRepository(next domain.BillingSummaryRepository) *TracingSummaryRepository {
	return &TracingSummaryRepository{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingSummaryRepository) Create(ctx context.Context, summary domain.BillingSummary) error {
	ctx, span := r.tracer.Start(ctx, "BillingSummaryRepository.Create",
		trace.WithAttributes(
			attribute.String("summary.id", summary.ID),
			attribute.String("summary.collector_id", summary.CollectorID),
		),
	)
	defer span.End()

	err := r.next.Create(ctx, summary)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *TracingSummaryRepository) GetByID(ctx context.Context, id string) (domain.BillingSummary, error) {
	ctx, span := r.tracer.Start(ctx, "BillingSummaryRepository.GetByID",
		trace.WithAttributes(attribute.String("summary.id", id)),
	)
	defer span.End()

	summary, err := r.next.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return summary, err
}

func (r *TracingSummaryRepository) List(ctx context.Context, filter domain.SummaryFilter) ([]domain.BillingSummary, error) {
	ctx, span := r.tracer.Start(ctx, "BillingSummaryRepository.List",
		trace.WithAttributes(
			attribute.Int("filter.limit", filter.Limit),
			attribute.Int("filter.offset", filter.Offset),
		),
	)
	defer span.End()

	summaries, err := r.next.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("result.count", len(summaries)))
	}
	return summaries, err
}

func (r *TracingSummaryRepository) SubmitAll(ctx context.Context, ids []string, submitterID string, at time.Time) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "BillingSummaryRepository.SubmitAll",
		trace.WithAttributes(
			attribute.Int("request.count", len(ids)),
			attribute.String("submitter.id", submitterID),
		),
	)
	defer span.End()

	count, err := r.next.SubmitAll(ctx, ids, submitterID, at)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int64("result.count", count))
	}
	return count, err
}

// TracingInvoiceRepository wraps a domain.TenantInvoiceRepository with
// OpenTelemetry tracing.
type TracingInvoiceRepository struct {
	next   domain.TenantInvoiceRepository
	tracer trace.Tracer
}

var _ domain.TenantInvoiceRepository = (*TracingInvoiceRepository)(nil)

// NewTracingInvoiceRepository creates a tracing decorator around the given repository.
func NewTracingInvoiceRepository(next domain.TenantInvoiceRepository) *TracingInvoiceRepository {
	return &TracingInvoiceRepository{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingInvoiceRepository) Create(ctx context.Context, invoice domain.TenantInvoice) error {
	ctx, span := r.tracer.Start(ctx, "TenantInvoiceRepository.Create",
		trace.WithAttributes(
			attribute.String("invoice.id", invoice.ID),
			attribute.String("invoice.tenant_org_id", invoice.TenantOrgID),
		),
	)
	defer span.End()

	err := r.next.Create(ctx, invoice)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *TracingInvoiceRepository) GetByID(ctx context.Context, id string) (domain.TenantInvoice, error) {
	ctx, span := r.tracer.Start(ctx, "TenantInvoiceRepository.GetByID",
		trace.WithAttributes(attribute.String("invoice.id", id)),
	)
	defer span.End()

	invoice, err := r.next.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return invoice, err
}

func (r *TracingInvoiceRepository) List(ctx context.Context, filter domain.InvoiceFilter) ([]domain.TenantInvoice, error) {
	ctx, span := r.tracer.Start(ctx, "TenantInvoiceRepository.List",
		trace.WithAttributes(
			attribute.Int("filter.limit", filter.Limit),
			attribute.Int("filter.offset", filter.Offset),
		),
	)
	defer span.End()

	if filter.Status != nil {
		span.SetAttributes(attribute.String("filter.status", string(*filter.Status)))
	}

	invoices, err := r.next.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("result.count", len(invoices)))
	}
	return invoices, err
}

func (r *TracingInvoiceRepository) TransitionFrom(ctx context.Context, invoice domain.TenantInvoice, from domain.InvoiceStatus) error {
	ctx, span := r.tracer.Start(ctx, "TenantInvoiceRepository.TransitionFrom",
		trace.WithAttributes(
			attribute.String("invoice.id", invoice.ID),
			attribute.String("invoice.status", string(invoice.Status)),
			attribute.String("invoice.status_from", string(from)),
		),
	)
	defer span.End()

	err := r.next.TransitionFrom(ctx, invoice, from)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
