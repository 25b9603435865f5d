package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/wastebill/internal/domain"
)

// InvoiceResponse is the API representation of a tenant invoice.
type InvoiceResponse struct {
	ID          string `json:"id" doc:"Unique identifier"`
	TenantOrgID string `json:"tenant_org_id" doc:"Tenant organization"`
	Status      string `json:"status" doc:"Lifecycle state"`
	LockedAt    string `json:"locked_at,omitempty" doc:"Lock timestamp (ISO 8601)"`
	LockedBy    string `json:"locked_by,omitempty" doc:"Locking administrator"`
	IssuedAt    string `json:"issued_at,omitempty" doc:"Issue timestamp (ISO 8601)"`
	PaidAt      string `json:"paid_at,omitempty" doc:"Payment timestamp (ISO 8601)"`
	UpdatedBy   string `json:"updated_by,omitempty" doc:"Last updating user"`
	CreatedAt   string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt   string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toInvoiceResponse(inv domain.TenantInvoice) InvoiceResponse {
	return InvoiceResponse{
		ID:          inv.ID,
		TenantOrgID: inv.TenantOrgID,
		Status:      string(inv.Status),
		LockedAt:    formatTime(inv.LockedAt),
		LockedBy:    inv.LockedBy,
		IssuedAt:    formatTime(inv.IssuedAt),
		PaidAt:      formatTime(inv.PaidAt),
		UpdatedBy:   inv.UpdatedBy,
		CreatedAt:   inv.CreatedAt.Format(timeFormat),
		UpdatedAt:   inv.UpdatedAt.Format(timeFormat),
	}
}

// --- Create Invoice ---

type CreateInvoiceInput struct {
	Authorization string `header:"Authorization" doc:"Bearer session token"`
	Body          struct {
		TenantOrgID string `json:"tenant_org_id" minLength:"1" doc:"Tenant organization ID"`
	}
}

type CreateInvoiceOutput struct {
	Body InvoiceResponse
}

// --- Get Invoice ---

type GetInvoiceInput struct {
	Authorization string `header:"Authorization" doc:"Bearer session token"`
	ID            string `path:"id" doc:"Tenant invoice ID"`
}

type GetInvoiceOutput struct {
	Body InvoiceResponse
}

// --- List Invoices ---

type ListInvoicesInput struct {
	Authorization string `header:"Authorization" doc:"Bearer session token"`
	TenantOrgID   string `query:"tenant_org_id" required:"false" doc:"Filter by tenant organization"`
	Status        string `query:"status" required:"false" doc:"Filter by status"`
	Limit         int    `query:"limit" required:"false" default:"50" doc:"Max results"`
	Offset        int    `query:"offset" required:"false" default:"0" doc:"Pagination offset"`
}

type ListInvoicesOutput struct {
	Body []InvoiceResponse
}

// --- Transitions ---

type TransitionInvoiceInput struct {
	Authorization string `header:"Authorization" doc:"Bearer session token"`
	ID            string `path:"id" doc:"Tenant invoice ID"`
}

type TransitionInvoiceOutput struct {
	Body struct {
		Message string          `json:"message" doc:"Human-readable result"`
		Data    InvoiceResponse `json:"data" doc:"The invoice after the transition"`
	}
}

func (h *Handler) registerInvoiceRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-tenant-invoice",
		Method:      http.MethodPost,
		Path:        "/api/v1/tenant-invoices",
		Summary:     "Create a tenant invoice",
		Tags:        []string{"Tenant Invoices"},
	}, func(ctx context.Context, input *CreateInvoiceInput) (*CreateInvoiceOutput, error) {
		caller, err := h.authenticate(ctx, input.Authorization)
		if err != nil {
			return nil, toHumaError(err)
		}

		invoice, err := h.invoices.Create(ctx, caller, input.Body.TenantOrgID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateInvoiceOutput{Body: toInvoiceResponse(invoice)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-tenant-invoice",
		Method:      http.MethodGet,
		Path:        "/api/v1/tenant-invoices/{id}",
		Summary:     "Get a tenant invoice by ID",
		Tags:        []string{"Tenant Invoices"},
	}, func(ctx context.Context, input *GetInvoiceInput) (*GetInvoiceOutput, error) {
		caller, err := h.authenticate(ctx, input.Authorization)
		if err != nil {
			return nil, toHumaError(err)
		}

		invoice, err := h.invoices.GetByID(ctx, caller, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetInvoiceOutput{Body: toInvoiceResponse(invoice)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tenant-invoices",
		Method:      http.MethodGet,
		Path:        "/api/v1/tenant-invoices",
		Summary:     "List tenant invoices",
		Tags:        []string{"Tenant Invoices"},
	}, func(ctx context.Context, input *ListInvoicesInput) (*ListInvoicesOutput, error) {
		caller, err := h.authenticate(ctx, input.Authorization)
		if err != nil {
			return nil, toHumaError(err)
		}

		filter := domain.InvoiceFilter{
			TenantOrgID: input.TenantOrgID,
			Limit:       input.Limit,
			Offset:      input.Offset,
		}
		if input.Status != "" {
			s := domain.InvoiceStatus(input.Status)
			filter.Status = &s
		}

		invoices, err := h.invoices.List(ctx, caller, filter)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]InvoiceResponse, len(invoices))
		for i, inv := range invoices {
			resp[i] = toInvoiceResponse(inv)
		}
		return &ListInvoicesOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "lock-tenant-invoice",
		Method:      http.MethodPost,
		Path:        "/api/v1/tenant-invoices/{id}/lock",
		Summary:     "Lock a draft tenant invoice",
		Tags:        []string{"Tenant Invoices"},
	}, func(ctx context.Context, input *TransitionInvoiceInput) (*TransitionInvoiceOutput, error) {
		return h.transition(ctx, input, "tenant invoice locked", h.invoices.Lock)
	})

	huma.Register(api, huma.Operation{
		OperationID: "issue-tenant-invoice",
		Method:      http.MethodPost,
		Path:        "/api/v1/tenant-invoices/{id}/issue",
		Summary:     "Issue a locked tenant invoice",
		Tags:        []string{"Tenant Invoices"},
	}, func(ctx context.Context, input *TransitionInvoiceInput) (*TransitionInvoiceOutput, error) {
		return h.transition(ctx, input, "tenant invoice issued", h.invoices.Issue)
	})

	huma.Register(api, huma.Operation{
		OperationID: "mark-tenant-invoice-paid",
		Method:      http.MethodPatch,
		Path:        "/api/v1/tenant-invoices/{id}/paid",
		Summary:     "Mark an issued tenant invoice paid",
		Tags:        []string{"Tenant Invoices"},
	}, func(ctx context.Context, input *TransitionInvoiceInput) (*TransitionInvoiceOutput, error) {
		return h.transition(ctx, input, "tenant invoice marked paid", h.invoices.MarkPaid)
	})
}

func (h *Handler) transition(
	ctx context.Context,
	input *TransitionInvoiceInput,
	message string,
	op func(context.Context, domain.Caller, string) (domain.TenantInvoice, error),
) (*TransitionInvoiceOutput, error) {
	caller, err := h.authenticate(ctx, input.Authorization)
	if err != nil {
		return nil, toHumaError(err)
	}

	invoice, err := op(ctx, caller, input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}

	out := &TransitionInvoiceOutput{}
	out.Body.Message = message
	out.Body.Data = toInvoiceResponse(invoice)
	return out, nil
}
