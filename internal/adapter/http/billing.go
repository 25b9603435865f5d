package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/neomorfeo/wastebill/internal/domain"
)

// ItemResponse is the API representation of a billing item.
type ItemResponse struct {
	ID               string `json:"id" doc:"Unique identifier"`
	OrganizationID   string `json:"organization_id" doc:"Owning organization"`
	BillingMonth     string `json:"billing_month" doc:"Billing month (YYYY-MM)"`
	ItemName         string `json:"item_name" doc:"Line item name"`
	Amount           string `json:"amount" doc:"Amount as a decimal string"`
	CommissionType   string `json:"commission_type,omitempty" doc:"Commission model (fixed or rate)"`
	CommissionAmount string `json:"commission_amount,omitempty" doc:"Commission value as a decimal string"`
	Status           string `json:"status" doc:"Lifecycle state"`
	ApprovedAt       string `json:"approved_at,omitempty" doc:"Approval timestamp (ISO 8601)"`
	ApprovedBy       string `json:"approved_by,omitempty" doc:"Approving user"`
	CreatedAt        string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt        string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toItemResponse(item domain.BillingItem) ItemResponse {
	resp := ItemResponse{
		ID:             item.ID,
		OrganizationID: item.OrganizationID,
		BillingMonth:   item.BillingMonth,
		ItemName:       item.ItemName,
		Amount:         item.Amount.String(),
		CommissionType: string(item.CommissionType),
		Status:         string(item.Status),
		ApprovedAt:     formatTime(item.ApprovedAt),
		ApprovedBy:     item.ApprovedBy,
		CreatedAt:      item.CreatedAt.Format(timeFormat),
		UpdatedAt:      item.UpdatedAt.Format(timeFormat),
	}
	if item.CommissionAmount != nil {
		resp.CommissionAmount = item.CommissionAmount.String()
	}
	return resp
}

// SummaryResponse is the API representation of a billing summary.
type SummaryResponse struct {
	ID            string `json:"id" doc:"Unique identifier"`
	CollectorID   string `json:"collector_id" doc:"Collector the summary aggregates"`
	BillingPeriod string `json:"billing_period" doc:"Billing period (YYYY-MM)"`
	Status        string `json:"status" doc:"Lifecycle state"`
	SubmittedAt   string `json:"submitted_at,omitempty" doc:"Submission timestamp (ISO 8601)"`
	SubmittedBy   string `json:"submitted_by,omitempty" doc:"Submitting user"`
	CreatedAt     string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt     string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toSummaryResponse(s domain.BillingSummary) SummaryResponse {
	return SummaryResponse{
		ID:            s.ID,
		CollectorID:   s.CollectorID,
		BillingPeriod: s.BillingPeriod,
		Status:        string(s.Status),
		SubmittedAt:   formatTime(s.SubmittedAt),
		SubmittedBy:   s.SubmittedBy,
		CreatedAt:     s.CreatedAt.Format(timeFormat),
		UpdatedAt:     s.UpdatedAt.Format(timeFormat),
	}
}

// --- Approve Items ---

type ApproveItemsInput struct {
	Authorization string `header:"Authorization" doc:"Bearer session token"`
	Body          struct {
		ItemIDs []string `json:"item_ids" doc:"Billing item IDs to approve"`
	}
}

type ApproveItemsOutput struct {
	Body struct {
		Success bool   `json:"success" doc:"Whether the update was applied"`
		Count   int64  `json:"count" doc:"Number of items updated"`
		Message string `json:"message" doc:"Human-readable result"`
	}
}

// --- Submit Summaries ---

type SubmitSummariesInput struct {
	Authorization string `header:"Authorization" doc:"Bearer session token"`
	Body          struct {
		BillingSummaryIDs []string `json:"billing_summary_ids" doc:"Billing summary IDs to submit"`
	}
}

type SubmitSummariesOutput struct {
	Body struct {
		Message string `json:"message" doc:"Human-readable result"`
		Count   int64  `json:"count" doc:"Number of summaries updated"`
	}
}

// --- Create Item ---

type CreateItemInput struct {
	Authorization string `header:"Authorization" doc:"Bearer session token"`
	Body          struct {
		OrganizationID   string `json:"organization_id" minLength:"1" doc:"Owning organization ID"`
		BillingMonth     string `json:"billing_month" minLength:"7" maxLength:"7" doc:"Billing month (YYYY-MM)"`
		ItemName         string `json:"item_name" minLength:"1" maxLength:"255" doc:"Line item name"`
		Amount           string `json:"amount" minLength:"1" doc:"Amount as a decimal string"`
		CommissionType   string `json:"commission_type,omitempty" doc:"Commission model (fixed or rate)"`
		CommissionAmount string `json:"commission_amount,omitempty" doc:"Commission value as a decimal string"`
	}
}

type CreateItemOutput struct {
	Body ItemResponse
}

// --- Delete Item ---

type DeleteItemInput struct {
	Authorization string `header:"Authorization" doc:"Bearer session token"`
	ID            string `path:"id" doc:"Billing item ID"`
}

type DeleteItemOutput struct {
	Body struct {
		Message string `json:"message" doc:"Human-readable result"`
	}
}

// --- List Items ---

type ListItemsInput struct {
	Authorization  string `header:"Authorization" doc:"Bearer session token"`
	OrganizationID string `query:"organization_id" required:"false" doc:"Filter by organization"`
	BillingMonth   string `query:"billing_month" required:"false" doc:"Filter by billing month (YYYY-MM)"`
	Status         string `query:"status" required:"false" doc:"Filter by status"`
	Limit          int    `query:"limit" required:"false" default:"50" doc:"Max results"`
	Offset         int    `query:"offset" required:"false" default:"0" doc:"Pagination offset"`
}

type ListItemsOutput struct {
	Body []ItemResponse
}

// --- Create Summary ---

type CreateSummaryInput struct {
	Authorization string `header:"Authorization" doc:"Bearer session token"`
	Body          struct {
		CollectorID   string `json:"collector_id" minLength:"1" doc:"Collector ID"`
		BillingPeriod string `json:"billing_period" minLength:"7" maxLength:"7" doc:"Billing period (YYYY-MM)"`
	}
}

type CreateSummaryOutput struct {
	Body SummaryResponse
}

// --- List Summaries ---

type ListSummariesInput struct {
	Authorization string `header:"Authorization" doc:"Bearer session token"`
	CollectorID   string `query:"collector_id" required:"false" doc:"Filter by collector"`
	BillingPeriod string `query:"billing_period" required:"false" doc:"Filter by billing period (YYYY-MM)"`
	Status        string `query:"status" required:"false" doc:"Filter by status"`
	Limit         int    `query:"limit" required:"false" default:"50" doc:"Max results"`
	Offset        int    `query:"offset" required:"false" default:"0" doc:"Pagination offset"`
}

type ListSummariesOutput struct {
	Body []SummaryResponse
}

func (h *Handler) registerBillingRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "approve-billing-items",
		Method:      http.MethodPost,
		Path:        "/api/v1/billing-items/approve",
		Summary:     "Approve billing items in bulk",
		Tags:        []string{"Billing Items"},
	}, func(ctx context.Context, input *ApproveItemsInput) (*ApproveItemsOutput, error) {
		caller, err := h.authenticate(ctx, input.Authorization)
		if err != nil {
			return nil, toHumaError(err)
		}

		count, err := h.billing.ApproveItems(ctx, caller, input.Body.ItemIDs)
		if err != nil {
			return nil, toHumaError(err)
		}

		out := &ApproveItemsOutput{}
		out.Body.Success = true
		out.Body.Count = count
		out.Body.Message = "billing items approved"
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "submit-billing-summaries",
		Method:      http.MethodPost,
		Path:        "/api/v1/billing-summaries/submit",
		Summary:     "Submit draft billing summaries in bulk",
		Tags:        []string{"Billing Summaries"},
	}, func(ctx context.Context, input *SubmitSummariesInput) (*SubmitSummariesOutput, error) {
		caller, err := h.authenticate(ctx, input.Authorization)
		if err != nil {
			return nil, toHumaError(err)
		}

		count, err := h.billing.SubmitSummaries(ctx, caller, input.Body.BillingSummaryIDs)
		if err != nil {
			return nil, toHumaError(err)
		}

		out := &SubmitSummariesOutput{}
		out.Body.Message = "billing summaries submitted"
		out.Body.Count = count
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-billing-item",
		Method:      http.MethodPost,
		Path:        "/api/v1/billing-items",
		Summary:     "Create a billing item",
		Tags:        []string{"Billing Items"},
	}, func(ctx context.Context, input *CreateItemInput) (*CreateItemOutput, error) {
		caller, err := h.authenticate(ctx, input.Authorization)
		if err != nil {
			return nil, toHumaError(err)
		}

		amount, err := decimal.NewFromString(input.Body.Amount)
		if err != nil {
			return nil, toHumaError(&domain.ValidationError{Field: "amount", Reason: "must be a decimal number"})
		}

		var commissionAmount *decimal.Decimal
		if input.Body.CommissionAmount != "" {
			ca, err := decimal.NewFromString(input.Body.CommissionAmount)
			if err != nil {
				return nil, toHumaError(&domain.ValidationError{Field: "commission_amount", Reason: "must be a decimal number"})
			}
			commissionAmount = &ca
		}

		item, err := h.billing.CreateItem(ctx, caller,
			input.Body.OrganizationID, input.Body.BillingMonth, input.Body.ItemName,
			amount, domain.CommissionType(input.Body.CommissionType), commissionAmount)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateItemOutput{Body: toItemResponse(item)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-billing-item",
		Method:      http.MethodDelete,
		Path:        "/api/v1/billing-items/{id}",
		Summary:     "Soft-delete a billing item",
		Tags:        []string{"Billing Items"},
	}, func(ctx context.Context, input *DeleteItemInput) (*DeleteItemOutput, error) {
		caller, err := h.authenticate(ctx, input.Authorization)
		if err != nil {
			return nil, toHumaError(err)
		}

		if err := h.billing.DeleteItem(ctx, caller, input.ID); err != nil {
			return nil, toHumaError(err)
		}

		out := &DeleteItemOutput{}
		out.Body.Message = "billing item deleted"
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-billing-items",
		Method:      http.MethodGet,
		Path:        "/api/v1/billing-items",
		Summary:     "List billing items",
		Tags:        []string{"Billing Items"},
	}, func(ctx context.Context, input *ListItemsInput) (*ListItemsOutput, error) {
		caller, err := h.authenticate(ctx, input.Authorization)
		if err != nil {
			return nil, toHumaError(err)
		}

		filter := domain.ItemFilter{
			OrganizationID: input.OrganizationID,
			BillingMonth:   input.BillingMonth,
			Limit:          input.Limit,
			Offset:         input.Offset,
		}
		if input.Status != "" {
			s := domain.ItemStatus(input.Status)
			filter.Status = &s
		}

		items, err := h.billing.ListItems(ctx, caller, filter)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]ItemResponse, len(items))
		for i, item := range items {
			resp[i] = toItemResponse(item)
		}
		return &ListItemsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-billing-summary",
		Method:      http.MethodPost,
		Path:        "/api/v1/billing-summaries",
		Summary:     "Create a billing summary",
		Tags:        []string{"Billing Summaries"},
	}, func(ctx context.Context, input *CreateSummaryInput) (*CreateSummaryOutput, error) {
		caller, err := h.authenticate(ctx, input.Authorization)
		if err != nil {
			return nil, toHumaError(err)
		}

		summary, err := h.billing.CreateSummary(ctx, caller, input.Body.CollectorID, input.Body.BillingPeriod)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateSummaryOutput{Body: toSummaryResponse(summary)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-billing-summaries",
		Method:      http.MethodGet,
		Path:        "/api/v1/billing-summaries",
		Summary:     "List billing summaries",
		Tags:        []string{"Billing Summaries"},
	}, func(ctx context.Context, input *ListSummariesInput) (*ListSummariesOutput, error) {
		caller, err := h.authenticate(ctx, input.Authorization)
		if err != nil {
			return nil, toHumaError(err)
		}

		filter := domain.SummaryFilter{
			CollectorID:   input.CollectorID,
			BillingPeriod: input.BillingPeriod,
			Limit:         input.Limit,
			Offset:        input.Offset,
		}
		if input.Status != "" {
			s := domain.SummaryStatus(input.Status)
			filter.Status = &s
		}

		summaries, err := h.billing.ListSummaries(ctx, caller, filter)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]SummaryResponse, len(summaries))
		for i, s := range summaries {
			resp[i] = toSummaryResponse(s)
		}
		return &ListSummariesOutput{Body: resp}, nil
	})
}
