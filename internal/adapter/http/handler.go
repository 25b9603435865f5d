package http

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/wastebill/internal/app"
	"github.com/neomorfeo/wastebill/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

// Handler bundles the services and the session resolver behind the API
// routes. Every operation resolves the bearer token itself; there is no
// hidden middleware identity.
type Handler struct {
	billing  *app.BillingService
	invoices *app.InvoiceService
	resolver domain.CallerResolver
}

// Register adds all API routes to the Huma API.
func Register(api huma.API, billing *app.BillingService, invoices *app.InvoiceService, resolver domain.CallerResolver) {
	h := &Handler{billing: billing, invoices: invoices, resolver: resolver}
	h.registerBillingRoutes(api)
	h.registerInvoiceRoutes(api)
}

// authenticate resolves the Authorization header to a caller.
func (h *Handler) authenticate(ctx context.Context, authorization string) (domain.Caller, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(authorization, prefix) {
		return domain.Caller{}, domain.ErrUnauthenticated
	}
	token := strings.TrimSpace(strings.TrimPrefix(authorization, prefix))
	if token == "" {
		return domain.Caller{}, domain.ErrUnauthenticated
	}
	return h.resolver.Resolve(ctx, token)
}

// toHumaError translates domain errors to Huma HTTP errors.
func toHumaError(err error) error {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return huma.Error401Unauthorized("authentication required")
	case errors.Is(err, domain.ErrForbidden):
		return huma.Error403Forbidden("forbidden")
	case errors.Is(err, domain.ErrItemNotFound):
		return huma.Error404NotFound("billing item not found")
	case errors.Is(err, domain.ErrSummaryNotFound):
		return huma.Error404NotFound("billing summary not found")
	case errors.Is(err, domain.ErrInvoiceNotFound):
		return huma.Error404NotFound("tenant invoice not found")
	}

	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		return huma.Error422UnprocessableEntity(valErr.Error())
	}

	// A transition refused because the invoice is not in the required
	// state reports 403, same as a privilege failure.
	var trErr *domain.TransitionError
	if errors.As(err, &trErr) {
		return huma.Error403Forbidden(trErr.Error())
	}

	return huma.Error500InternalServerError("internal server error")
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeFormat)
}
