package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/neomorfeo/wastebill/internal/adapter/sqlite"
	"github.com/neomorfeo/wastebill/internal/domain"
)

func mustCreateInvoice(t *testing.T, repo *sqlite.TenantInvoiceRepository, inv domain.TenantInvoice) {
	t.Helper()
	if err := repo.Create(context.Background(), inv); err != nil {
		t.Fatalf("mustCreateInvoice failed: %v", err)
	}
}

func TestInvoiceCreate_And_GetByID(t *testing.T) {
	repo := newTestStore(t).TenantInvoices()

	mustCreateInvoice(t, repo, domain.NewTenantInvoice("inv-1", "org-1"))

	got, err := repo.GetByID(context.Background(), "inv-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.TenantOrgID != "org-1" {
		t.Errorf("TenantOrgID = %q, want %q", got.TenantOrgID, "org-1")
	}
	if got.Status != domain.InvoiceDraft {
		t.Errorf("Status = %q, want %q", got.Status, domain.InvoiceDraft)
	}
	if got.LockedAt != nil || got.IssuedAt != nil || got.PaidAt != nil {
		t.Error("transition timestamps should be nil on a fresh invoice")
	}
}

func TestInvoiceGetByID_NotFound(t *testing.T) {
	repo := newTestStore(t).TenantInvoices()

	_, err := repo.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, domain.ErrInvoiceNotFound) {
		t.Errorf("expected ErrInvoiceNotFound, got %v", err)
	}
}

func TestTransitionFrom_Succeeds(t *testing.T) {
	repo := newTestStore(t).TenantInvoices()
	ctx := context.Background()

	inv := domain.NewTenantInvoice("inv-1", "org-1")
	mustCreateInvoice(t, repo, inv)

	now := time.Now().UTC().Truncate(time.Second)
	inv.Status = domain.InvoiceLocked
	inv.LockedAt = &now
	inv.LockedBy = "admin-1"
	inv.UpdatedAt = now
	inv.UpdatedBy = "admin-1"

	if err := repo.TransitionFrom(ctx, inv, domain.InvoiceDraft); err != nil {
		t.Fatalf("TransitionFrom failed: %v", err)
	}

	got, _ := repo.GetByID(ctx, "inv-1")
	if got.Status != domain.InvoiceLocked {
		t.Errorf("Status = %q, want %q", got.Status, domain.InvoiceLocked)
	}
	if got.LockedAt == nil || !got.LockedAt.Equal(now) {
		t.Errorf("LockedAt = %v, want %v", got.LockedAt, now)
	}
	if got.LockedBy != "admin-1" {
		t.Errorf("LockedBy = %q, want %q", got.LockedBy, "admin-1")
	}
}

func TestTransitionFrom_StatusConflict(t *testing.T) {
	repo := newTestStore(t).TenantInvoices()
	ctx := context.Background()

	inv := domain.NewTenantInvoice("inv-1", "org-1")
	mustCreateInvoice(t, repo, inv)

	first := inv
	first.Status = domain.InvoiceLocked
	if err := repo.TransitionFrom(ctx, first, domain.InvoiceDraft); err != nil {
		t.Fatalf("first transition failed: %v", err)
	}

	// A second writer still believing the invoice is draft must lose.
	second := inv
	second.Status = domain.InvoiceLocked
	err := repo.TransitionFrom(ctx, second, domain.InvoiceDraft)
	if !errors.Is(err, domain.ErrStatusConflict) {
		t.Fatalf("expected ErrStatusConflict, got %v", err)
	}

	got, _ := repo.GetByID(ctx, "inv-1")
	if got.Status != domain.InvoiceLocked {
		t.Errorf("Status = %q, want %q", got.Status, domain.InvoiceLocked)
	}
}

func TestTransitionFrom_NotFound(t *testing.T) {
	repo := newTestStore(t).TenantInvoices()

	inv := domain.NewTenantInvoice("ghost", "org-1")
	inv.Status = domain.InvoiceLocked

	err := repo.TransitionFrom(context.Background(), inv, domain.InvoiceDraft)
	if !errors.Is(err, domain.ErrInvoiceNotFound) {
		t.Errorf("expected ErrInvoiceNotFound, got %v", err)
	}
}

func TestInvoiceList_FilterByStatus(t *testing.T) {
	repo := newTestStore(t).TenantInvoices()
	ctx := context.Background()

	a := domain.NewTenantInvoice("inv-1", "org-1")
	b := domain.NewTenantInvoice("inv-2", "org-2")
	mustCreateInvoice(t, repo, a)
	mustCreateInvoice(t, repo, b)

	locked := b
	locked.Status = domain.InvoiceLocked
	if err := repo.TransitionFrom(ctx, locked, domain.InvoiceDraft); err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	status := domain.InvoiceLocked
	got, err := repo.List(ctx, domain.InvoiceFilter{Status: &status})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "inv-2" {
		t.Errorf("got %v, want just inv-2", got)
	}

	byOrg, err := repo.List(ctx, domain.InvoiceFilter{TenantOrgID: "org-1"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byOrg) != 1 || byOrg[0].ID != "inv-1" {
		t.Errorf("got %v, want just inv-1", byOrg)
	}
}
