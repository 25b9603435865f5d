package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/neomorfeo/wastebill/internal/adapter/sqlite"
	"github.com/neomorfeo/wastebill/internal/domain"
)

func mustCreateSummary(t *testing.T, repo *sqlite.BillingSummaryRepository, s domain.BillingSummary) {
	t.Helper()
	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("mustCreateSummary failed: %v", err)
	}
}

func TestSummaryCreate_And_GetByID(t *testing.T) {
	repo := newTestStore(t).BillingSummaries()

	mustCreateSummary(t, repo, domain.NewBillingSummary("s-1", "col-1", "2026-08"))

	got, err := repo.GetByID(context.Background(), "s-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.CollectorID != "col-1" {
		t.Errorf("CollectorID = %q, want %q", got.CollectorID, "col-1")
	}
	if got.Status != domain.SummaryDraft {
		t.Errorf("Status = %q, want %q", got.Status, domain.SummaryDraft)
	}
	if got.SubmittedAt != nil {
		t.Error("SubmittedAt should be nil before submission")
	}
}

func TestSummaryGetByID_NotFound(t *testing.T) {
	repo := newTestStore(t).BillingSummaries()

	_, err := repo.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, domain.ErrSummaryNotFound) {
		t.Errorf("expected ErrSummaryNotFound, got %v", err)
	}
}

func TestSubmitAll_Idempotent(t *testing.T) {
	repo := newTestStore(t).BillingSummaries()
	ctx := context.Background()

	mustCreateSummary(t, repo, domain.NewBillingSummary("s-1", "col-1", "2026-08"))

	first, err := repo.SubmitAll(ctx, []string{"s-1"}, "user-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("first SubmitAll failed: %v", err)
	}
	second, err := repo.SubmitAll(ctx, []string{"s-1"}, "user-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("second SubmitAll failed: %v", err)
	}

	if first != 1 {
		t.Errorf("first count = %d, want 1", first)
	}
	if second != 0 {
		t.Errorf("second count = %d, want 0", second)
	}

	got, _ := repo.GetByID(ctx, "s-1")
	if got.Status != domain.SummarySubmitted {
		t.Errorf("final status = %q, want %q", got.Status, domain.SummarySubmitted)
	}
	if got.SubmittedAt == nil {
		t.Error("SubmittedAt should be set")
	}
	if got.SubmittedBy != "user-1" {
		t.Errorf("SubmittedBy = %q, want %q", got.SubmittedBy, "user-1")
	}
}

func TestSubmitAll_OnlyDraftsMatch(t *testing.T) {
	repo := newTestStore(t).BillingSummaries()
	ctx := context.Background()

	mustCreateSummary(t, repo, domain.NewBillingSummary("s-1", "col-1", "2026-08"))
	mustCreateSummary(t, repo, domain.NewBillingSummary("s-2", "col-1", "2026-08"))

	if _, err := repo.SubmitAll(ctx, []string{"s-1"}, "user-1", time.Now().UTC()); err != nil {
		t.Fatalf("SubmitAll failed: %v", err)
	}

	// s-1 is already submitted, s-2 is still draft, s-3 does not exist.
	count, err := repo.SubmitAll(ctx, []string{"s-1", "s-2", "s-3"}, "user-2", time.Now().UTC())
	if err != nil {
		t.Fatalf("SubmitAll failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	s1, _ := repo.GetByID(ctx, "s-1")
	if s1.SubmittedBy != "user-1" {
		t.Errorf("already submitted summary was touched: SubmittedBy = %q", s1.SubmittedBy)
	}
}

func TestSummaryList_Filters(t *testing.T) {
	repo := newTestStore(t).BillingSummaries()
	ctx := context.Background()

	mustCreateSummary(t, repo, domain.NewBillingSummary("s-1", "col-1", "2026-07"))
	mustCreateSummary(t, repo, domain.NewBillingSummary("s-2", "col-1", "2026-08"))
	mustCreateSummary(t, repo, domain.NewBillingSummary("s-3", "col-2", "2026-08"))

	byCollector, err := repo.List(ctx, domain.SummaryFilter{CollectorID: "col-1"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byCollector) != 2 {
		t.Errorf("collector filter: got %d, want 2", len(byCollector))
	}

	status := domain.SummaryDraft
	drafts, err := repo.List(ctx, domain.SummaryFilter{Status: &status, BillingPeriod: "2026-08"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(drafts) != 2 {
		t.Errorf("draft+period filter: got %d, want 2", len(drafts))
	}
}
