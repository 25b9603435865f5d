package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/neomorfeo/wastebill/internal/domain"
)

// BillingSummaryRepository implements domain.BillingSummaryRepository using SQLite.
type BillingSummaryRepository struct {
	db *sql.DB
}

// Compile-time check: BillingSummaryRepository implements the domain port.
var _ domain.BillingSummaryRepository = (*BillingSummaryRepository)(nil)

const summaryColumns = `id, collector_id, billing_period, status, submitted_at,
	 submitted_by, created_at, updated_at`

func (r *BillingSummaryRepository) Create(ctx context.Context, s domain.BillingSummary) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO billing_summaries (id, collector_id, billing_period, status,
		   submitted_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.CollectorID, s.BillingPeriod, string(s.Status), s.SubmittedBy,
		s.CreatedAt.Format(timeFormat), s.UpdatedAt.Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("inserting billing summary: %w", err)
	}
	return nil
}

func (r *BillingSummaryRepository) GetByID(ctx context.Context, id string) (domain.BillingSummary, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+summaryColumns+` FROM billing_summaries WHERE id = ? AND deleted_at IS NULL`, id)

	s, err := scanSummary(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.BillingSummary{}, domain.ErrSummaryNotFound
		}
		return domain.BillingSummary{}, fmt.Errorf("scanning billing summary: %w", err)
	}
	return s, nil
}

func (r *BillingSummaryRepository) List(ctx context.Context, filter domain.SummaryFilter) ([]domain.BillingSummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM billing_summaries WHERE deleted_at IS NULL`
	var args []any

	if filter.CollectorID != "" {
		query += ` AND collector_id = ?`
		args = append(args, filter.CollectorID)
	}
	if filter.BillingPeriod != "" {
		query += ` AND billing_period = ?`
		args = append(args, filter.BillingPeriod)
	}
	if filter.Status != nil {
		query += ` AND status = ?`
		args = append(args, string(*filter.Status))
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing billing summaries: %w", err)
	}
	defer rows.Close()

	var summaries []domain.BillingSummary
	for rows.Next() {
		s, err := scanSummary(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning billing summary row: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// SubmitAll matches only rows still in draft, so re-submitting already
// submitted ids yields zero without an error.
func (r *BillingSummaryRepository) SubmitAll(ctx context.Context, ids []string, submitterID string, at time.Time) (int64, error) {
	args := []any{string(domain.SummarySubmitted), at.Format(timeFormat), submitterID, at.Format(timeFormat), string(domain.SummaryDraft)}
	args = inArgs(args, ids)

	result, err := r.db.ExecContext(ctx,
		`UPDATE billing_summaries
		 SET status = ?, submitted_at = ?, submitted_by = ?, updated_at = ?
		 WHERE status = ? AND id IN (`+placeholders(len(ids))+`) AND deleted_at IS NULL`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("submitting billing summaries: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return count, nil
}

func scanSummary(scan func(...any) error) (domain.BillingSummary, error) {
	var s domain.BillingSummary
	var status, createdAt, updatedAt string
	var submittedAt sql.NullString

	err := scan(&s.ID, &s.CollectorID, &s.BillingPeriod, &status, &submittedAt,
		&s.SubmittedBy, &createdAt, &updatedAt)
	if err != nil {
		return domain.BillingSummary{}, err
	}

	s.Status = domain.SummaryStatus(status)
	s.SubmittedAt = parseNullableTime(submittedAt)
	s.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	s.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)

	return s, nil
}
