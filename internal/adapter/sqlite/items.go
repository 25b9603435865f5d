package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/neomorfeo/wastebill/internal/domain"
)

// BillingItemRepository implements domain.BillingItemRepository using SQLite.
// Every query carries the deleted_at IS NULL predicate so soft-deleted rows
// are invisible to all reads and updates.
type BillingItemRepository struct {
	db *sql.DB
}

// Compile-time check: BillingItemRepository implements the domain port.
var _ domain.BillingItemRepository = (*BillingItemRepository)(nil)

const itemColumns = `id, organization_id, billing_month, item_name, amount,
	 commission_type, commission_amount, status, approved_at, approved_by,
	 created_at, updated_at`

func (r *BillingItemRepository) Create(ctx context.Context, item domain.BillingItem) error {
	var commissionAmount any
	if item.CommissionAmount != nil {
		commissionAmount = item.CommissionAmount.String()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO billing_items (id, organization_id, billing_month, item_name, amount,
		   commission_type, commission_amount, status, approved_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.OrganizationID, item.BillingMonth, item.ItemName, item.Amount.String(),
		string(item.CommissionType), commissionAmount, string(item.Status), item.ApprovedBy,
		item.CreatedAt.Format(timeFormat), item.UpdatedAt.Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("inserting billing item: %w", err)
	}
	return nil
}

func (r *BillingItemRepository) GetByID(ctx context.Context, id string) (domain.BillingItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM billing_items WHERE id = ? AND deleted_at IS NULL`, id)

	item, err := scanItem(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.BillingItem{}, domain.ErrItemNotFound
		}
		return domain.BillingItem{}, fmt.Errorf("scanning billing item: %w", err)
	}
	return item, nil
}

func (r *BillingItemRepository) List(ctx context.Context, filter domain.ItemFilter) ([]domain.BillingItem, error) {
	query := `SELECT ` + itemColumns + ` FROM billing_items WHERE deleted_at IS NULL`
	var args []any

	if filter.OrganizationID != "" {
		query += ` AND organization_id = ?`
		args = append(args, filter.OrganizationID)
	}
	if filter.BillingMonth != "" {
		query += ` AND billing_month = ?`
		args = append(args, filter.BillingMonth)
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
		return nil, fmt.Errorf("listing billing items: %w", err)
	}
	defer rows.Close()

	var items []domain.BillingItem
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning billing item row: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// ApproveAll overwrites the approval fields of every matching, non-deleted
// item in a single statement. It does not filter by current status.
func (r *BillingItemRepository) ApproveAll(ctx context.Context, ids []string, approverID string, at time.Time) (int64, error) {
	args := []any{string(domain.ItemApproved), at.Format(timeFormat), approverID, at.Format(timeFormat)}
	args = inArgs(args, ids)

	result, err := r.db.ExecContext(ctx,
		`UPDATE billing_items
		 SET status = ?, approved_at = ?, approved_by = ?, updated_at = ?
		 WHERE id IN (`+placeholders(len(ids))+`) AND deleted_at IS NULL`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("approving billing items: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return count, nil
}

func (r *BillingItemRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE billing_items SET deleted_at = ?, updated_at = ?
		 WHERE id = ? AND deleted_at IS NULL`,
		at.Format(timeFormat), at.Format(timeFormat), id,
	)
	if err != nil {
		return fmt.Errorf("soft-deleting billing item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		// Already-deleted rows keep their original deletion time.
		var exists int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM billing_items WHERE id = ?`, id).Scan(&exists)
		if err == sql.ErrNoRows {
			return domain.ErrItemNotFound
		}
		if err != nil {
			return fmt.Errorf("checking billing item existence: %w", err)
		}
	}
	return nil
}

// scanItem scans one billing item row via the given Scan function, shared
// between QueryRow and Rows.
func scanItem(scan func(...any) error) (domain.BillingItem, error) {
	var item domain.BillingItem
	var amount, status, createdAt, updatedAt, commissionType string
	var commissionAmount, approvedAt sql.NullString

	err := scan(&item.ID, &item.OrganizationID, &item.BillingMonth, &item.ItemName, &amount,
		&commissionType, &commissionAmount, &status, &approvedAt, &item.ApprovedBy,
		&createdAt, &updatedAt)
	if err != nil {
		return domain.BillingItem{}, err
	}

	item.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return domain.BillingItem{}, fmt.Errorf("parsing amount %q: %w", amount, err)
	}
	if commissionAmount.Valid {
		ca, err := decimal.NewFromString(commissionAmount.String)
		if err != nil {
			return domain.BillingItem{}, fmt.Errorf("parsing commission amount %q: %w", commissionAmount.String, err)
		}
		item.CommissionAmount = &ca
	}
	item.CommissionType = domain.CommissionType(commissionType)
	item.Status = domain.ItemStatus(status)
	item.ApprovedAt = parseNullableTime(approvedAt)
	item.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	item.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)

	return item, nil
}

func parseNullableTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := time.Parse(timeFormat, s.String)
	if err != nil {
		return nil
	}
	return &t
}
