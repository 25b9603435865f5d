package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/neomorfeo/wastebill/internal/domain"
)

// TenantInvoiceRepository implements domain.TenantInvoiceRepository using SQLite.
type TenantInvoiceRepository struct {
	db *sql.DB
}

// Compile-time check: TenantInvoiceRepository implements the domain port.
var _ domain.TenantInvoiceRepository = (*TenantInvoiceRepository)(nil)

const invoiceColumns = `id, tenant_org_id, status, locked_at, locked_by,
	 issued_at, paid_at, updated_by, created_at, updated_at`

func (r *TenantInvoiceRepository) Create(ctx context.Context, inv domain.TenantInvoice) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tenant_invoices (id, tenant_org_id, status, locked_by, updated_by,
		   created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.TenantOrgID, string(inv.Status), inv.LockedBy, inv.UpdatedBy,
		inv.CreatedAt.Format(timeFormat), inv.UpdatedAt.Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("inserting invoice: %w", err)
	}
	return nil
}

func (r *TenantInvoiceRepository) GetByID(ctx context.Context, id string) (domain.TenantInvoice, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invoiceColumns+` FROM tenant_invoices WHERE id = ?`, id)

	inv, err := scanInvoice(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.TenantInvoice{}, domain.ErrInvoiceNotFound
		}
		return domain.TenantInvoice{}, fmt.Errorf("scanning invoice: %w", err)
	}
	return inv, nil
}

func (r *TenantInvoiceRepository) List(ctx context.Context, filter domain.InvoiceFilter) ([]domain.TenantInvoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM tenant_invoices WHERE 1=1`
	var args []any
	if filter.TenantOrgID != "" {
		query += ` AND tenant_org_id = ?`
		args = append(args, filter.TenantOrgID)
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
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invoices []domain.TenantInvoice
	for rows.Next() {
		inv, err := scanInvoice(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice row: %w", err)
		}
		invoices = append(invoices, inv)
	}

	return invoices, rows.Err()
}

// TransitionFrom is a compare-and-swap on status: the write only lands if
// the stored status still equals from, so of two concurrent identical
// transitions exactly one succeeds.
func (r *TenantInvoiceRepository) TransitionFrom(ctx context.Context, inv domain.TenantInvoice, from domain.InvoiceStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tenant_invoices
		 SET status = ?, locked_at = ?, locked_by = ?, issued_at = ?, paid_at = ?,
		     updated_by = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		string(inv.Status), formatNullableTime(inv.LockedAt), inv.LockedBy,
		formatNullableTime(inv.IssuedAt), formatNullableTime(inv.PaidAt),
		inv.UpdatedBy, inv.UpdatedAt.Format(timeFormat),
		inv.ID, string(from),
	)
	if err != nil {
		return fmt.Errorf("updating invoice: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		var status string
		err := r.db.QueryRowContext(ctx, `SELECT status FROM tenant_invoices WHERE id = ?`, inv.ID).Scan(&status)
		if err == sql.ErrNoRows {
			return domain.ErrInvoiceNotFound
		}
		if err != nil {
			return fmt.Errorf("checking invoice status: %w", err)
		}
		return domain.ErrStatusConflict
	}

	return nil
}

func scanInvoice(scan func(...any) error) (domain.TenantInvoice, error) {
	var inv domain.TenantInvoice
	var status, createdAt, updatedAt string
	var lockedAt, issuedAt, paidAt sql.NullString

	err := scan(&inv.ID, &inv.TenantOrgID, &status, &lockedAt, &inv.LockedBy,
		&issuedAt, &paidAt, &inv.UpdatedBy, &createdAt, &updatedAt)
	if err != nil {
		return domain.TenantInvoice{}, err
	}

	inv.Status = domain.InvoiceStatus(status)
	inv.LockedAt = parseNullableTime(lockedAt)
	inv.IssuedAt = parseNullableTime(issuedAt)
	inv.PaidAt = parseNullableTime(paidAt)
	inv.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	inv.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)

	return inv, nil
}

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(timeFormat)
}
