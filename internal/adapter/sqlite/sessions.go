package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/neomorfeo/wastebill/internal/domain"
)

// SessionResolver implements domain.CallerResolver against the users,
// organization_members, and sessions tables.
type SessionResolver struct {
	db *sql.DB
}

// Compile-time check: SessionResolver implements the domain port.
var _ domain.CallerResolver = (*SessionResolver)(nil)

// Resolve looks up an unexpired session token and returns the caller
// behind it, including organization memberships.
func (r *SessionResolver) Resolve(ctx context.Context, token string) (domain.Caller, error) {
	var caller domain.Caller
	var isAdmin int

	err := r.db.QueryRowContext(ctx,
		`SELECT u.id, u.is_system_admin
		 FROM sessions s JOIN users u ON u.id = s.user_id
		 WHERE s.token = ? AND s.expires_at > ?`,
		token, time.Now().UTC().Format(timeFormat),
	).Scan(&caller.ID, &isAdmin)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Caller{}, domain.ErrUnauthenticated
		}
		return domain.Caller{}, fmt.Errorf("resolving session: %w", err)
	}
	caller.SystemAdmin = isAdmin != 0

	rows, err := r.db.QueryContext(ctx,
		`SELECT organization_id FROM organization_members WHERE user_id = ?`, caller.ID)
	if err != nil {
		return domain.Caller{}, fmt.Errorf("loading memberships: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orgID string
		if err := rows.Scan(&orgID); err != nil {
			return domain.Caller{}, fmt.Errorf("scanning membership: %w", err)
		}
		caller.OrganizationIDs = append(caller.OrganizationIDs, orgID)
	}

	return caller, rows.Err()
}

// CreateUser inserts a user record. Used by bootstrap and tests; normal
// user management lives outside this service.
func (r *SessionResolver) CreateUser(ctx context.Context, id, name string, systemAdmin bool) error {
	admin := 0
	if systemAdmin {
		admin = 1
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, is_system_admin, created_at) VALUES (?, ?, ?, ?)`,
		id, name, admin, time.Now().UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// AddMembership records that a user belongs to an organization.
func (r *SessionResolver) AddMembership(ctx context.Context, userID, organizationID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO organization_members (user_id, organization_id) VALUES (?, ?)`,
		userID, organizationID,
	)
	if err != nil {
		return fmt.Errorf("inserting membership: %w", err)
	}
	return nil
}

// CreateSession stores a session token for a user.
func (r *SessionResolver) CreateSession(ctx context.Context, token, userID string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)`,
		token, userID, expiresAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// EnsureAdminSession creates an administrator and a long-lived session for
// the given token unless the token already exists. Used at startup to
// bootstrap an operable instance from configuration.
func (r *SessionResolver) EnsureAdminSession(ctx context.Context, userID, name, token string) error {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE token = ?`, token).Scan(&exists)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking bootstrap session: %w", err)
	}

	if err := r.CreateUser(ctx, userID, name, true); err != nil {
		return err
	}
	return r.CreateSession(ctx, token, userID, time.Now().UTC().Add(365*24*time.Hour))
}
