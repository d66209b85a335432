package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/campusdesk/campusdesk/shared/domain"
	internal_errors "github.com/campusdesk/campusdesk/shared/errors"
)

// Reads here never delete. Expiry is decided by the caller, which then
// reclaims rows explicitly.

const invitationColumns = "code, email_address, roles, created_at"

// SaveInvitation stores a new code. False means the code is already taken.
func (s *Storage) SaveInvitation(ctx context.Context, inv domain.Invitation) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO invitation_codes (code, email_address, roles, created_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO NOTHING`,
		inv.Code, inv.Email, inv.Roles, inv.CreatedAt)
	if err != nil {
		return false, internal_errors.WrapStore("SaveInvitation", fmt.Errorf("failed to insert invitation: %w", err))
	}
	ok, err := affected(res)
	return ok, internal_errors.WrapStore("SaveInvitation", err)
}

// Invitation looks up a code. The bool is false when no such row exists.
func (s *Storage) Invitation(ctx context.Context, code domain.InvitationCode) (domain.Invitation, bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, "SELECT "+invitationColumns+" FROM invitation_codes WHERE code = $1", code)
	inv, err := scanInvitation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Invitation{}, false, nil
	}
	if err != nil {
		return domain.Invitation{}, false, internal_errors.WrapStore("Invitation", fmt.Errorf("failed to query invitation: %w", err))
	}
	return inv, true, nil
}

func (s *Storage) InvitationsByEmail(ctx context.Context, email domain.Email) ([]domain.Invitation, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	invs, err := s.queryInvitations(ctx, s.db,
		"SELECT "+invitationColumns+" FROM invitation_codes WHERE email_address = $1 ORDER BY created_at", email)
	return invs, internal_errors.WrapStore("InvitationsByEmail", err)
}

func (s *Storage) Invitations(ctx context.Context) ([]domain.Invitation, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	invs, err := s.queryInvitations(ctx, s.db,
		"SELECT "+invitationColumns+" FROM invitation_codes ORDER BY created_at")
	return invs, internal_errors.WrapStore("Invitations", err)
}

// DeleteInvitation removes a code and reports whether it existed.
func (s *Storage) DeleteInvitation(ctx context.Context, code domain.InvitationCode) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	ok, err := s.deleteInvitation(ctx, s.db, code)
	return ok, internal_errors.WrapStore("DeleteInvitation", err)
}

// DeleteInvitationsCreatedBefore removes every code created at or before
// cutoff and returns how many went.
func (s *Storage) DeleteInvitationsCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, "DELETE FROM invitation_codes WHERE created_at <= $1", cutoff)
	if err != nil {
		return 0, internal_errors.WrapStore("DeleteInvitationsCreatedBefore", fmt.Errorf("failed to delete invitations: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, internal_errors.WrapStore("DeleteInvitationsCreatedBefore", fmt.Errorf("failed to check affected rows: %w", err))
	}
	return n, nil
}

func (s *Storage) deleteInvitation(ctx context.Context, q Querier, code domain.InvitationCode) (bool, error) {
	res, err := q.ExecContext(ctx, "DELETE FROM invitation_codes WHERE code = $1", code)
	if err != nil {
		return false, fmt.Errorf("failed to delete invitation: %w", err)
	}
	return affected(res)
}

func (s *Storage) queryInvitations(ctx context.Context, q Querier, query string, args ...any) ([]domain.Invitation, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invitations: %w", err)
	}
	defer rows.Close()

	invs := []domain.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invs = append(invs, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invitations: %w", err)
	}
	return invs, nil
}

func scanInvitation(row scanner) (domain.Invitation, error) {
	var inv domain.Invitation
	var created sql.NullTime
	if err := row.Scan(&inv.Code, &inv.Email, &inv.Roles, &created); err != nil {
		return domain.Invitation{}, err
	}
	if created.Valid {
		inv.CreatedAt = created.Time
	}
	return inv, nil
}
