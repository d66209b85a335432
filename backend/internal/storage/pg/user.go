package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/campusdesk/campusdesk/shared/domain"
	internal_errors "github.com/campusdesk/campusdesk/shared/errors"
	shared_pg "github.com/campusdesk/campusdesk/shared/storage/pg"
)

const userColumns = "id, user_name, password_hash, first_name, middle_name, last_name, preferred_first_name, email_address, admin_role, staff_role, student_role"

var errInvitationGone = errors.New("invitation already consumed")

// =========================================================================
// Public Methods
// =========================================================================

// CreateUserFromInvitation consumes the code and inserts the user in one
// transaction. InvalidId means the code was already gone, in which case
// nothing is written.
func (s *Storage) CreateUserFromInvitation(ctx context.Context, user domain.User, code domain.InvitationCode) (domain.UserId, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	var id domain.UserId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		consumed, err := s.deleteInvitation(ctx, tx, code)
		if err != nil {
			return err
		}
		if !consumed {
			return errInvitationGone
		}
		id, err = s.insertUser(ctx, tx, user)
		return err
	})
	if errors.Is(err, errInvitationGone) {
		return domain.InvalidId, nil
	}
	if err != nil {
		return domain.InvalidId, internal_errors.WrapStore("CreateUserFromInvitation", err)
	}
	return id, nil
}

// CreateFirstUser inserts user only into an empty users table.
// InvalidId if any user already exists.
func (s *Storage) CreateFirstUser(ctx context.Context, user domain.User) (domain.UserId, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	var id domain.UserId
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (user_name, password_hash, first_name, middle_name, last_name, preferred_first_name, email_address, admin_role, staff_role, student_role)
		SELECT $1::text, $2::text, $3::text, $4::text, $5::text, $6::text, $7::text, $8::boolean, $9::boolean, $10::boolean
		WHERE NOT EXISTS (SELECT 1 FROM users)
		RETURNING id`,
		userArgs(user)...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.InvalidId, nil
	}
	if err != nil {
		return domain.InvalidId, internal_errors.WrapStore("CreateFirstUser", fmt.Errorf("failed to insert user: %w", err))
	}
	return id, nil
}

func (s *Storage) User(ctx context.Context, name domain.UserName) (domain.User, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	var u domain.User
	err := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE user_name = $1", name).
		Scan(&u.Id, &u.UserName, &u.PassHash, &u.FirstName, &u.MiddleName, &u.LastName, &u.PreferredFirstName,
			&u.Email, &u.Roles.Admin, &u.Roles.Staff, &u.Roles.Student)
	if err != nil {
		return domain.User{}, notFoundOr("User", "User", err)
	}
	return u, nil
}

func (s *Storage) UserNames(ctx context.Context) ([]domain.UserName, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, "SELECT user_name FROM users ORDER BY user_name")
	if err != nil {
		return nil, internal_errors.WrapStore("UserNames", fmt.Errorf("failed to query users: %w", err))
	}
	defer rows.Close()

	names := []domain.UserName{}
	for rows.Next() {
		var name domain.UserName
		if err := rows.Scan(&name); err != nil {
			return nil, internal_errors.WrapStore("UserNames", fmt.Errorf("failed to scan user: %w", err))
		}
		names = append(names, name)
	}
	return names, internal_errors.WrapStore("UserNames", rows.Err())
}

func (s *Storage) CountUsers(ctx context.Context) (int, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return 0, internal_errors.WrapStore("CountUsers", fmt.Errorf("failed to count users: %w", err))
	}
	return n, nil
}

// DeleteUser removes the account together with its read-state rows.
// Authored content stays.
func (s *Storage) DeleteUser(ctx context.Context, name domain.UserName) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	var deleted bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM reply_read_status WHERE user_name = $1", name); err != nil {
			return fmt.Errorf("failed to delete reply read state: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM post_read_status WHERE user_name = $1", name); err != nil {
			return fmt.Errorf("failed to delete post read state: %w", err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE user_name = $1", name)
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		deleted, err = affected(res)
		return err
	})
	if err != nil {
		return false, internal_errors.WrapStore("DeleteUser", err)
	}
	return deleted, nil
}

// =========================================================================
// Internal Methods
// =========================================================================

func (s *Storage) insertUser(ctx context.Context, q Querier, user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := q.QueryRowContext(ctx, `
		INSERT INTO users (user_name, password_hash, first_name, middle_name, last_name, preferred_first_name, email_address, admin_role, staff_role, student_role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		userArgs(user)...).Scan(&id)
	if shared_pg.IsUniqueViolation(err) {
		return domain.InvalidId, &internal_errors.ErrorWithStatusCode{Message: "User name already taken", StatusCode: http.StatusConflict}
	}
	if err != nil {
		return domain.InvalidId, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func userArgs(u domain.User) []any {
	return []any{u.UserName, u.PassHash, u.FirstName, u.MiddleName, u.LastName, u.PreferredFirstName,
		u.Email, u.Roles.Admin, u.Roles.Staff, u.Roles.Student}
}
