package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campusdesk/campusdesk/shared/domain"
	internal_errors "github.com/campusdesk/campusdesk/shared/errors"
	shared_pg "github.com/campusdesk/campusdesk/shared/storage/pg"
)

var errThreadExists = errors.New("thread already exists")

// =========================================================================
// Public Methods
// =========================================================================

func (s *Storage) Threads(ctx context.Context) ([]domain.ThreadName, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, "SELECT name FROM threads ORDER BY name")
	if err != nil {
		return nil, internal_errors.WrapStore("Threads", fmt.Errorf("failed to query threads: %w", err))
	}
	defer rows.Close()

	names := []domain.ThreadName{}
	for rows.Next() {
		var name domain.ThreadName
		if err := rows.Scan(&name); err != nil {
			return nil, internal_errors.WrapStore("Threads", fmt.Errorf("failed to scan thread: %w", err))
		}
		names = append(names, name)
	}
	return names, internal_errors.WrapStore("Threads", rows.Err())
}

// CreateThread returns false if the name is taken.
func (s *Storage) CreateThread(ctx context.Context, name domain.ThreadName) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, "INSERT INTO threads (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", name)
	if err != nil {
		return false, internal_errors.WrapStore("CreateThread", fmt.Errorf("failed to insert thread: %w", err))
	}
	ok, err := affected(res)
	return ok, internal_errors.WrapStore("CreateThread", err)
}

// RenameThread renames the thread row and rewrites every post that
// references the old name, in one transaction. The post rewrite runs even
// when no thread row matched so stray references still converge; the result
// only reports whether a thread row changed. A taken target name rolls the
// whole rename back and reports false.
func (s *Storage) RenameThread(ctx context.Context, oldName, newName domain.ThreadName) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	var renamed bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		renamed, err = s.renameThreadRow(ctx, tx, oldName, newName)
		if err != nil {
			return err
		}
		_, err = s.reassignPosts(ctx, tx, oldName, newName)
		return err
	})
	if errors.Is(err, errThreadExists) {
		return false, nil
	}
	if err != nil {
		return false, internal_errors.WrapStore("RenameThread", err)
	}
	return renamed, nil
}

// DeleteThread moves the thread's posts to the default thread, then deletes
// the thread row, in one transaction. Returns whether the row existed and
// how many posts moved.
func (s *Storage) DeleteThread(ctx context.Context, name domain.ThreadName) (bool, int64, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	var deleted bool
	var moved int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		moved, err = s.reassignPosts(ctx, tx, name, domain.DefaultThread)
		if err != nil {
			return err
		}
		deleted, err = s.deleteThreadRow(ctx, tx, name)
		return err
	})
	if err != nil {
		return false, 0, internal_errors.WrapStore("DeleteThread", err)
	}
	return deleted, moved, nil
}

// =========================================================================
// Internal Methods
// =========================================================================

func (s *Storage) renameThreadRow(ctx context.Context, q Querier, oldName, newName domain.ThreadName) (bool, error) {
	res, err := q.ExecContext(ctx, "UPDATE threads SET name = $1 WHERE name = $2", newName, oldName)
	if shared_pg.IsUniqueViolation(err) {
		return false, errThreadExists
	}
	if err != nil {
		return false, fmt.Errorf("failed to rename thread: %w", err)
	}
	return affected(res)
}

func (s *Storage) reassignPosts(ctx context.Context, q Querier, from, to domain.ThreadName) (int64, error) {
	res, err := q.ExecContext(ctx, "UPDATE posts SET thread = $1 WHERE thread = $2", to, from)
	if err != nil {
		return 0, fmt.Errorf("failed to reassign posts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check reassigned posts: %w", err)
	}
	return n, nil
}

func (s *Storage) deleteThreadRow(ctx context.Context, q Querier, name domain.ThreadName) (bool, error) {
	res, err := q.ExecContext(ctx, "DELETE FROM threads WHERE name = $1", name)
	if err != nil {
		return false, fmt.Errorf("failed to delete thread: %w", err)
	}
	return affected(res)
}
