package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campusdesk/campusdesk/shared/domain"
	internal_errors "github.com/campusdesk/campusdesk/shared/errors"
)

const replyColumns = "id, post_id, content, author, created_at, deleted"

// CreateReply inserts the reply and its read-state fan-out in one
// transaction: one row per registered user, read only for the author. The
// reply is never visible without its fan-out. Replying to a missing or
// deleted post yields InvalidId and no error. The second return value is the
// number of read-state rows written.
func (s *Storage) CreateReply(ctx context.Context, author domain.UserName, data domain.ReplyCreationData) (domain.ReplyId, int64, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	id := domain.InvalidId
	var fanout int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.insertReply(ctx, tx, author, data)
		if err != nil || id == domain.InvalidId {
			return err
		}
		fanout, err = s.fanOutReply(ctx, tx, id, author)
		return err
	})
	if err != nil {
		return domain.InvalidId, 0, internal_errors.WrapStore("CreateReply", err)
	}
	return id, fanout, nil
}

func (s *Storage) GetReply(ctx context.Context, id domain.ReplyId) (domain.Reply, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, "SELECT "+replyColumns+" FROM replies WHERE id = $1", id)
	reply, err := scanReply(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Reply{}, internal_errors.NewNotFound("Reply")
	}
	if err != nil {
		return domain.Reply{}, internal_errors.WrapStore("GetReply", fmt.Errorf("failed to query reply: %w", err))
	}
	return reply, nil
}

// RepliesForPost returns every reply of the post oldest first, deleted ones
// included so the conversation keeps its shape.
func (s *Storage) RepliesForPost(ctx context.Context, postId domain.PostId) ([]domain.Reply, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+replyColumns+" FROM replies WHERE post_id = $1 ORDER BY created_at ASC, id ASC", postId)
	if err != nil {
		return nil, internal_errors.WrapStore("RepliesForPost", fmt.Errorf("failed to query replies: %w", err))
	}
	defer rows.Close()

	replies := []domain.Reply{}
	for rows.Next() {
		reply, err := scanReply(rows)
		if err != nil {
			return nil, internal_errors.WrapStore("RepliesForPost", fmt.Errorf("failed to scan reply: %w", err))
		}
		replies = append(replies, reply)
	}
	return replies, internal_errors.WrapStore("RepliesForPost", rows.Err())
}

// VisuallyDeleteReply replaces the content with its sentinel if author owns
// the reply. Read-state rows are kept.
func (s *Storage) VisuallyDeleteReply(ctx context.Context, id domain.ReplyId, author domain.UserName) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		"UPDATE replies SET content = $1, deleted = TRUE WHERE id = $2 AND author = $3",
		domain.DeletedReplyContent, id, author)
	if err != nil {
		return false, internal_errors.WrapStore("VisuallyDeleteReply", fmt.Errorf("failed to delete reply: %w", err))
	}
	ok, err := affected(res)
	return ok, internal_errors.WrapStore("VisuallyDeleteReply", err)
}

func (s *Storage) insertReply(ctx context.Context, q Querier, author domain.UserName, data domain.ReplyCreationData) (domain.ReplyId, error) {
	var id domain.ReplyId
	err := q.QueryRowContext(ctx, `
		INSERT INTO replies (post_id, content, author)
		SELECT $1::bigint, $2::text, $3::text
		WHERE EXISTS (SELECT 1 FROM posts WHERE id = $1 AND NOT deleted)
		RETURNING id`,
		data.PostId, data.Content, author).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.InvalidId, nil
	}
	if err != nil {
		return domain.InvalidId, fmt.Errorf("failed to insert reply: %w", err)
	}
	return id, nil
}

// fanOutReply writes one read-state row per registered user in a single
// statement. The author always gets a read row, registered or not.
func (s *Storage) fanOutReply(ctx context.Context, q Querier, id domain.ReplyId, author domain.UserName) (int64, error) {
	res, err := q.ExecContext(ctx, `
		INSERT INTO reply_read_status (reply_id, user_name, is_read)
		SELECT $1::bigint, u.user_name, u.user_name = $2 FROM users u
		UNION
		SELECT $1::bigint, $2::text, TRUE
		ON CONFLICT (reply_id, user_name) DO NOTHING`,
		id, author)
	if err != nil {
		return 0, fmt.Errorf("failed to fan out reply read state: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check fan-out rows: %w", err)
	}
	return n, nil
}

func scanReply(row scanner) (domain.Reply, error) {
	var r domain.Reply
	var deleted bool
	if err := row.Scan(&r.Id, &r.PostId, &r.Content, &r.Author, &r.CreatedAt, &deleted); err != nil {
		return domain.Reply{}, err
	}
	r.State = domain.StateFromDeleted(deleted)
	return r, nil
}
