package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campusdesk/campusdesk/shared/domain"
	internal_errors "github.com/campusdesk/campusdesk/shared/errors"
	"github.com/lib/pq"
)

// =========================================================================
// Public Methods
// =========================================================================

// MarkPostAsRead upserts the (post, user) read row. False only when the
// post does not exist.
func (s *Storage) MarkPostAsRead(ctx context.Context, postId domain.PostId, user domain.UserName) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO post_read_status (post_id, user_name, is_read)
		SELECT $1::bigint, $2::text, TRUE
		WHERE EXISTS (SELECT 1 FROM posts WHERE id = $1)
		ON CONFLICT (post_id, user_name) DO UPDATE SET is_read = TRUE`,
		postId, user)
	if err != nil {
		return false, internal_errors.WrapStore("MarkPostAsRead", fmt.Errorf("failed to mark post read: %w", err))
	}
	ok, err := affected(res)
	return ok, internal_errors.WrapStore("MarkPostAsRead", err)
}

// MarkReplyAsRead only updates an existing fan-out row; it never creates
// one. False means the row is missing.
func (s *Storage) MarkReplyAsRead(ctx context.Context, replyId domain.ReplyId, user domain.UserName) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		"UPDATE reply_read_status SET is_read = TRUE WHERE reply_id = $1 AND user_name = $2",
		replyId, user)
	if err != nil {
		return false, internal_errors.WrapStore("MarkReplyAsRead", fmt.Errorf("failed to mark reply read: %w", err))
	}
	ok, err := affected(res)
	return ok, internal_errors.WrapStore("MarkReplyAsRead", err)
}

func (s *Storage) UnreadCount(ctx context.Context, user domain.UserName) (int, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reply_read_status WHERE user_name = $1 AND NOT is_read", user).Scan(&n)
	if err != nil {
		return 0, internal_errors.WrapStore("UnreadCount", fmt.Errorf("failed to count unread replies: %w", err))
	}
	return n, nil
}

func (s *Storage) UnreadCountForPost(ctx context.Context, postId domain.PostId, user domain.UserName) (int, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM reply_read_status rrs
		JOIN replies r ON r.id = rrs.reply_id
		WHERE r.post_id = $1 AND rrs.user_name = $2 AND NOT rrs.is_read`,
		postId, user).Scan(&n)
	if err != nil {
		return 0, internal_errors.WrapStore("UnreadCountForPost", fmt.Errorf("failed to count unread replies for post: %w", err))
	}
	return n, nil
}

// UnreadCountsForPosts is the batch form of UnreadCountForPost. Every
// requested id is present in the result.
func (s *Storage) UnreadCountsForPosts(ctx context.Context, postIds []domain.PostId, user domain.UserName) (map[domain.PostId]int, error) {
	counts := make(map[domain.PostId]int, len(postIds))
	if len(postIds) == 0 {
		return counts, nil
	}
	for _, id := range postIds {
		counts[id] = 0
	}

	ctx, cancel := s.bounded(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.post_id, COUNT(*) FROM reply_read_status rrs
		JOIN replies r ON r.id = rrs.reply_id
		WHERE r.post_id = ANY($1) AND rrs.user_name = $2 AND NOT rrs.is_read
		GROUP BY r.post_id`,
		pq.Array(postIds), user)
	if err != nil {
		return nil, internal_errors.WrapStore("UnreadCountsForPosts", fmt.Errorf("failed to count unread replies: %w", err))
	}
	defer rows.Close()

	for rows.Next() {
		var id domain.PostId
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, internal_errors.WrapStore("UnreadCountsForPosts", fmt.Errorf("failed to scan count: %w", err))
		}
		counts[id] = n
	}
	return counts, internal_errors.WrapStore("UnreadCountsForPosts", rows.Err())
}

// IsPostRead treats a missing row as unread.
func (s *Storage) IsPostRead(ctx context.Context, postId domain.PostId, user domain.UserName) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	read, err := s.isRead(ctx, s.db,
		"SELECT is_read FROM post_read_status WHERE post_id = $1 AND user_name = $2", postId, user)
	return read, internal_errors.WrapStore("IsPostRead", err)
}

// IsReplyRead treats a missing row as unread.
func (s *Storage) IsReplyRead(ctx context.Context, replyId domain.ReplyId, user domain.UserName) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	read, err := s.isRead(ctx, s.db,
		"SELECT is_read FROM reply_read_status WHERE reply_id = $1 AND user_name = $2", replyId, user)
	return read, internal_errors.WrapStore("IsReplyRead", err)
}

// ReplyReadStates returns the read flag of every reply of the post that has
// a row for user. Replies without a row are absent, meaning unread.
func (s *Storage) ReplyReadStates(ctx context.Context, postId domain.PostId, user domain.UserName) (map[domain.ReplyId]bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT rrs.reply_id, rrs.is_read FROM reply_read_status rrs
		JOIN replies r ON r.id = rrs.reply_id
		WHERE r.post_id = $1 AND rrs.user_name = $2`,
		postId, user)
	if err != nil {
		return nil, internal_errors.WrapStore("ReplyReadStates", fmt.Errorf("failed to query reply read state: %w", err))
	}
	defer rows.Close()

	states := map[domain.ReplyId]bool{}
	for rows.Next() {
		var id domain.ReplyId
		var read bool
		if err := rows.Scan(&id, &read); err != nil {
			return nil, internal_errors.WrapStore("ReplyReadStates", fmt.Errorf("failed to scan read state: %w", err))
		}
		states[id] = read
	}
	return states, internal_errors.WrapStore("ReplyReadStates", rows.Err())
}

// =========================================================================
// Internal Methods
// =========================================================================

func (s *Storage) upsertPostRead(ctx context.Context, q Querier, postId domain.PostId, user domain.UserName) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO post_read_status (post_id, user_name, is_read) VALUES ($1, $2, TRUE)
		ON CONFLICT (post_id, user_name) DO UPDATE SET is_read = TRUE`,
		postId, user)
	if err != nil {
		return fmt.Errorf("failed to insert post read state: %w", err)
	}
	return nil
}

func (s *Storage) isRead(ctx context.Context, q Querier, query string, id int64, user domain.UserName) (bool, error) {
	var read bool
	err := q.QueryRowContext(ctx, query, id, user).Scan(&read)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query read state: %w", err)
	}
	return read, nil
}
