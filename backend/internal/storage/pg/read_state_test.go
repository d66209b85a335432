package pg

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/campusdesk/campusdesk/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkPostAsRead(t *testing.T) {
	ctx := context.Background()

	t.Run("upsert succeeds", func(t *testing.T) {
		s, mock := newMockStorage(t)

		mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (post_id, user_name) DO UPDATE SET is_read = TRUE")).
			WithArgs(int64(5), "bob").
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := s.MarkPostAsRead(ctx, 5, "bob")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown post", func(t *testing.T) {
		s, mock := newMockStorage(t)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO post_read_status")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := s.MarkPostAsRead(ctx, 404, "bob")

		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMarkReplyAsRead(t *testing.T) {
	ctx := context.Background()

	t.Run("existing row", func(t *testing.T) {
		s, mock := newMockStorage(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE reply_read_status SET is_read = TRUE WHERE reply_id = $1 AND user_name = $2")).
			WithArgs(int64(42), "bob").
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := s.MarkReplyAsRead(ctx, 42, "bob")

		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("missing row is never created", func(t *testing.T) {
		s, mock := newMockStorage(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE reply_read_status")).
			WithArgs(int64(42), "newcomer").
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := s.MarkReplyAsRead(ctx, 42, "newcomer")

		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIsRead_MissingRowIsUnread(t *testing.T) {
	ctx := context.Background()
	s, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT is_read FROM post_read_status")).
		WithArgs(int64(5), "bob").
		WillReturnRows(sqlmock.NewRows([]string{"is_read"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT is_read FROM reply_read_status")).
		WithArgs(int64(42), "bob").
		WillReturnRows(sqlmock.NewRows([]string{"is_read"}).AddRow(true))

	postRead, err := s.IsPostRead(ctx, 5, "bob")
	require.NoError(t, err)
	assert.False(t, postRead)

	replyRead, err := s.IsReplyRead(ctx, 42, "bob")
	require.NoError(t, err)
	assert.True(t, replyRead)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnreadCounts(t *testing.T) {
	ctx := context.Background()

	t.Run("per user", func(t *testing.T) {
		s, mock := newMockStorage(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reply_read_status WHERE user_name = $1 AND NOT is_read")).
			WithArgs("bob").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		n, err := s.UnreadCount(ctx, "bob")

		require.NoError(t, err)
		assert.Equal(t, 4, n)
	})

	t.Run("per post joins replies", func(t *testing.T) {
		s, mock := newMockStorage(t)

		mock.ExpectQuery(regexp.QuoteMeta("JOIN replies r ON r.id = rrs.reply_id")).
			WithArgs(int64(5), "bob").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		n, err := s.UnreadCountForPost(ctx, 5, "bob")

		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("batch fills zero for posts without unread replies", func(t *testing.T) {
		s, mock := newMockStorage(t)

		mock.ExpectQuery(regexp.QuoteMeta("WHERE r.post_id = ANY($1)")).
			WithArgs(sqlmock.AnyArg(), "bob").
			WillReturnRows(sqlmock.NewRows([]string{"post_id", "count"}).AddRow(int64(2), 3))

		counts, err := s.UnreadCountsForPosts(ctx, []domain.PostId{1, 2, 3}, "bob")

		require.NoError(t, err)
		assert.Equal(t, map[domain.PostId]int{1: 0, 2: 3, 3: 0}, counts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("batch with no ids skips the query", func(t *testing.T) {
		s, mock := newMockStorage(t)

		counts, err := s.UnreadCountsForPosts(ctx, nil, "bob")

		require.NoError(t, err)
		assert.Empty(t, counts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
