package service

import (
	"context"

	"github.com/campusdesk/campusdesk/backend/internal/metrics"
	"github.com/campusdesk/campusdesk/shared/domain"
	"github.com/campusdesk/campusdesk/shared/logger"
)

// ReadState answers per-user read questions. A missing read-state row always
// reads as unread.
type ReadState struct {
	storage ReadStateStorage
}

type ReadStateStorage interface {
	MarkPostAsRead(ctx context.Context, postId domain.PostId, user domain.UserName) (bool, error)
	MarkReplyAsRead(ctx context.Context, replyId domain.ReplyId, user domain.UserName) (bool, error)
	UnreadCount(ctx context.Context, user domain.UserName) (int, error)
	UnreadCountForPost(ctx context.Context, postId domain.PostId, user domain.UserName) (int, error)
	UnreadCountsForPosts(ctx context.Context, postIds []domain.PostId, user domain.UserName) (map[domain.PostId]int, error)
	IsPostRead(ctx context.Context, postId domain.PostId, user domain.UserName) (bool, error)
	IsReplyRead(ctx context.Context, replyId domain.ReplyId, user domain.UserName) (bool, error)
	ReplyReadStates(ctx context.Context, postId domain.PostId, user domain.UserName) (map[domain.ReplyId]bool, error)
}

func NewReadState(storage ReadStateStorage) *ReadState {
	return &ReadState{storage: storage}
}

func (r *ReadState) MarkPostAsRead(ctx context.Context, postId domain.PostId, user domain.UserName) (bool, error) {
	return r.storage.MarkPostAsRead(ctx, postId, user)
}

// MarkReplyAsRead only flips an existing row. False means the user never got
// a fan-out row for this reply, typically because they registered after it.
func (r *ReadState) MarkReplyAsRead(ctx context.Context, replyId domain.ReplyId, user domain.UserName) (bool, error) {
	ok, err := r.storage.MarkReplyAsRead(ctx, replyId, user)
	if err != nil {
		return false, err
	}
	if !ok {
		metrics.MissingReadState.Inc()
		logger.Log.Warn("no read state row for reply", "reply_id", replyId, "user", user)
	}
	return ok, nil
}

func (r *ReadState) UnreadCount(ctx context.Context, user domain.UserName) (int, error) {
	return r.storage.UnreadCount(ctx, user)
}

func (r *ReadState) UnreadCountForPost(ctx context.Context, postId domain.PostId, user domain.UserName) (int, error) {
	return r.storage.UnreadCountForPost(ctx, postId, user)
}

func (r *ReadState) UnreadCountsForPosts(ctx context.Context, postIds []domain.PostId, user domain.UserName) (map[domain.PostId]int, error) {
	if len(postIds) == 0 {
		return map[domain.PostId]int{}, nil
	}
	return r.storage.UnreadCountsForPosts(ctx, postIds, user)
}

func (r *ReadState) IsPostRead(ctx context.Context, postId domain.PostId, user domain.UserName) (bool, error) {
	return r.storage.IsPostRead(ctx, postId, user)
}

func (r *ReadState) IsReplyRead(ctx context.Context, replyId domain.ReplyId, user domain.UserName) (bool, error) {
	return r.storage.IsReplyRead(ctx, replyId, user)
}
