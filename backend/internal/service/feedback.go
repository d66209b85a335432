package service

import (
	"context"
	"strings"

	"github.com/campusdesk/campusdesk/backend/internal/utils"
	"github.com/campusdesk/campusdesk/shared/domain"
)

type Feedback struct {
	storage FeedbackStorage
}

type FeedbackStorage interface {
	SaveFeedback(ctx context.Context, sender domain.UserName, data domain.FeedbackCreationData) (domain.FeedbackId, error)
	Feedback(ctx context.Context, id domain.FeedbackId) (domain.Feedback, error)
	FeedbackList(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error)
	MarkFeedbackRead(ctx context.Context, id domain.FeedbackId) (bool, error)
	DeleteFeedback(ctx context.Context, id domain.FeedbackId) (bool, error)
}

func NewFeedback(storage FeedbackStorage) *Feedback {
	return &Feedback{storage: storage}
}

func (f *Feedback) Submit(ctx context.Context, sender domain.User, data domain.FeedbackCreationData) (domain.FeedbackId, error) {
	data.Receiver = strings.TrimSpace(data.Receiver)
	data.Subject = strings.TrimSpace(data.Subject)
	if err := utils.Validate(data); err != nil {
		return domain.InvalidId, err
	}
	return f.storage.SaveFeedback(ctx, sender.UserName, data)
}

func (f *Feedback) Inbox(ctx context.Context, receiver domain.UserName, unreadOnly bool) ([]domain.Feedback, error) {
	return f.storage.FeedbackList(ctx, domain.FeedbackFilter{Receiver: receiver, UnreadOnly: unreadOnly})
}

// All lists feedback for every receiver unless filter narrows it.
func (f *Feedback) All(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error) {
	return f.storage.FeedbackList(ctx, filter)
}

func (f *Feedback) Get(ctx context.Context, id domain.FeedbackId) (domain.Feedback, error) {
	return f.storage.Feedback(ctx, id)
}

func (f *Feedback) MarkRead(ctx context.Context, id domain.FeedbackId) (bool, error) {
	return f.storage.MarkFeedbackRead(ctx, id)
}

func (f *Feedback) Delete(ctx context.Context, id domain.FeedbackId) (bool, error) {
	return f.storage.DeleteFeedback(ctx, id)
}
