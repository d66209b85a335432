package pg

import (
	"context"
	"fmt"

	"github.com/campusdesk/campusdesk/shared/domain"
	internal_errors "github.com/campusdesk/campusdesk/shared/errors"
)

const feedbackColumns = "id, sender_username, receiver_username, subject, content, created_at, is_read"

func (s *Storage) SaveFeedback(ctx context.Context, sender domain.UserName, data domain.FeedbackCreationData) (domain.FeedbackId, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	var id domain.FeedbackId
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO feedback_messages (sender_username, receiver_username, subject, content)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		sender, data.Receiver, data.Subject, data.Content).Scan(&id)
	if err != nil {
		return domain.InvalidId, internal_errors.WrapStore("SaveFeedback", fmt.Errorf("failed to insert feedback: %w", err))
	}
	return id, nil
}

func (s *Storage) Feedback(ctx context.Context, id domain.FeedbackId) (domain.Feedback, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	var f domain.Feedback
	err := s.db.QueryRowContext(ctx, "SELECT "+feedbackColumns+" FROM feedback_messages WHERE id = $1", id).
		Scan(&f.Id, &f.Sender, &f.Receiver, &f.Subject, &f.Content, &f.CreatedAt, &f.Read)
	if err != nil {
		return domain.Feedback{}, notFoundOr("Feedback", "Feedback", err)
	}
	return f, nil
}

// FeedbackList returns messages newest first matching filter.
func (s *Storage) FeedbackList(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	query := "SELECT " + feedbackColumns + " FROM feedback_messages WHERE TRUE"
	var args []any
	if filter.Receiver != "" {
		args = append(args, filter.Receiver)
		query += fmt.Sprintf(" AND receiver_username = $%d", len(args))
	}
	if filter.UnreadOnly {
		query += " AND NOT is_read"
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, internal_errors.WrapStore("FeedbackList", fmt.Errorf("failed to query feedback: %w", err))
	}
	defer rows.Close()

	list := []domain.Feedback{}
	for rows.Next() {
		var f domain.Feedback
		if err := rows.Scan(&f.Id, &f.Sender, &f.Receiver, &f.Subject, &f.Content, &f.CreatedAt, &f.Read); err != nil {
			return nil, internal_errors.WrapStore("FeedbackList", fmt.Errorf("failed to scan feedback: %w", err))
		}
		list = append(list, f)
	}
	return list, internal_errors.WrapStore("FeedbackList", rows.Err())
}

func (s *Storage) MarkFeedbackRead(ctx context.Context, id domain.FeedbackId) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, "UPDATE feedback_messages SET is_read = TRUE WHERE id = $1", id)
	if err != nil {
		return false, internal_errors.WrapStore("MarkFeedbackRead", fmt.Errorf("failed to mark feedback read: %w", err))
	}
	ok, err := affected(res)
	return ok, internal_errors.WrapStore("MarkFeedbackRead", err)
}

func (s *Storage) DeleteFeedback(ctx context.Context, id domain.FeedbackId) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, "DELETE FROM feedback_messages WHERE id = $1", id)
	if err != nil {
		return false, internal_errors.WrapStore("DeleteFeedback", fmt.Errorf("failed to delete feedback: %w", err))
	}
	ok, err := affected(res)
	return ok, internal_errors.WrapStore("DeleteFeedback", err)
}
