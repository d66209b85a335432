package service

import (
	"context"
	"strings"

	"github.com/campusdesk/campusdesk/backend/internal/metrics"
	"github.com/campusdesk/campusdesk/shared/domain"
	"github.com/campusdesk/campusdesk/shared/logger"
)

// Thread manages named discussion threads. Posts reference threads by name,
// so renames and deletes rewrite every referencing post in the same
// transaction.
type Thread struct {
	storage ThreadStorage
}

type ThreadStorage interface {
	Threads(ctx context.Context) ([]domain.ThreadName, error)
	CreateThread(ctx context.Context, name domain.ThreadName) (bool, error)
	RenameThread(ctx context.Context, oldName, newName domain.ThreadName) (bool, error)
	DeleteThread(ctx context.Context, name domain.ThreadName) (bool, int64, error)
}

func NewThread(storage ThreadStorage) *Thread {
	return &Thread{storage: storage}
}

func (t *Thread) Threads(ctx context.Context) ([]domain.ThreadName, error) {
	return t.storage.Threads(ctx)
}

func (t *Thread) CreateThread(ctx context.Context, name domain.ThreadName) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}
	return t.storage.CreateThread(ctx, name)
}

// RenameThread is false when either name is empty, the names match ignoring
// case, the thread is the default one or the new name is taken.
func (t *Thread) RenameThread(ctx context.Context, oldName, newName domain.ThreadName) (bool, error) {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if oldName == "" || newName == "" || strings.EqualFold(oldName, newName) {
		return false, nil
	}
	if domain.IsDefaultThread(oldName) {
		return false, nil
	}
	renamed, err := t.storage.RenameThread(ctx, oldName, newName)
	if err != nil {
		return false, err
	}
	if renamed {
		logger.Log.Info("thread renamed", "from", oldName, "to", newName)
	}
	return renamed, nil
}

// DeleteThread moves the thread's posts into the default thread and then
// removes it. The default thread itself cannot be deleted.
func (t *Thread) DeleteThread(ctx context.Context, name domain.ThreadName) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" || domain.IsDefaultThread(name) {
		return false, nil
	}
	deleted, moved, err := t.storage.DeleteThread(ctx, name)
	if err != nil {
		return false, err
	}
	metrics.PostsReassigned.Add(float64(moved))
	if deleted {
		logger.Log.Info("thread deleted", "thread", name, "posts_moved", moved)
	}
	return deleted, nil
}
