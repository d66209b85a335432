package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/campusdesk/campusdesk/backend/internal/metrics"
	"github.com/campusdesk/campusdesk/backend/internal/utils"
	"github.com/campusdesk/campusdesk/shared/domain"
	internal_errors "github.com/campusdesk/campusdesk/shared/errors"
	"github.com/campusdesk/campusdesk/shared/logger"
)

type Post struct {
	storage   PostStorage
	readState ReadStateStorage
	renderer  Renderer
}

type PostStorage interface {
	CreatePost(ctx context.Context, author domain.UserName, data domain.PostCreationData) (domain.PostId, error)
	GetPost(ctx context.Context, id domain.PostId) (domain.Post, error)
	ListPosts(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error)
	UpdatePost(ctx context.Context, id domain.PostId, author domain.UserName, data domain.PostUpdateData) (bool, error)
	VisuallyDeletePost(ctx context.Context, id domain.PostId, author domain.UserName) (bool, error)
	ModerateDeletePost(ctx context.Context, id domain.PostId) (bool, error)
	CreateReply(ctx context.Context, author domain.UserName, data domain.ReplyCreationData) (domain.ReplyId, int64, error)
	RepliesForPost(ctx context.Context, postId domain.PostId) ([]domain.Reply, error)
	VisuallyDeleteReply(ctx context.Context, id domain.ReplyId, author domain.UserName) (bool, error)
}

type Renderer interface {
	Render(text string) string
}

func NewPost(storage PostStorage, readState ReadStateStorage, renderer Renderer) *Post {
	return &Post{
		storage:   storage,
		readState: readState,
		renderer:  renderer,
	}
}

// CreatePost returns InvalidId with a nil error when the author may not post
// to the requested thread or the thread does not exist.
func (p *Post) CreatePost(ctx context.Context, author domain.User, data domain.PostCreationData) (domain.PostId, error) {
	data.Title = strings.TrimSpace(data.Title)
	data.Thread = strings.TrimSpace(data.Thread)
	if data.Thread == "" {
		data.Thread = domain.DefaultThread
	}
	if err := utils.Validate(data); err != nil {
		return domain.InvalidId, err
	}
	if author.IsStudentOnly() && strings.EqualFold(data.Thread, domain.AnnouncementsThread) {
		logger.Log.Info("student post to announcements refused", "user", author.UserName)
		return domain.InvalidId, nil
	}
	return p.storage.CreatePost(ctx, author.UserName, data)
}

func (p *Post) GetPost(ctx context.Context, id domain.PostId) (domain.Post, error) {
	return p.storage.GetPost(ctx, id)
}

func (p *Post) ListPosts(ctx context.Context) ([]domain.Post, error) {
	return p.storage.ListPosts(ctx, domain.PostFilter{})
}

// SearchPosts matches keyword against title and body, case-insensitively.
// An empty thread searches all threads.
func (p *Post) SearchPosts(ctx context.Context, keyword string, thread domain.ThreadName) ([]domain.Post, error) {
	return p.storage.ListPosts(ctx, domain.PostFilter{
		Keyword: strings.TrimSpace(keyword),
		Thread:  strings.TrimSpace(thread),
	})
}

func (p *Post) UpdatePost(ctx context.Context, editor domain.User, id domain.PostId, data domain.PostUpdateData) (bool, error) {
	data.Title = strings.TrimSpace(data.Title)
	if err := utils.Validate(data); err != nil {
		return false, err
	}
	return p.storage.UpdatePost(ctx, id, editor.UserName, data)
}

// VisuallyDeletePost is a no-op false unless requester wrote the post.
func (p *Post) VisuallyDeletePost(ctx context.Context, id domain.PostId, requester domain.User) (bool, error) {
	return p.storage.VisuallyDeletePost(ctx, id, requester.UserName)
}

func (p *Post) ModerateDeletePost(ctx context.Context, id domain.PostId, moderator domain.User) (bool, error) {
	if !moderator.CanModerate() {
		return false, nil
	}
	return p.storage.ModerateDeletePost(ctx, id)
}

// CreateReply stores the reply together with one read-state row per
// registered user.
func (p *Post) CreateReply(ctx context.Context, author domain.User, data domain.ReplyCreationData) (domain.ReplyId, error) {
	data.Content = strings.TrimSpace(data.Content)
	if err := utils.Validate(data); err != nil {
		return domain.InvalidId, err
	}
	id, fanout, err := p.storage.CreateReply(ctx, author.UserName, data)
	if err != nil || id == domain.InvalidId {
		return id, err
	}
	metrics.RepliesCreated.Inc()
	metrics.FanoutRows.Add(float64(fanout))
	return id, nil
}

func (p *Post) Replies(ctx context.Context, postId domain.PostId) ([]domain.Reply, error) {
	return p.storage.RepliesForPost(ctx, postId)
}

func (p *Post) VisuallyDeleteReply(ctx context.Context, id domain.ReplyId, requester domain.User) (bool, error) {
	return p.storage.VisuallyDeleteReply(ctx, id, requester.UserName)
}

// OpenPost marks the post read for viewer and returns it with its replies
// rendered and their per-viewer read flags.
func (p *Post) OpenPost(ctx context.Context, id domain.PostId, viewer domain.UserName) (domain.PostView, error) {
	post, err := p.storage.GetPost(ctx, id)
	if err != nil {
		return domain.PostView{}, err
	}
	if post.State.IsDeleted() {
		return domain.PostView{}, &internal_errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("Post %d was deleted", id),
			StatusCode: http.StatusNotFound,
		}
	}
	if _, err := p.readState.MarkPostAsRead(ctx, id, viewer); err != nil {
		return domain.PostView{}, err
	}

	replies, err := p.storage.RepliesForPost(ctx, id)
	if err != nil {
		return domain.PostView{}, err
	}
	states, err := p.readState.ReplyReadStates(ctx, id, viewer)
	if err != nil {
		return domain.PostView{}, err
	}

	view := domain.PostView{
		Post:     post,
		BodyHTML: p.renderer.Render(post.Body),
		Replies:  make([]domain.ReplyView, 0, len(replies)),
	}
	for _, r := range replies {
		read := states[r.Id]
		if !read {
			view.UnreadCount++
		}
		view.Replies = append(view.Replies, domain.ReplyView{
			Reply:       r,
			ContentHTML: p.renderer.Render(r.Content),
			Read:        read,
		})
	}
	return view, nil
}
