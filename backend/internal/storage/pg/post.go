package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/campusdesk/campusdesk/shared/domain"
	internal_errors "github.com/campusdesk/campusdesk/shared/errors"
	shared_pg "github.com/campusdesk/campusdesk/shared/storage/pg"
)

const postColumns = "id, title, body, author, thread, created_at, deleted"

// =========================================================================
// Public Methods
// =========================================================================

// CreatePost inserts the post and seeds the author's read-state row in one
// transaction. The thread name is stored as given; no threads row is needed.
func (s *Storage) CreatePost(ctx context.Context, author domain.UserName, data domain.PostCreationData) (domain.PostId, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	id := domain.InvalidId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.insertPost(ctx, tx, author, data)
		if err != nil {
			return err
		}
		return s.upsertPostRead(ctx, tx, id, author)
	})
	if err != nil {
		return domain.InvalidId, internal_errors.WrapStore("CreatePost", err)
	}
	return id, nil
}

// GetPost returns the post in whatever state it is in.
func (s *Storage) GetPost(ctx context.Context, id domain.PostId) (domain.Post, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	post, err := s.getPost(ctx, s.db, id)
	return post, internal_errors.WrapStore("GetPost", err)
}

// ListPosts returns active posts newest first, optionally narrowed to a
// thread and a case-insensitive keyword on title or body.
func (s *Storage) ListPosts(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	posts, err := s.listPosts(ctx, s.db, filter)
	return posts, internal_errors.WrapStore("ListPosts", err)
}

// UpdatePost rewrites title and body of an active post owned by author.
func (s *Storage) UpdatePost(ctx context.Context, id domain.PostId, author domain.UserName, data domain.PostUpdateData) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		"UPDATE posts SET title = $1, body = $2 WHERE id = $3 AND author = $4 AND NOT deleted",
		data.Title, data.Body, id, author)
	if err != nil {
		return false, internal_errors.WrapStore("UpdatePost", fmt.Errorf("failed to update post: %w", err))
	}
	ok, err := affected(res)
	return ok, internal_errors.WrapStore("UpdatePost", err)
}

// VisuallyDeletePost replaces the post with its sentinel text if author owns
// it. Repeating the call is harmless.
func (s *Storage) VisuallyDeletePost(ctx context.Context, id domain.PostId, author domain.UserName) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	ok, err := s.markPostDeleted(ctx, s.db, id, &author)
	return ok, internal_errors.WrapStore("VisuallyDeletePost", err)
}

// ModerateDeletePost is VisuallyDeletePost without the ownership check.
func (s *Storage) ModerateDeletePost(ctx context.Context, id domain.PostId) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	ok, err := s.markPostDeleted(ctx, s.db, id, nil)
	return ok, internal_errors.WrapStore("ModerateDeletePost", err)
}

// =========================================================================
// Internal Methods
// =========================================================================

func (s *Storage) insertPost(ctx context.Context, q Querier, author domain.UserName, data domain.PostCreationData) (domain.PostId, error) {
	var id domain.PostId
	err := q.QueryRowContext(ctx,
		"INSERT INTO posts (title, body, author, thread) VALUES ($1, $2, $3, $4) RETURNING id",
		data.Title, data.Body, author, data.Thread).Scan(&id)
	if err != nil {
		return domain.InvalidId, fmt.Errorf("failed to insert post: %w", err)
	}
	return id, nil
}

func (s *Storage) getPost(ctx context.Context, q Querier, id domain.PostId) (domain.Post, error) {
	row := q.QueryRowContext(ctx, "SELECT "+postColumns+" FROM posts WHERE id = $1", id)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Post{}, internal_errors.NewNotFound("Post")
	}
	if err != nil {
		return domain.Post{}, fmt.Errorf("failed to query post: %w", err)
	}
	return post, nil
}

func (s *Storage) listPosts(ctx context.Context, q Querier, filter domain.PostFilter) ([]domain.Post, error) {
	query := "SELECT " + postColumns + " FROM posts WHERE NOT deleted"
	var args []any
	if filter.Thread != "" {
		args = append(args, filter.Thread)
		query += fmt.Sprintf(" AND thread = $%d", len(args))
	}
	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		args = append(args, shared_pg.ContainsPattern(kw))
		n := len(args)
		query += fmt.Sprintf(` AND (LOWER(title) LIKE $%d ESCAPE '\' OR LOWER(body) LIKE $%d ESCAPE '\')`, n, n)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}

func (s *Storage) markPostDeleted(ctx context.Context, q Querier, id domain.PostId, author *domain.UserName) (bool, error) {
	query := "UPDATE posts SET title = $1, body = '', deleted = TRUE WHERE id = $2"
	args := []any{domain.DeletedPostTitle, id}
	if author != nil {
		query += " AND author = $3"
		args = append(args, *author)
	}
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to delete post: %w", err)
	}
	return affected(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (domain.Post, error) {
	var p domain.Post
	var deleted bool
	if err := row.Scan(&p.Id, &p.Title, &p.Body, &p.Author, &p.Thread, &p.CreatedAt, &deleted); err != nil {
		return domain.Post{}, err
	}
	p.State = domain.StateFromDeleted(deleted)
	return p, nil
}
