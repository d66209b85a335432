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

const ticketColumns = "id, title, body, creator_username, status, reopened_from_id, created_at, deleted"

// =========================================================================
// Public Methods
// =========================================================================

func (s *Storage) CreateTicket(ctx context.Context, creator domain.UserName, data domain.TicketCreationData) (domain.TicketId, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	id, err := s.insertTicket(ctx, s.db, creator, data, nil)
	return id, internal_errors.WrapStore("CreateTicket", err)
}

// Ticket returns the ticket in whatever state it is in.
func (s *Storage) Ticket(ctx context.Context, id domain.TicketId) (domain.Ticket, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	t, err := scanTicket(s.db.QueryRowContext(ctx, "SELECT "+ticketColumns+" FROM tickets WHERE id = $1", id))
	if err != nil {
		return domain.Ticket{}, notFoundOr("Ticket", "Ticket", err)
	}
	return t, nil
}

// Tickets lists active tickets newest first.
func (s *Storage) Tickets(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	query := "SELECT " + ticketColumns + " FROM tickets WHERE NOT deleted"
	var args []any
	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		args = append(args, shared_pg.ContainsPattern(kw))
		n := len(args)
		query += fmt.Sprintf(` AND (LOWER(title) LIKE $%d ESCAPE '\' OR LOWER(body) LIKE $%d ESCAPE '\')`, n, n)
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Creator != "" {
		args = append(args, filter.Creator)
		query += fmt.Sprintf(" AND creator_username = $%d", len(args))
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, internal_errors.WrapStore("Tickets", fmt.Errorf("failed to query tickets: %w", err))
	}
	defer rows.Close()

	tickets := []domain.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, internal_errors.WrapStore("Tickets", fmt.Errorf("failed to scan ticket: %w", err))
		}
		tickets = append(tickets, t)
	}
	return tickets, internal_errors.WrapStore("Tickets", rows.Err())
}

func (s *Storage) UpdateTicket(ctx context.Context, id domain.TicketId, data domain.TicketCreationData) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		"UPDATE tickets SET title = $1, body = $2 WHERE id = $3 AND NOT deleted", data.Title, data.Body, id)
	if err != nil {
		return false, internal_errors.WrapStore("UpdateTicket", fmt.Errorf("failed to update ticket: %w", err))
	}
	ok, err := affected(res)
	return ok, internal_errors.WrapStore("UpdateTicket", err)
}

// CloseTicket moves an OPEN ticket to CLOSED. False if it was not open.
func (s *Storage) CloseTicket(ctx context.Context, id domain.TicketId) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		"UPDATE tickets SET status = $1 WHERE id = $2 AND status = $3 AND NOT deleted",
		string(domain.TicketClosed), id, string(domain.TicketOpen))
	if err != nil {
		return false, internal_errors.WrapStore("CloseTicket", fmt.Errorf("failed to close ticket: %w", err))
	}
	ok, err := affected(res)
	return ok, internal_errors.WrapStore("CloseTicket", err)
}

// ReopenTicket creates a new OPEN ticket linked to the CLOSED ticket from.
// The closed ticket itself is left untouched. InvalidId if from is not a
// closed, active ticket.
func (s *Storage) ReopenTicket(ctx context.Context, from domain.TicketId, creator domain.UserName, data domain.TicketCreationData) (domain.TicketId, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	id := domain.InvalidId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var status string
		err := tx.QueryRowContext(ctx,
			"SELECT status FROM tickets WHERE id = $1 AND NOT deleted FOR UPDATE", from).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to lock ticket: %w", err)
		}
		if domain.TicketStatus(status) != domain.TicketClosed {
			return nil
		}
		id, err = s.insertTicket(ctx, tx, creator, data, &from)
		return err
	})
	if err != nil {
		return domain.InvalidId, internal_errors.WrapStore("ReopenTicket", err)
	}
	return id, nil
}

// MarkTicketDeleted rewrites the ticket with its sentinel title. Comments
// stay attached.
func (s *Storage) MarkTicketDeleted(ctx context.Context, id domain.TicketId) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		"UPDATE tickets SET title = $1, body = '', deleted = TRUE WHERE id = $2", domain.DeletedTicketTitle, id)
	if err != nil {
		return false, internal_errors.WrapStore("MarkTicketDeleted", fmt.Errorf("failed to delete ticket: %w", err))
	}
	ok, err := affected(res)
	return ok, internal_errors.WrapStore("MarkTicketDeleted", err)
}

// AddTicketComment inserts only while the ticket is OPEN and active; the
// status check and the insert are one statement. InvalidId otherwise.
func (s *Storage) AddTicketComment(ctx context.Context, ticketId domain.TicketId, author domain.UserName, content string) (domain.CommentId, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	var id domain.CommentId
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO ticket_comments (ticket_id, author_username, content)
		SELECT $1::bigint, $2::text, $3::text
		WHERE EXISTS (SELECT 1 FROM tickets WHERE id = $1 AND status = $4 AND NOT deleted)
		RETURNING id`,
		ticketId, author, content, string(domain.TicketOpen)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.InvalidId, nil
	}
	if err != nil {
		return domain.InvalidId, internal_errors.WrapStore("AddTicketComment", fmt.Errorf("failed to insert comment: %w", err))
	}
	return id, nil
}

func (s *Storage) TicketComments(ctx context.Context, ticketId domain.TicketId) ([]domain.TicketComment, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ticket_id, author_username, content, created_at FROM ticket_comments
		WHERE ticket_id = $1 ORDER BY created_at ASC, id ASC`, ticketId)
	if err != nil {
		return nil, internal_errors.WrapStore("TicketComments", fmt.Errorf("failed to query comments: %w", err))
	}
	defer rows.Close()

	comments := []domain.TicketComment{}
	for rows.Next() {
		var c domain.TicketComment
		if err := rows.Scan(&c.Id, &c.TicketId, &c.Author, &c.Content, &c.CreatedAt); err != nil {
			return nil, internal_errors.WrapStore("TicketComments", fmt.Errorf("failed to scan comment: %w", err))
		}
		comments = append(comments, c)
	}
	return comments, internal_errors.WrapStore("TicketComments", rows.Err())
}

// =========================================================================
// Internal Methods
// =========================================================================

func (s *Storage) insertTicket(ctx context.Context, q Querier, creator domain.UserName, data domain.TicketCreationData, reopenedFrom *domain.TicketId) (domain.TicketId, error) {
	var from sql.NullInt64
	if reopenedFrom != nil {
		from = sql.NullInt64{Int64: *reopenedFrom, Valid: true}
	}
	var id domain.TicketId
	err := q.QueryRowContext(ctx, `
		INSERT INTO tickets (title, body, creator_username, status, reopened_from_id)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		data.Title, data.Body, creator, string(domain.TicketOpen), from).Scan(&id)
	if err != nil {
		return domain.InvalidId, fmt.Errorf("failed to insert ticket: %w", err)
	}
	return id, nil
}

func scanTicket(row scanner) (domain.Ticket, error) {
	var t domain.Ticket
	var status string
	var from sql.NullInt64
	var deleted bool
	if err := row.Scan(&t.Id, &t.Title, &t.Body, &t.Creator, &status, &from, &t.CreatedAt, &deleted); err != nil {
		return domain.Ticket{}, err
	}
	t.Status = domain.TicketStatus(status)
	if from.Valid {
		id := from.Int64
		t.ReopenedFrom = &id
	}
	t.State = domain.StateFromDeleted(deleted)
	return t, nil
}
