package service

import (
	"context"
	"strings"

	"github.com/campusdesk/campusdesk/backend/internal/utils"
	"github.com/campusdesk/campusdesk/shared/domain"
	internal_errors "github.com/campusdesk/campusdesk/shared/errors"
	"github.com/campusdesk/campusdesk/shared/logger"
)

// Ticket is the staff helpdesk. A ticket goes OPEN -> CLOSED once; reopening
// creates a new OPEN ticket pointing back at the closed one.
type Ticket struct {
	storage TicketStorage
}

type TicketStorage interface {
	CreateTicket(ctx context.Context, creator domain.UserName, data domain.TicketCreationData) (domain.TicketId, error)
	Ticket(ctx context.Context, id domain.TicketId) (domain.Ticket, error)
	Tickets(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error)
	UpdateTicket(ctx context.Context, id domain.TicketId, data domain.TicketCreationData) (bool, error)
	CloseTicket(ctx context.Context, id domain.TicketId) (bool, error)
	ReopenTicket(ctx context.Context, from domain.TicketId, creator domain.UserName, data domain.TicketCreationData) (domain.TicketId, error)
	MarkTicketDeleted(ctx context.Context, id domain.TicketId) (bool, error)
	AddTicketComment(ctx context.Context, ticketId domain.TicketId, author domain.UserName, content string) (domain.CommentId, error)
	TicketComments(ctx context.Context, ticketId domain.TicketId) ([]domain.TicketComment, error)
}

func NewTicket(storage TicketStorage) *Ticket {
	return &Ticket{storage: storage}
}

func (t *Ticket) CreateTicket(ctx context.Context, creator domain.User, data domain.TicketCreationData) (domain.TicketId, error) {
	if !creator.CanModerate() {
		return domain.InvalidId, nil
	}
	data.Title = strings.TrimSpace(data.Title)
	if err := utils.Validate(data); err != nil {
		return domain.InvalidId, err
	}
	return t.storage.CreateTicket(ctx, creator.UserName, data)
}

func (t *Ticket) GetTicket(ctx context.Context, id domain.TicketId) (domain.Ticket, error) {
	return t.storage.Ticket(ctx, id)
}

func (t *Ticket) ListTickets(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error) {
	filter.Keyword = strings.TrimSpace(filter.Keyword)
	return t.storage.Tickets(ctx, filter)
}

func (t *Ticket) UpdateTicket(ctx context.Context, editor domain.User, id domain.TicketId, data domain.TicketCreationData) (bool, error) {
	data.Title = strings.TrimSpace(data.Title)
	if err := utils.Validate(data); err != nil {
		return false, err
	}
	ok, err := t.allowed(ctx, id, editor, ownerStaffOrAdmin)
	if err != nil || !ok {
		return false, err
	}
	return t.storage.UpdateTicket(ctx, id, data)
}

// Close is false for tickets that are already closed.
func (t *Ticket) Close(ctx context.Context, actor domain.User, id domain.TicketId) (bool, error) {
	ok, err := t.allowed(ctx, id, actor, ownerOrAdmin)
	if err != nil || !ok {
		return false, err
	}
	return t.storage.CloseTicket(ctx, id)
}

// Reopen files a new OPEN ticket linked to the closed ticket id. The closed
// ticket stays closed.
func (t *Ticket) Reopen(ctx context.Context, actor domain.User, id domain.TicketId, data domain.TicketCreationData) (domain.TicketId, error) {
	data.Title = strings.TrimSpace(data.Title)
	if err := utils.Validate(data); err != nil {
		return domain.InvalidId, err
	}
	ok, err := t.allowed(ctx, id, actor, ownerOrAdmin)
	if err != nil || !ok {
		return domain.InvalidId, err
	}
	newId, err := t.storage.ReopenTicket(ctx, id, actor.UserName, data)
	if err != nil {
		return domain.InvalidId, err
	}
	if newId != domain.InvalidId {
		logger.Log.Info("ticket reopened", "from", id, "ticket_id", newId, "by", actor.UserName)
	}
	return newId, nil
}

// VisuallyDeleteTicket replaces the ticket's content with the deleted
// sentinel. Owners, staff and admins may do it.
func (t *Ticket) VisuallyDeleteTicket(ctx context.Context, id domain.TicketId, requester domain.User) (bool, error) {
	ok, err := t.allowed(ctx, id, requester, ownerOrModerator)
	if err != nil || !ok {
		return false, err
	}
	return t.storage.MarkTicketDeleted(ctx, id)
}

// AddComment is InvalidId on a closed or deleted ticket.
func (t *Ticket) AddComment(ctx context.Context, author domain.User, ticketId domain.TicketId, content string) (domain.CommentId, error) {
	if !author.CanModerate() {
		return domain.InvalidId, nil
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.InvalidId, internal_errors.NewValidationError("Comment is empty")
	}
	return t.storage.AddTicketComment(ctx, ticketId, author.UserName, content)
}

func (t *Ticket) Comments(ctx context.Context, ticketId domain.TicketId) ([]domain.TicketComment, error) {
	return t.storage.TicketComments(ctx, ticketId)
}

type ticketRule func(actor domain.User, ticket domain.Ticket) bool

func ownerOrAdmin(actor domain.User, ticket domain.Ticket) bool {
	return actor.IsAdmin() || ticket.Creator == actor.UserName
}

func ownerStaffOrAdmin(actor domain.User, ticket domain.Ticket) bool {
	return actor.IsAdmin() || (actor.CanModerate() && ticket.Creator == actor.UserName)
}

func ownerOrModerator(actor domain.User, ticket domain.Ticket) bool {
	return actor.CanModerate() || ticket.Creator == actor.UserName
}

// allowed loads the ticket and applies rule. A missing ticket is not an
// error, just a refusal.
func (t *Ticket) allowed(ctx context.Context, id domain.TicketId, actor domain.User, rule ticketRule) (bool, error) {
	ticket, err := t.storage.Ticket(ctx, id)
	if internal_errors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return rule(actor, ticket), nil
}
