package domain

import "time"

type TicketStatus string

const (
	TicketOpen   TicketStatus = "OPEN"
	TicketClosed TicketStatus = "CLOSED"

	DeletedTicketTitle = "Ticket deleted"
)

type Ticket struct {
	Id           TicketId
	Title        string
	Body         string
	Creator      UserName
	Status       TicketStatus
	ReopenedFrom *TicketId
	CreatedAt    time.Time
	State        ContentState
}

type TicketCreationData struct {
	Title string `validate:"required,max=200"`
	Body  string `validate:"max=20000"`
}

type TicketFilter struct {
	Keyword string
	Status  TicketStatus
	Creator UserName
}

type TicketComment struct {
	Id        CommentId
	TicketId  TicketId
	Author    UserName
	Content   string
	CreatedAt time.Time
}
