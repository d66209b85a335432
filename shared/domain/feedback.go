package domain

import "time"

type Feedback struct {
	Id        FeedbackId
	Sender    UserName
	Receiver  UserName
	Subject   string
	Content   string
	CreatedAt time.Time
	Read      bool
}

type FeedbackCreationData struct {
	Receiver UserName `validate:"required"`
	Subject  string   `validate:"required,max=200"`
	Content  string   `validate:"required,max=10000"`
}

// empty Receiver matches everyone
type FeedbackFilter struct {
	Receiver   UserName
	UnreadOnly bool
}
