package domain

type (
	UserName = string
	Email    = string
	UserId   = int64

	ThreadName = string

	PostId    = int64
	ReplyId   = int64
	TicketId  = int64
	CommentId = int64

	ParamId    = int64
	FeedbackId = int64

	InvitationCode = string
)

// returned in place of an id when nothing was created
const InvalidId int64 = -1

// ContentState tags soft-deletable content. Deleted rows stay in the store
// with their sentinel text so existing links keep resolving.
type ContentState int

const (
	StateActive ContentState = iota
	StateDeleted
)

func StateFromDeleted(deleted bool) ContentState {
	if deleted {
		return StateDeleted
	}
	return StateActive
}

func (s ContentState) IsDeleted() bool {
	return s == StateDeleted
}

func (s ContentState) String() string {
	if s == StateDeleted {
		return "deleted"
	}
	return "active"
}
