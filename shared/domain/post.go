package domain

import "time"

const (
	DeletedPostTitle    = "Post deleted"
	DeletedReplyContent = "Reply deleted"
)

type Post struct {
	Id        PostId
	Title     string
	Body      string
	Author    UserName
	Thread    ThreadName
	CreatedAt time.Time
	State     ContentState
}

// to iterate thru layers: service -> storage
type PostCreationData struct {
	Title  string     `validate:"required,max=200"`
	Body   string     `validate:"max=20000"`
	Thread ThreadName `validate:"max=64"`
}

type PostUpdateData struct {
	Title string `validate:"required,max=200"`
	Body  string `validate:"max=20000"`
}

type Reply struct {
	Id        ReplyId
	PostId    PostId
	Content   string
	Author    UserName
	CreatedAt time.Time
	State     ContentState
}

type ReplyCreationData struct {
	PostId  PostId `validate:"required,gt=0"`
	Content string `validate:"required,max=10000"`
}

type PostFilter struct {
	Keyword string
	Thread  ThreadName
}

// PostView is a post opened by a specific reader.
type PostView struct {
	Post        Post
	BodyHTML    string
	Replies     []ReplyView
	UnreadCount int
}

type ReplyView struct {
	Reply       Reply
	ContentHTML string
	Read        bool
}
