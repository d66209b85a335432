package service

import (
	"context"
	"time"

	"github.com/campusdesk/campusdesk/shared/domain"
)

// --- Mock for PostStorage ---

type MockPostStorage struct {
	CreatePostFunc          func(ctx context.Context, author domain.UserName, data domain.PostCreationData) (domain.PostId, error)
	GetPostFunc             func(ctx context.Context, id domain.PostId) (domain.Post, error)
	ListPostsFunc           func(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error)
	UpdatePostFunc          func(ctx context.Context, id domain.PostId, author domain.UserName, data domain.PostUpdateData) (bool, error)
	VisuallyDeletePostFunc  func(ctx context.Context, id domain.PostId, author domain.UserName) (bool, error)
	ModerateDeletePostFunc  func(ctx context.Context, id domain.PostId) (bool, error)
	CreateReplyFunc         func(ctx context.Context, author domain.UserName, data domain.ReplyCreationData) (domain.ReplyId, int64, error)
	RepliesForPostFunc      func(ctx context.Context, postId domain.PostId) ([]domain.Reply, error)
	VisuallyDeleteReplyFunc func(ctx context.Context, id domain.ReplyId, author domain.UserName) (bool, error)
}

func (m *MockPostStorage) CreatePost(ctx context.Context, author domain.UserName, data domain.PostCreationData) (domain.PostId, error) {
	if m.CreatePostFunc != nil {
		return m.CreatePostFunc(ctx, author, data)
	}
	return 1, nil
}

func (m *MockPostStorage) GetPost(ctx context.Context, id domain.PostId) (domain.Post, error) {
	if m.GetPostFunc != nil {
		return m.GetPostFunc(ctx, id)
	}
	return domain.Post{Id: id}, nil
}

func (m *MockPostStorage) ListPosts(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	if m.ListPostsFunc != nil {
		return m.ListPostsFunc(ctx, filter)
	}
	return []domain.Post{}, nil
}

func (m *MockPostStorage) UpdatePost(ctx context.Context, id domain.PostId, author domain.UserName, data domain.PostUpdateData) (bool, error) {
	if m.UpdatePostFunc != nil {
		return m.UpdatePostFunc(ctx, id, author, data)
	}
	return true, nil
}

func (m *MockPostStorage) VisuallyDeletePost(ctx context.Context, id domain.PostId, author domain.UserName) (bool, error) {
	if m.VisuallyDeletePostFunc != nil {
		return m.VisuallyDeletePostFunc(ctx, id, author)
	}
	return true, nil
}

func (m *MockPostStorage) ModerateDeletePost(ctx context.Context, id domain.PostId) (bool, error) {
	if m.ModerateDeletePostFunc != nil {
		return m.ModerateDeletePostFunc(ctx, id)
	}
	return true, nil
}

func (m *MockPostStorage) CreateReply(ctx context.Context, author domain.UserName, data domain.ReplyCreationData) (domain.ReplyId, int64, error) {
	if m.CreateReplyFunc != nil {
		return m.CreateReplyFunc(ctx, author, data)
	}
	return 1, 1, nil
}

func (m *MockPostStorage) RepliesForPost(ctx context.Context, postId domain.PostId) ([]domain.Reply, error) {
	if m.RepliesForPostFunc != nil {
		return m.RepliesForPostFunc(ctx, postId)
	}
	return []domain.Reply{}, nil
}

func (m *MockPostStorage) VisuallyDeleteReply(ctx context.Context, id domain.ReplyId, author domain.UserName) (bool, error) {
	if m.VisuallyDeleteReplyFunc != nil {
		return m.VisuallyDeleteReplyFunc(ctx, id, author)
	}
	return true, nil
}

// --- Mock for ReadStateStorage ---

type MockReadStateStorage struct {
	MarkPostAsReadFunc       func(ctx context.Context, postId domain.PostId, user domain.UserName) (bool, error)
	MarkReplyAsReadFunc      func(ctx context.Context, replyId domain.ReplyId, user domain.UserName) (bool, error)
	UnreadCountFunc          func(ctx context.Context, user domain.UserName) (int, error)
	UnreadCountForPostFunc   func(ctx context.Context, postId domain.PostId, user domain.UserName) (int, error)
	UnreadCountsForPostsFunc func(ctx context.Context, postIds []domain.PostId, user domain.UserName) (map[domain.PostId]int, error)
	IsPostReadFunc           func(ctx context.Context, postId domain.PostId, user domain.UserName) (bool, error)
	IsReplyReadFunc          func(ctx context.Context, replyId domain.ReplyId, user domain.UserName) (bool, error)
	ReplyReadStatesFunc      func(ctx context.Context, postId domain.PostId, user domain.UserName) (map[domain.ReplyId]bool, error)
}

func (m *MockReadStateStorage) MarkPostAsRead(ctx context.Context, postId domain.PostId, user domain.UserName) (bool, error) {
	if m.MarkPostAsReadFunc != nil {
		return m.MarkPostAsReadFunc(ctx, postId, user)
	}
	return true, nil
}

func (m *MockReadStateStorage) MarkReplyAsRead(ctx context.Context, replyId domain.ReplyId, user domain.UserName) (bool, error) {
	if m.MarkReplyAsReadFunc != nil {
		return m.MarkReplyAsReadFunc(ctx, replyId, user)
	}
	return true, nil
}

func (m *MockReadStateStorage) UnreadCount(ctx context.Context, user domain.UserName) (int, error) {
	if m.UnreadCountFunc != nil {
		return m.UnreadCountFunc(ctx, user)
	}
	return 0, nil
}

func (m *MockReadStateStorage) UnreadCountForPost(ctx context.Context, postId domain.PostId, user domain.UserName) (int, error) {
	if m.UnreadCountForPostFunc != nil {
		return m.UnreadCountForPostFunc(ctx, postId, user)
	}
	return 0, nil
}

func (m *MockReadStateStorage) UnreadCountsForPosts(ctx context.Context, postIds []domain.PostId, user domain.UserName) (map[domain.PostId]int, error) {
	if m.UnreadCountsForPostsFunc != nil {
		return m.UnreadCountsForPostsFunc(ctx, postIds, user)
	}
	return map[domain.PostId]int{}, nil
}

func (m *MockReadStateStorage) IsPostRead(ctx context.Context, postId domain.PostId, user domain.UserName) (bool, error) {
	if m.IsPostReadFunc != nil {
		return m.IsPostReadFunc(ctx, postId, user)
	}
	return false, nil
}

func (m *MockReadStateStorage) IsReplyRead(ctx context.Context, replyId domain.ReplyId, user domain.UserName) (bool, error) {
	if m.IsReplyReadFunc != nil {
		return m.IsReplyReadFunc(ctx, replyId, user)
	}
	return false, nil
}

func (m *MockReadStateStorage) ReplyReadStates(ctx context.Context, postId domain.PostId, user domain.UserName) (map[domain.ReplyId]bool, error) {
	if m.ReplyReadStatesFunc != nil {
		return m.ReplyReadStatesFunc(ctx, postId, user)
	}
	return map[domain.ReplyId]bool{}, nil
}

// --- Mock for InvitationStorage ---

type MockInvitationStorage struct {
	SaveInvitationFunc                 func(ctx context.Context, inv domain.Invitation) (bool, error)
	InvitationFunc                     func(ctx context.Context, code domain.InvitationCode) (domain.Invitation, bool, error)
	InvitationsByEmailFunc             func(ctx context.Context, email domain.Email) ([]domain.Invitation, error)
	InvitationsFunc                    func(ctx context.Context) ([]domain.Invitation, error)
	DeleteInvitationFunc               func(ctx context.Context, code domain.InvitationCode) (bool, error)
	DeleteInvitationsCreatedBeforeFunc func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *MockInvitationStorage) SaveInvitation(ctx context.Context, inv domain.Invitation) (bool, error) {
	if m.SaveInvitationFunc != nil {
		return m.SaveInvitationFunc(ctx, inv)
	}
	return true, nil
}

func (m *MockInvitationStorage) Invitation(ctx context.Context, code domain.InvitationCode) (domain.Invitation, bool, error) {
	if m.InvitationFunc != nil {
		return m.InvitationFunc(ctx, code)
	}
	return domain.Invitation{}, false, nil
}

func (m *MockInvitationStorage) InvitationsByEmail(ctx context.Context, email domain.Email) ([]domain.Invitation, error) {
	if m.InvitationsByEmailFunc != nil {
		return m.InvitationsByEmailFunc(ctx, email)
	}
	return []domain.Invitation{}, nil
}

func (m *MockInvitationStorage) Invitations(ctx context.Context) ([]domain.Invitation, error) {
	if m.InvitationsFunc != nil {
		return m.InvitationsFunc(ctx)
	}
	return []domain.Invitation{}, nil
}

func (m *MockInvitationStorage) DeleteInvitation(ctx context.Context, code domain.InvitationCode) (bool, error) {
	if m.DeleteInvitationFunc != nil {
		return m.DeleteInvitationFunc(ctx, code)
	}
	return true, nil
}

func (m *MockInvitationStorage) DeleteInvitationsCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteInvitationsCreatedBeforeFunc != nil {
		return m.DeleteInvitationsCreatedBeforeFunc(ctx, cutoff)
	}
	return 0, nil
}

// --- Mock for ThreadStorage ---

type MockThreadStorage struct {
	ThreadsFunc      func(ctx context.Context) ([]domain.ThreadName, error)
	CreateThreadFunc func(ctx context.Context, name domain.ThreadName) (bool, error)
	RenameThreadFunc func(ctx context.Context, oldName, newName domain.ThreadName) (bool, error)
	DeleteThreadFunc func(ctx context.Context, name domain.ThreadName) (bool, int64, error)
}

func (m *MockThreadStorage) Threads(ctx context.Context) ([]domain.ThreadName, error) {
	if m.ThreadsFunc != nil {
		return m.ThreadsFunc(ctx)
	}
	return []domain.ThreadName{domain.DefaultThread}, nil
}

func (m *MockThreadStorage) CreateThread(ctx context.Context, name domain.ThreadName) (bool, error) {
	if m.CreateThreadFunc != nil {
		return m.CreateThreadFunc(ctx, name)
	}
	return true, nil
}

func (m *MockThreadStorage) RenameThread(ctx context.Context, oldName, newName domain.ThreadName) (bool, error) {
	if m.RenameThreadFunc != nil {
		return m.RenameThreadFunc(ctx, oldName, newName)
	}
	return true, nil
}

func (m *MockThreadStorage) DeleteThread(ctx context.Context, name domain.ThreadName) (bool, int64, error) {
	if m.DeleteThreadFunc != nil {
		return m.DeleteThreadFunc(ctx, name)
	}
	return true, 0, nil
}

// --- Mock for GradingStorage ---

type MockGradingStorage struct {
	GradingParametersFunc      func(ctx context.Context) ([]domain.GradingParameter, error)
	GradingParameterFunc       func(ctx context.Context, id domain.ParamId) (domain.GradingParameter, error)
	AddGradingParameterFunc    func(ctx context.Context, name string, maxScore float64) (domain.ParamId, error)
	UpdateGradingParameterFunc func(ctx context.Context, p domain.GradingParameter) (bool, error)
	DeleteGradingParameterFunc func(ctx context.Context, id domain.ParamId) (bool, error)
	SetStudentScoreFunc        func(ctx context.Context, student domain.UserName, paramId domain.ParamId, score float64) (bool, error)
	StudentScoresFunc          func(ctx context.Context, student domain.UserName) ([]domain.StudentScore, error)
}

func (m *MockGradingStorage) GradingParameters(ctx context.Context) ([]domain.GradingParameter, error) {
	if m.GradingParametersFunc != nil {
		return m.GradingParametersFunc(ctx)
	}
	return []domain.GradingParameter{}, nil
}

func (m *MockGradingStorage) GradingParameter(ctx context.Context, id domain.ParamId) (domain.GradingParameter, error) {
	if m.GradingParameterFunc != nil {
		return m.GradingParameterFunc(ctx, id)
	}
	return domain.GradingParameter{Id: id, Name: "Participation", MaxScore: 20}, nil
}

func (m *MockGradingStorage) AddGradingParameter(ctx context.Context, name string, maxScore float64) (domain.ParamId, error) {
	if m.AddGradingParameterFunc != nil {
		return m.AddGradingParameterFunc(ctx, name, maxScore)
	}
	return 1, nil
}

func (m *MockGradingStorage) UpdateGradingParameter(ctx context.Context, p domain.GradingParameter) (bool, error) {
	if m.UpdateGradingParameterFunc != nil {
		return m.UpdateGradingParameterFunc(ctx, p)
	}
	return true, nil
}

func (m *MockGradingStorage) DeleteGradingParameter(ctx context.Context, id domain.ParamId) (bool, error) {
	if m.DeleteGradingParameterFunc != nil {
		return m.DeleteGradingParameterFunc(ctx, id)
	}
	return true, nil
}

func (m *MockGradingStorage) SetStudentScore(ctx context.Context, student domain.UserName, paramId domain.ParamId, score float64) (bool, error) {
	if m.SetStudentScoreFunc != nil {
		return m.SetStudentScoreFunc(ctx, student, paramId, score)
	}
	return true, nil
}

func (m *MockGradingStorage) StudentScores(ctx context.Context, student domain.UserName) ([]domain.StudentScore, error) {
	if m.StudentScoresFunc != nil {
		return m.StudentScoresFunc(ctx, student)
	}
	return []domain.StudentScore{}, nil
}

// --- Mock for TicketStorage ---

type MockTicketStorage struct {
	CreateTicketFunc      func(ctx context.Context, creator domain.UserName, data domain.TicketCreationData) (domain.TicketId, error)
	TicketFunc            func(ctx context.Context, id domain.TicketId) (domain.Ticket, error)
	TicketsFunc           func(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error)
	UpdateTicketFunc      func(ctx context.Context, id domain.TicketId, data domain.TicketCreationData) (bool, error)
	CloseTicketFunc       func(ctx context.Context, id domain.TicketId) (bool, error)
	ReopenTicketFunc      func(ctx context.Context, from domain.TicketId, creator domain.UserName, data domain.TicketCreationData) (domain.TicketId, error)
	MarkTicketDeletedFunc func(ctx context.Context, id domain.TicketId) (bool, error)
	AddTicketCommentFunc  func(ctx context.Context, ticketId domain.TicketId, author domain.UserName, content string) (domain.CommentId, error)
	TicketCommentsFunc    func(ctx context.Context, ticketId domain.TicketId) ([]domain.TicketComment, error)
}

func (m *MockTicketStorage) CreateTicket(ctx context.Context, creator domain.UserName, data domain.TicketCreationData) (domain.TicketId, error) {
	if m.CreateTicketFunc != nil {
		return m.CreateTicketFunc(ctx, creator, data)
	}
	return 1, nil
}

func (m *MockTicketStorage) Ticket(ctx context.Context, id domain.TicketId) (domain.Ticket, error) {
	if m.TicketFunc != nil {
		return m.TicketFunc(ctx, id)
	}
	return domain.Ticket{Id: id, Status: domain.TicketOpen}, nil
}

func (m *MockTicketStorage) Tickets(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error) {
	if m.TicketsFunc != nil {
		return m.TicketsFunc(ctx, filter)
	}
	return []domain.Ticket{}, nil
}

func (m *MockTicketStorage) UpdateTicket(ctx context.Context, id domain.TicketId, data domain.TicketCreationData) (bool, error) {
	if m.UpdateTicketFunc != nil {
		return m.UpdateTicketFunc(ctx, id, data)
	}
	return true, nil
}

func (m *MockTicketStorage) CloseTicket(ctx context.Context, id domain.TicketId) (bool, error) {
	if m.CloseTicketFunc != nil {
		return m.CloseTicketFunc(ctx, id)
	}
	return true, nil
}

func (m *MockTicketStorage) ReopenTicket(ctx context.Context, from domain.TicketId, creator domain.UserName, data domain.TicketCreationData) (domain.TicketId, error) {
	if m.ReopenTicketFunc != nil {
		return m.ReopenTicketFunc(ctx, from, creator, data)
	}
	return from + 1, nil
}

func (m *MockTicketStorage) MarkTicketDeleted(ctx context.Context, id domain.TicketId) (bool, error) {
	if m.MarkTicketDeletedFunc != nil {
		return m.MarkTicketDeletedFunc(ctx, id)
	}
	return true, nil
}

func (m *MockTicketStorage) AddTicketComment(ctx context.Context, ticketId domain.TicketId, author domain.UserName, content string) (domain.CommentId, error) {
	if m.AddTicketCommentFunc != nil {
		return m.AddTicketCommentFunc(ctx, ticketId, author, content)
	}
	return 1, nil
}

func (m *MockTicketStorage) TicketComments(ctx context.Context, ticketId domain.TicketId) ([]domain.TicketComment, error) {
	if m.TicketCommentsFunc != nil {
		return m.TicketCommentsFunc(ctx, ticketId)
	}
	return []domain.TicketComment{}, nil
}

// --- Mock for FeedbackStorage ---

type MockFeedbackStorage struct {
	SaveFeedbackFunc     func(ctx context.Context, sender domain.UserName, data domain.FeedbackCreationData) (domain.FeedbackId, error)
	FeedbackFunc         func(ctx context.Context, id domain.FeedbackId) (domain.Feedback, error)
	FeedbackListFunc     func(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error)
	MarkFeedbackReadFunc func(ctx context.Context, id domain.FeedbackId) (bool, error)
	DeleteFeedbackFunc   func(ctx context.Context, id domain.FeedbackId) (bool, error)
}

func (m *MockFeedbackStorage) SaveFeedback(ctx context.Context, sender domain.UserName, data domain.FeedbackCreationData) (domain.FeedbackId, error) {
	if m.SaveFeedbackFunc != nil {
		return m.SaveFeedbackFunc(ctx, sender, data)
	}
	return 1, nil
}

func (m *MockFeedbackStorage) Feedback(ctx context.Context, id domain.FeedbackId) (domain.Feedback, error) {
	if m.FeedbackFunc != nil {
		return m.FeedbackFunc(ctx, id)
	}
	return domain.Feedback{Id: id}, nil
}

func (m *MockFeedbackStorage) FeedbackList(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error) {
	if m.FeedbackListFunc != nil {
		return m.FeedbackListFunc(ctx, filter)
	}
	return []domain.Feedback{}, nil
}

func (m *MockFeedbackStorage) MarkFeedbackRead(ctx context.Context, id domain.FeedbackId) (bool, error) {
	if m.MarkFeedbackReadFunc != nil {
		return m.MarkFeedbackReadFunc(ctx, id)
	}
	return true, nil
}

func (m *MockFeedbackStorage) DeleteFeedback(ctx context.Context, id domain.FeedbackId) (bool, error) {
	if m.DeleteFeedbackFunc != nil {
		return m.DeleteFeedbackFunc(ctx, id)
	}
	return true, nil
}

// --- Mock for AccountStorage ---

type MockAccountStorage struct {
	CreateUserFromInvitationFunc func(ctx context.Context, user domain.User, code domain.InvitationCode) (domain.UserId, error)
	CreateFirstUserFunc          func(ctx context.Context, user domain.User) (domain.UserId, error)
	UserFunc                     func(ctx context.Context, name domain.UserName) (domain.User, error)
	UserNamesFunc                func(ctx context.Context) ([]domain.UserName, error)
	CountUsersFunc               func(ctx context.Context) (int, error)
	DeleteUserFunc               func(ctx context.Context, name domain.UserName) (bool, error)
}

func (m *MockAccountStorage) CreateUserFromInvitation(ctx context.Context, user domain.User, code domain.InvitationCode) (domain.UserId, error) {
	if m.CreateUserFromInvitationFunc != nil {
		return m.CreateUserFromInvitationFunc(ctx, user, code)
	}
	return 1, nil
}

func (m *MockAccountStorage) CreateFirstUser(ctx context.Context, user domain.User) (domain.UserId, error) {
	if m.CreateFirstUserFunc != nil {
		return m.CreateFirstUserFunc(ctx, user)
	}
	return 1, nil
}

func (m *MockAccountStorage) User(ctx context.Context, name domain.UserName) (domain.User, error) {
	if m.UserFunc != nil {
		return m.UserFunc(ctx, name)
	}
	return domain.User{UserName: name}, nil
}

func (m *MockAccountStorage) UserNames(ctx context.Context) ([]domain.UserName, error) {
	if m.UserNamesFunc != nil {
		return m.UserNamesFunc(ctx)
	}
	return []domain.UserName{}, nil
}

func (m *MockAccountStorage) CountUsers(ctx context.Context) (int, error) {
	if m.CountUsersFunc != nil {
		return m.CountUsersFunc(ctx)
	}
	return 0, nil
}

func (m *MockAccountStorage) DeleteUser(ctx context.Context, name domain.UserName) (bool, error) {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, name)
	}
	return true, nil
}

// --- Mock for InvitationResolver ---

type MockInvitationResolver struct {
	ResolveEmailFunc func(ctx context.Context, code domain.InvitationCode) (domain.Email, error)
	ResolveRoleFunc  func(ctx context.Context, code domain.InvitationCode) (string, error)
}

func (m *MockInvitationResolver) ResolveEmail(ctx context.Context, code domain.InvitationCode) (domain.Email, error) {
	if m.ResolveEmailFunc != nil {
		return m.ResolveEmailFunc(ctx, code)
	}
	return "", nil
}

func (m *MockInvitationResolver) ResolveRole(ctx context.Context, code domain.InvitationCode) (string, error) {
	if m.ResolveRoleFunc != nil {
		return m.ResolveRoleFunc(ctx, code)
	}
	return "", nil
}

// --- Mock for Renderer ---

type MockRenderer struct{}

func (MockRenderer) Render(text string) string {
	return "<p>" + text + "</p>"
}

// --- Shared fixtures ---

var (
	adminUser   = domain.User{Id: 1, UserName: "admin", Roles: domain.Roles{Admin: true}}
	staffUser   = domain.User{Id: 2, UserName: "staff", Roles: domain.Roles{Staff: true}}
	otherStaff  = domain.User{Id: 3, UserName: "staff2", Roles: domain.Roles{Staff: true}}
	studentUser = domain.User{Id: 4, UserName: "student", Roles: domain.Roles{Student: true}}
)
