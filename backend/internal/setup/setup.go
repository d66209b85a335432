package setup

import (
	"context"

	"github.com/campusdesk/campusdesk/backend/internal/handler"
	"github.com/campusdesk/campusdesk/backend/internal/service"
	"github.com/campusdesk/campusdesk/backend/internal/storage/pg"
	"github.com/campusdesk/campusdesk/shared/config"
	"github.com/campusdesk/campusdesk/shared/markup"
	shared_pg "github.com/campusdesk/campusdesk/shared/storage/pg"
)

// Dependencies holds everything the binaries need, built once from config.
type Dependencies struct {
	Config  *config.Config
	Storage *pg.Storage
	Handler *handler.Handler

	Posts       *service.Post
	ReadState   *service.ReadState
	Invitations *service.Invitation
	Sweeper     *service.InvitationSweeper
	Threads     *service.Thread
	Grading     *service.Grading
	Tickets     *service.Ticket
	Feedback    *service.Feedback
	Accounts    *service.Account
}

// SetupDependencies connects to the database, applies the schema and wires
// every service on top of the one storage.
func SetupDependencies(ctx context.Context, cfg *config.Config, connCfg shared_pg.ConnectionConfig) (*Dependencies, error) {
	storage, err := pg.New(ctx, cfg, connCfg)
	if err != nil {
		return nil, err
	}
	return Wire(cfg, storage), nil
}

// Wire builds the services around an already connected storage.
func Wire(cfg *config.Config, storage *pg.Storage) *Dependencies {
	invitations := service.NewInvitation(storage, cfg.InvitationTTL(), cfg.Public.InvitationCodeLen)
	sweeper := service.NewInvitationSweeper(storage, cfg.InvitationTTL())

	return &Dependencies{
		Config:      cfg,
		Storage:     storage,
		Handler:     handler.New(storage, invitations, sweeper),
		Posts:       service.NewPost(storage, storage, markup.New()),
		ReadState:   service.NewReadState(storage),
		Invitations: invitations,
		Sweeper:     sweeper,
		Threads:     service.NewThread(storage),
		Grading:     service.NewGrading(storage),
		Tickets:     service.NewTicket(storage),
		Feedback:    service.NewFeedback(storage),
		Accounts:    service.NewAccount(storage, invitations),
	}
}
