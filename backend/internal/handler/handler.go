package handler

import (
	"context"
	"time"

	"github.com/campusdesk/campusdesk/backend/internal/service"
)

// HealthChecker is satisfied by the storage.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type InvitationCounter interface {
	OutstandingCount(ctx context.Context) (int, error)
}

type Sweeper interface {
	RunSweep(ctx context.Context) error
	GetLastSweepStats() service.SweepStats
}

// Handler serves the operational endpoints of the consistency layer.
type Handler struct {
	health      HealthChecker
	invitations InvitationCounter
	sweeper     Sweeper
	pingTimeout time.Duration
}

func New(health HealthChecker, invitations InvitationCounter, sweeper Sweeper) *Handler {
	return &Handler{
		health:      health,
		invitations: invitations,
		sweeper:     sweeper,
		pingTimeout: 2 * time.Second,
	}
}
