package handler

import (
	"context"

	"github.com/campusdesk/campusdesk/backend/internal/service"
)

// --- Mock for HealthChecker ---

type MockHealthChecker struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// --- Mock for InvitationCounter ---

type MockInvitationCounter struct {
	OutstandingCountFunc func(ctx context.Context) (int, error)
}

func (m *MockInvitationCounter) OutstandingCount(ctx context.Context) (int, error) {
	if m.OutstandingCountFunc != nil {
		return m.OutstandingCountFunc(ctx)
	}
	return 0, nil
}

// --- Mock for Sweeper ---

type MockSweeper struct {
	RunSweepFunc func(ctx context.Context) error
	Stats        service.SweepStats
}

func (m *MockSweeper) RunSweep(ctx context.Context) error {
	if m.RunSweepFunc != nil {
		return m.RunSweepFunc(ctx)
	}
	return nil
}

func (m *MockSweeper) GetLastSweepStats() service.SweepStats {
	return m.Stats
}

func newTestHandler(health HealthChecker) *Handler {
	if health == nil {
		health = &MockHealthChecker{}
	}
	return New(health, &MockInvitationCounter{}, &MockSweeper{})
}
