package service

import (
	"context"
	"sync"
	"time"

	"github.com/campusdesk/campusdesk/backend/internal/metrics"
	"github.com/campusdesk/campusdesk/shared/logger"
)

// InvitationSweeper deletes expired invitation codes on a timer, so codes
// nobody looks at again do not linger until the next lazy read.
type InvitationSweeper struct {
	storage        SweepStorage
	ttl            time.Duration
	now            func() time.Time
	mu             sync.Mutex
	lastSweepStats SweepStats
}

// SweepStats describes the last sweep run.
type SweepStats struct {
	RunAt      time.Time
	Cutoff     time.Time
	Deleted    int64
	DurationMs int64
}

type SweepStorage interface {
	DeleteInvitationsCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

func NewInvitationSweeper(storage SweepStorage, ttl time.Duration) *InvitationSweeper {
	return &InvitationSweeper{
		storage: storage,
		ttl:     ttl,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// StartBackgroundSweep runs RunSweep every interval until ctx is done.
func (s *InvitationSweeper) StartBackgroundSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	log := logger.Component("invitation_sweeper")
	log.Info("started invitation sweeper", "interval", interval, "ttl", s.ttl)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.RunSweep(ctx); err != nil {
					log.Error("invitation sweep failed", "error", err)
					continue
				}
				stats := s.GetLastSweepStats()
				log.Debug("invitation sweep completed",
					"deleted", stats.Deleted,
					"cutoff", stats.Cutoff,
					"duration_ms", stats.DurationMs)
			case <-ctx.Done():
				log.Info("invitation sweeper shutting down")
				return
			}
		}
	}()
}

// RunSweep deletes every code whose lifetime has ended. A code created
// exactly ttl ago is already expired and goes too.
func (s *InvitationSweeper) RunSweep(ctx context.Context) error {
	start := s.now()
	cutoff := start.Add(-s.ttl)

	deleted, err := s.storage.DeleteInvitationsCreatedBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		metrics.InvitationsReclaimed.WithLabelValues(metrics.ReclaimSweep).Add(float64(deleted))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSweepStats = SweepStats{
		RunAt:      start,
		Cutoff:     cutoff,
		Deleted:    deleted,
		DurationMs: time.Since(start).Milliseconds(),
	}
	return nil
}

func (s *InvitationSweeper) GetLastSweepStats() SweepStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSweepStats
}
