package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/campusdesk/campusdesk/backend/internal/metrics"
	"github.com/campusdesk/campusdesk/backend/internal/utils"
	"github.com/campusdesk/campusdesk/shared/domain"
	internal_errors "github.com/campusdesk/campusdesk/shared/errors"
	"github.com/campusdesk/campusdesk/shared/logger"
)

const maxCodeAttempts = 3

// Invitation manages time-limited sign-up codes. Reads of a code are
// read-or-reclaim: an expired code found on the way is deleted before the
// read reports nothing.
type Invitation struct {
	storage InvitationStorage
	ttl     time.Duration
	codeLen int
	now     func() time.Time
}

type InvitationStorage interface {
	SaveInvitation(ctx context.Context, inv domain.Invitation) (bool, error)
	Invitation(ctx context.Context, code domain.InvitationCode) (domain.Invitation, bool, error)
	InvitationsByEmail(ctx context.Context, email domain.Email) ([]domain.Invitation, error)
	Invitations(ctx context.Context) ([]domain.Invitation, error)
	DeleteInvitation(ctx context.Context, code domain.InvitationCode) (bool, error)
	DeleteInvitationsCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

func NewInvitation(storage InvitationStorage, ttl time.Duration, codeLen int) *Invitation {
	return &Invitation{
		storage: storage,
		ttl:     ttl,
		codeLen: codeLen,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Generate issues a fresh code for email carrying the given roles.
func (i *Invitation) Generate(ctx context.Context, email domain.Email, rolesCSV string) (domain.InvitationCode, error) {
	email = utils.NormalizeEmail(email)
	if err := utils.ValidateEmail(email); err != nil {
		return "", err
	}
	roles, err := domain.ParseRoles(rolesCSV)
	if err != nil {
		return "", internal_errors.NewValidationError("%s", err.Error())
	}
	if roles.Empty() {
		return "", internal_errors.NewValidationError("At least one role is required")
	}

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		inv := domain.Invitation{
			Code:      utils.GenerateConfirmationCode(i.codeLen),
			Email:     email,
			Roles:     roles.String(),
			CreatedAt: i.now(),
		}
		saved, err := i.storage.SaveInvitation(ctx, inv)
		if err != nil {
			return "", err
		}
		if saved {
			metrics.InvitationsIssued.Inc()
			return inv.Code, nil
		}
		logger.Log.Warn("invitation code collision", "attempt", attempt)
	}
	return "", &internal_errors.ErrorWithStatusCode{
		Message:    fmt.Sprintf("Could not allocate a unique code after %d attempts", maxCodeAttempts),
		StatusCode: http.StatusConflict,
	}
}

// IsEmailPending reports whether email holds at least one unexpired code.
// Expired codes for the address are reclaimed.
func (i *Invitation) IsEmailPending(ctx context.Context, email domain.Email) (bool, error) {
	invs, err := i.storage.InvitationsByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return false, err
	}
	pending := false
	for _, inv := range invs {
		if !inv.Expired(i.now(), i.ttl) {
			pending = true
			continue
		}
		if err := i.reclaim(ctx, inv.Code); err != nil {
			return false, err
		}
	}
	return pending, nil
}

// ResolveRole returns the role list of a valid code, "" otherwise.
func (i *Invitation) ResolveRole(ctx context.Context, code domain.InvitationCode) (string, error) {
	inv, ok, err := i.lookup(ctx, code)
	if err != nil || !ok {
		return "", err
	}
	return inv.Roles, nil
}

// ResolveEmail returns the address of a valid code, "" otherwise.
func (i *Invitation) ResolveEmail(ctx context.Context, code domain.InvitationCode) (domain.Email, error) {
	inv, ok, err := i.lookup(ctx, code)
	if err != nil || !ok {
		return "", err
	}
	return inv.Email, nil
}

// Consume deletes the code whether or not it expired.
func (i *Invitation) Consume(ctx context.Context, code domain.InvitationCode) (bool, error) {
	return i.storage.DeleteInvitation(ctx, code)
}

// OutstandingCount reclaims every expired code and counts the rest.
func (i *Invitation) OutstandingCount(ctx context.Context) (int, error) {
	invs, err := i.storage.Invitations(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, inv := range invs {
		if !inv.Expired(i.now(), i.ttl) {
			count++
			continue
		}
		if err := i.reclaim(ctx, inv.Code); err != nil {
			return 0, err
		}
	}
	metrics.InvitationsOutstanding.Set(float64(count))
	return count, nil
}

func (i *Invitation) lookup(ctx context.Context, code domain.InvitationCode) (domain.Invitation, bool, error) {
	inv, ok, err := i.storage.Invitation(ctx, code)
	if err != nil || !ok {
		return domain.Invitation{}, false, err
	}
	if inv.Expired(i.now(), i.ttl) {
		return domain.Invitation{}, false, i.reclaim(ctx, code)
	}
	return inv, true, nil
}

func (i *Invitation) reclaim(ctx context.Context, code domain.InvitationCode) error {
	deleted, err := i.storage.DeleteInvitation(ctx, code)
	if err != nil {
		return err
	}
	if deleted {
		metrics.InvitationsReclaimed.WithLabelValues(metrics.ReclaimLazy).Inc()
	}
	return nil
}
