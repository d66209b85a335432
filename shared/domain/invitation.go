package domain

import "time"

type Invitation struct {
	Code      InvitationCode
	Email     Email
	Roles     string
	CreatedAt time.Time
}

// Expired reports whether the code is past its lifetime at now. A code is
// already expired at exactly CreatedAt+ttl. A zero CreatedAt is always
// expired.
func (i Invitation) Expired(now time.Time, ttl time.Duration) bool {
	if i.CreatedAt.IsZero() {
		return true
	}
	return !now.Before(i.CreatedAt.Add(ttl))
}
