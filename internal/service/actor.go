package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tatame-api/internal/domain"
)

// Actor is the authenticated user an operation runs on behalf of. Tier is
// read from the profile for every request, so a tier change made out of
// band takes effect on the next call.
type Actor struct {
	UserID uuid.UUID
	Email  string
	Tier   domain.Tier
}

// Validate returns ErrNoActor for an anonymous actor.
func (a Actor) Validate() error {
	if a.UserID == uuid.Nil {
		return ErrNoActor
	}
	return nil
}

// Clock returns the current time. A nil Clock reads the system clock.
type Clock func() time.Time

// Now returns the current time in UTC.
func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

// Today returns the current calendar day in UTC.
func (c Clock) Today() domain.Date {
	return domain.DateOf(c.Now())
}
