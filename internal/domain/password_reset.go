package domain

import (
	"time"

	"github.com/google/uuid"
)

// PasswordReset is a pending single-use reset. Only a hash of the token
// is kept; the token itself is handed to the user by email.
type PasswordReset struct {
	TokenHash string
	UserID    uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the reset can no longer be used at now.
func (r *PasswordReset) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
