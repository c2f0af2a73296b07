package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tatame-api/internal/domain"
)

// PasswordResetStore keeps pending password resets.
type PasswordResetStore interface {
	// Create stores a pending reset.
	Create(ctx context.Context, reset *domain.PasswordReset) error

	// Consume deletes the reset matching tokenHash and returns its user.
	// Returns ErrResetTokenNotFound if no unexpired reset matches at now,
	// so a token works at most once.
	Consume(ctx context.Context, tokenHash string, now time.Time) (uuid.UUID, error)

	// WithTx returns a new PasswordResetStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) PasswordResetStore
}

// RevokedTokenStore records refresh tokens invalidated by sign-out.
type RevokedTokenStore interface {
	// Revoke marks the token id as unusable until expiresAt. Revoking an
	// already revoked id is not an error.
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error

	// IsRevoked reports whether the token id has been revoked.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
