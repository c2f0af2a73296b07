package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tatame-api/internal/domain"
)

// ProfileStore persists the one Profile each user owns. Profiles are keyed
// by user ID and are never deleted.
type ProfileStore interface {
	// Create inserts a new profile.
	// Returns ErrProfileExists if the user already has one.
	Create(ctx context.Context, profile *domain.Profile) error

	// Get retrieves the profile of userID.
	// Returns ErrProfileNotFound if none exists.
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// GetByEmail retrieves a profile by its owner's email.
	// Returns ErrProfileNotFound if none exists.
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)

	// Update writes the self-service fields (name, rank, academy,
	// instructor, start date). It never writes the tier.
	// Returns ErrProfileNotFound if the profile does not exist.
	Update(ctx context.Context, profile *domain.Profile) error

	// SetTier changes the subscription tier. Only trusted out-of-band
	// processes call it.
	// Returns ErrProfileNotFound if the profile does not exist.
	SetTier(ctx context.Context, userID uuid.UUID, tier domain.Tier) error

	// WithTx returns a new ProfileStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProfileStore
}
