package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tatame-api/internal/domain"
)

// RecordStore is the owner-scoped collection behind one resource kind.
// Every query is filtered by owner; no method can reach another owner's
// records.
type RecordStore[R any] interface {
	// Create inserts record and assigns its ID and CreatedAt.
	Create(ctx context.Context, record *R) error

	// ListByOwner returns all of the owner's records in the kind's default
	// order. An owner with no records gets an empty slice and no error.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*R, error)

	// CountByOwner counts the owner's records. A non-empty status restricts
	// the count to records in that status.
	CountByOwner(ctx context.Context, ownerID uuid.UUID, status string) (int, error)
}

// StatusStore is a RecordStore whose records carry a mutable status.
type StatusStore[R any, S ~string] interface {
	RecordStore[R]

	// UpdateStatus sets the status of the record matching both id and
	// ownerID and returns the updated record. A record owned by someone
	// else is reported exactly like a missing one, with a wrapped ErrNotFound.
	UpdateStatus(ctx context.Context, id, ownerID uuid.UUID, status S) (*R, error)
}

// SessionStore persists training sessions, newest date first.
type SessionStore = RecordStore[domain.TrainingSession]

// TechniqueStore persists techniques, newest first.
type TechniqueStore = StatusStore[domain.Technique, domain.TechniqueStatus]

// GoalStore persists goals, newest first.
type GoalStore = StatusStore[domain.Goal, domain.GoalStatus]
