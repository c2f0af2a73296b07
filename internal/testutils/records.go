package testutils

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tatame-api/internal/domain"
	"github.com/stretchr/testify/require"
)

// NewSessionDraft returns a valid session draft on date.
func NewSessionDraft(date domain.Date) domain.SessionDraft {
	return domain.SessionDraft{
		Date:       date,
		Type:       domain.SessionTypeAula,
		Techniques: []string{"armlock", "triangle"},
		Notes:      "good class",
		Effort:     3,
	}
}

// NewTechniqueDraft returns a valid technique draft.
func NewTechniqueDraft(name string) domain.TechniqueDraft {
	return domain.TechniqueDraft{
		Name:     name,
		Category: domain.CategoryFinalizacao,
		Position: domain.PositionGuardaFechada,
		Notes:    "from closed guard",
	}
}

// NewGoalDraft returns a valid goal draft due on deadline.
func NewGoalDraft(title string, deadline domain.Date) domain.GoalDraft {
	return domain.GoalDraft{
		Title:       title,
		Description: "train consistently",
		Deadline:    deadline,
	}
}

// MustInsertSession stores a session for owner.
func MustInsertSession(t *testing.T, stores TestStores, owner uuid.UUID, date domain.Date) *domain.TrainingSession {
	t.Helper()
	s, err := domain.NewTrainingSession(owner, NewSessionDraft(date))
	require.NoError(t, err)
	require.NoError(t, stores.Sessions.Create(context.Background(), s))
	return s
}

// MustInsertTechnique stores a technique for owner.
func MustInsertTechnique(t *testing.T, stores TestStores, owner uuid.UUID, name string) *domain.Technique {
	t.Helper()
	tech, err := domain.NewTechnique(owner, NewTechniqueDraft(name))
	require.NoError(t, err)
	require.NoError(t, stores.Techniques.Create(context.Background(), tech))
	return tech
}

// MustInsertGoal stores a goal for owner.
func MustInsertGoal(t *testing.T, stores TestStores, owner uuid.UUID, title string, deadline domain.Date) *domain.Goal {
	t.Helper()
	g, err := domain.NewGoal(owner, NewGoalDraft(title, deadline))
	require.NoError(t, err)
	require.NoError(t, stores.Goals.Create(context.Background(), g))
	return g
}
