package sqlstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tatame-api/internal/domain"
	"github.com/phrazzld/tatame-api/internal/store"
	"github.com/phrazzld/tatame-api/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	stores := testutils.CreateTestStores(testutils.NewTestDB(t))
	owner := testutils.MustInsertProfile(t, stores, domain.TierFree)
	other := testutils.MustInsertProfile(t, stores, domain.TierFree)

	t.Run("empty owner lists nothing", func(t *testing.T) {
		sessions, err := stores.Sessions.ListByOwner(ctx, owner.ID)
		require.NoError(t, err)
		assert.NotNil(t, sessions)
		assert.Empty(t, sessions)
	})

	older := testutils.MustInsertSession(t, stores, owner.ID, domain.NewDate(2024, 3, 1))
	newer := testutils.MustInsertSession(t, stores, owner.ID, domain.NewDate(2024, 3, 10))
	sameDayLater := testutils.MustInsertSession(t, stores, owner.ID, domain.NewDate(2024, 3, 1))
	testutils.MustInsertSession(t, stores, other.ID, domain.NewDate(2024, 3, 5))

	t.Run("create assigns id and timestamp", func(t *testing.T) {
		assert.NotEqual(t, uuid.Nil, older.ID)
		assert.False(t, older.CreatedAt.IsZero())
	})

	t.Run("list is owner scoped, newest date first", func(t *testing.T) {
		sessions, err := stores.Sessions.ListByOwner(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, sessions, 3)
		assert.Equal(t, newer.ID, sessions[0].ID)
		assert.Equal(t, sameDayLater.ID, sessions[1].ID)
		assert.Equal(t, older.ID, sessions[2].ID)
	})

	t.Run("round trips every field", func(t *testing.T) {
		sessions, err := stores.Sessions.ListByOwner(ctx, owner.ID)
		require.NoError(t, err)
		got := sessions[2]
		assert.Equal(t, owner.ID, got.OwnerID)
		assert.Equal(t, "2024-03-01", got.Date.String())
		assert.Equal(t, domain.SessionTypeAula, got.Type)
		assert.Equal(t, []string{"armlock", "triangle"}, got.Techniques)
		assert.Equal(t, "good class", got.Notes)
		assert.Equal(t, 3, got.Effort)
		assert.True(t, older.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("count", func(t *testing.T) {
		n, err := stores.Sessions.CountByOwner(ctx, owner.ID, "")
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		n, err = stores.Sessions.CountByOwner(ctx, uuid.New(), "")
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("empty technique list survives", func(t *testing.T) {
		draft := testutils.NewSessionDraft(domain.NewDate(2023, 1, 1))
		draft.Techniques = nil
		s, err := domain.NewTrainingSession(other.ID, draft)
		require.NoError(t, err)
		require.NoError(t, stores.Sessions.Create(ctx, s))

		sessions, err := stores.Sessions.ListByOwner(ctx, other.ID)
		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.Equal(t, []string{}, sessions[1].Techniques)
	})
}

func TestSessionStoreRejectsUnknownOwner(t *testing.T) {
	stores := testutils.CreateTestStores(testutils.NewTestDB(t))

	s, err := domain.NewTrainingSession(uuid.New(), testutils.NewSessionDraft(domain.NewDate(2024, 1, 1)))
	require.NoError(t, err)

	err = stores.Sessions.Create(context.Background(), s)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)

	var storeErr *store.StoreError
	assert.ErrorAs(t, err, &storeErr)
}

func TestTechniqueStore(t *testing.T) {
	ctx := context.Background()
	stores := testutils.CreateTestStores(testutils.NewTestDB(t))
	owner := testutils.MustInsertProfile(t, stores, domain.TierFree)
	other := testutils.MustInsertProfile(t, stores, domain.TierFree)

	first := testutils.MustInsertTechnique(t, stores, owner.ID, "Armlock")
	second := testutils.MustInsertTechnique(t, stores, owner.ID, "Kimura")

	t.Run("newest first", func(t *testing.T) {
		techniques, err := stores.Techniques.ListByOwner(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, techniques, 2)
		assert.Equal(t, second.ID, techniques[0].ID)
		assert.Equal(t, first.ID, techniques[1].ID)
		assert.Equal(t, domain.TechniqueStudying, techniques[1].Status)
		assert.Equal(t, domain.PositionGuardaFechada, techniques[1].Position)
	})

	t.Run("update status by owner", func(t *testing.T) {
		updated, err := stores.Techniques.UpdateStatus(ctx, first.ID, owner.ID, domain.TechniqueMastered)
		require.NoError(t, err)
		assert.Equal(t, first.ID, updated.ID)
		assert.Equal(t, domain.TechniqueMastered, updated.Status)
		assert.Equal(t, "Armlock", updated.Name)

		n, err := stores.Techniques.CountByOwner(ctx, owner.ID, string(domain.TechniqueMastered))
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("another owner cannot update", func(t *testing.T) {
		_, err := stores.Techniques.UpdateStatus(ctx, second.ID, other.ID, domain.TechniqueReview)
		assert.ErrorIs(t, err, store.ErrTechniqueNotFound)
		assert.True(t, store.IsNotFoundError(err))

		techniques, err := stores.Techniques.ListByOwner(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TechniqueStudying, techniques[0].Status)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := stores.Techniques.UpdateStatus(ctx, uuid.New(), owner.ID, domain.TechniqueReview)
		assert.ErrorIs(t, err, store.ErrTechniqueNotFound)
	})

	t.Run("database rejects unknown status", func(t *testing.T) {
		_, err := stores.Techniques.UpdateStatus(ctx, first.ID, owner.ID, domain.TechniqueStatus("forgotten"))
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestGoalStore(t *testing.T) {
	ctx := context.Background()
	stores := testutils.CreateTestStores(testutils.NewTestDB(t))
	owner := testutils.MustInsertProfile(t, stores, domain.TierActive)

	goal := testutils.MustInsertGoal(t, stores, owner.ID, "Faixa roxa", domain.NewDate(2025, 12, 31))

	goals, err := stores.Goals.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "2025-12-31", goals[0].Deadline.String())
	assert.Equal(t, domain.GoalInProgress, goals[0].Status)

	updated, err := stores.Goals.UpdateStatus(ctx, goal.ID, owner.ID, domain.GoalCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.GoalCompleted, updated.Status)
	assert.Equal(t, "Faixa roxa", updated.Title)

	completed, err := stores.Goals.CountByOwner(ctx, owner.ID, string(domain.GoalCompleted))
	require.NoError(t, err)
	assert.Equal(t, 1, completed)

	inProgress, err := stores.Goals.CountByOwner(ctx, owner.ID, string(domain.GoalInProgress))
	require.NoError(t, err)
	assert.Zero(t, inProgress)
}

func TestRecordStoreUsesContext(t *testing.T) {
	stores := testutils.CreateTestStores(testutils.NewTestDB(t))

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := stores.Goals.ListByOwner(ctx, uuid.New())
	assert.Error(t, err)
}
