package testutils

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tatame-api/internal/domain"
	"github.com/phrazzld/tatame-api/internal/platform/database"
	"github.com/phrazzld/tatame-api/internal/platform/sqlstore"
	"github.com/phrazzld/tatame-api/internal/store"
	"github.com/stretchr/testify/require"
)

// TestStores holds every store over one database handle.
type TestStores struct {
	Users      *sqlstore.UserStore
	Profiles   *sqlstore.ProfileStore
	Sessions   *sqlstore.SessionStore
	Techniques *sqlstore.TechniqueStore
	Goals      *sqlstore.GoalStore
	Resets     *sqlstore.PasswordResetStore
	Revoked    *sqlstore.RevokedTokenStore
}

// CreateTestStores builds all stores over db.
func CreateTestStores(db *database.DB) TestStores {
	return CreateTestStoresWith(db.DB, db.Backend.Dialect)
}

// CreateTestStoresWith builds all stores over an arbitrary handle, such as
// a transaction.
func CreateTestStoresWith(db store.DBTX, d sqlstore.Dialect) TestStores {
	logger := slog.Default()
	return TestStores{
		Users:      sqlstore.NewUserStore(db, d, logger),
		Profiles:   sqlstore.NewProfileStore(db, d, logger),
		Sessions:   sqlstore.NewSessionStore(db, d, logger),
		Techniques: sqlstore.NewTechniqueStore(db, d, logger),
		Goals:      sqlstore.NewGoalStore(db, d, logger),
		Resets:     sqlstore.NewPasswordResetStore(db, d, logger),
		Revoked:    sqlstore.NewRevokedTokenStore(db, d, logger),
	}
}

// TestPasswordHash is a placeholder hash for users created directly in the
// store; it never verifies.
const TestPasswordHash = "$2a$04$placeholderplaceholderplaceholderplaceholderplaceho"

// MustInsertUser stores a user with a unique email.
func MustInsertUser(t *testing.T, stores TestStores) *domain.User {
	t.Helper()

	user, err := domain.NewUser(fmt.Sprintf("user-%s@example.com", uuid.NewString()[:8]), "password123")
	require.NoError(t, err)
	user.HashedPassword = TestPasswordHash
	user.Password = ""
	require.NoError(t, stores.Users.Create(context.Background(), user))
	return user
}

// MustInsertProfile stores a user and its profile in the given tier.
func MustInsertProfile(t *testing.T, stores TestStores, tier domain.Tier) *domain.Profile {
	t.Helper()
	ctx := context.Background()

	user := MustInsertUser(t, stores)
	profile, err := domain.NewProfile(user.ID, user.Email, domain.ProfileDraft{
		Name:      "Test Athlete",
		Rank:      domain.RankAzul,
		Academy:   "Test Academy",
		StartDate: domain.NewDate(2020, 1, 15),
	})
	require.NoError(t, err)
	require.NoError(t, stores.Profiles.Create(ctx, profile))

	if tier != domain.TierFree {
		require.NoError(t, stores.Profiles.SetTier(ctx, profile.ID, tier))
		profile.Tier = tier
	}
	return profile
}
