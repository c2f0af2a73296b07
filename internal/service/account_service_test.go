package service_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tatame-api/internal/config"
	"github.com/phrazzld/tatame-api/internal/domain"
	"github.com/phrazzld/tatame-api/internal/mocks"
	"github.com/phrazzld/tatame-api/internal/service"
	"github.com/phrazzld/tatame-api/internal/service/auth"
	"github.com/phrazzld/tatame-api/internal/store"
	"github.com/phrazzld/tatame-api/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testAuthConfig = config.AuthConfig{
	JWTSecret:                   "test-secret-that-is-at-least-32-characters",
	TokenLifetimeMinutes:        15,
	RefreshTokenLifetimeMinutes: 60,
	BcryptCost:                  bcrypt.MinCost,
	ResetTokenLifetimeMinutes:   30,
}

type accountFixture struct {
	stores   testutils.TestStores
	accounts service.AccountService
	tokens   auth.JWTService
	mailer   *mocks.MockMailer
	now      *time.Time
}

func newAccountFixture(t *testing.T) accountFixture {
	t.Helper()
	db := testutils.NewTestDB(t)
	stores := testutils.CreateTestStores(db)

	now := time.Now().UTC()
	clock := func() time.Time { return now }

	tokens, err := auth.NewJWTService(testAuthConfig)
	require.NoError(t, err)
	mailer := &mocks.MockMailer{}

	accounts, err := service.NewAccountService(
		service.AccountStores{
			DB:       db,
			Users:    stores.Users,
			Profiles: stores.Profiles,
			Resets:   stores.Resets,
			Revoked:  stores.Revoked,
		},
		tokens,
		auth.NewBcryptVerifier(bcrypt.MinCost),
		mailer,
		testAuthConfig,
		clock,
		nil,
	)
	require.NoError(t, err)
	return accountFixture{stores: stores, accounts: accounts, tokens: tokens, mailer: mailer, now: &now}
}

func registerInput(email string) service.RegisterInput {
	return service.RegisterInput{
		Email:           email,
		Password:        "oss123",
		ConfirmPassword: "oss123",
		Profile: domain.ProfileDraft{
			Name:    "Carlos",
			Rank:    domain.RankAzul,
			Academy: "Tatame Central",
		},
	}
}

func TestRegister(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	pair, err := f.accounts.Register(ctx, registerInput("Carlos@Example.com "))
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Token)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, f.now.Add(15*time.Minute), pair.ExpiresAt)

	claims, err := f.tokens.ValidateToken(ctx, pair.Token)
	require.NoError(t, err)
	assert.Equal(t, pair.UserID, claims.UserID)

	user, err := f.stores.Users.GetByID(ctx, pair.UserID)
	require.NoError(t, err)
	assert.Equal(t, "carlos@example.com", user.Email)
	assert.NotEqual(t, "oss123", user.HashedPassword)

	profile, err := f.stores.Profiles.Get(ctx, pair.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.TierFree, profile.Tier)
	assert.Equal(t, "Carlos", profile.Name)
	assert.Equal(t, domain.DateOf(*f.now), profile.StartDate)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := f.accounts.Register(ctx, registerInput("carlos@example.com"))
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("form validation", func(t *testing.T) {
		tests := []struct {
			name  string
			edit  func(*service.RegisterInput)
			field string
		}{
			{"short password", func(in *service.RegisterInput) { in.Password, in.ConfirmPassword = "abc", "abc" }, "password"},
			{"mismatched confirmation", func(in *service.RegisterInput) { in.ConfirmPassword = "oss124" }, "confirm_password"},
			{"bad email", func(in *service.RegisterInput) { in.Email = "not-an-email" }, "email"},
			{"missing name", func(in *service.RegisterInput) { in.Profile.Name = " " }, "name"},
			{"unknown rank", func(in *service.RegisterInput) { in.Profile.Rank = "Coral" }, "rank"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				in := registerInput(fmt.Sprintf("%s@example.com", tt.field))
				tt.edit(&in)
				_, err := f.accounts.Register(ctx, in)
				var vErr *domain.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, tt.field, vErr.Field)
			})
		}
	})
}

// failingProfiles refuses every insert made inside a transaction.
type failingProfiles struct {
	store.ProfileStore
}

func (p failingProfiles) WithTx(tx *sql.Tx) store.ProfileStore {
	return failingProfiles{ProfileStore: p.ProfileStore.WithTx(tx)}
}

func (p failingProfiles) Create(context.Context, *domain.Profile) error {
	return fmt.Errorf("%w: disk I/O error", store.ErrUnavailable)
}

func TestRegister_ProfileFailureRollsBackUser(t *testing.T) {
	db := testutils.NewTestDB(t)
	stores := testutils.CreateTestStores(db)
	tokens, err := auth.NewJWTService(testAuthConfig)
	require.NoError(t, err)

	accounts, err := service.NewAccountService(
		service.AccountStores{
			DB:       db,
			Users:    stores.Users,
			Profiles: failingProfiles{ProfileStore: stores.Profiles},
			Resets:   stores.Resets,
			Revoked:  stores.Revoked,
		},
		tokens,
		&mocks.MockPasswordVerifier{},
		&mocks.MockMailer{},
		testAuthConfig,
		nil,
		nil,
	)
	require.NoError(t, err)

	_, err = accounts.Register(context.Background(), registerInput("rollback@example.com"))
	require.ErrorIs(t, err, store.ErrUnavailable)

	_, err = stores.Users.GetByEmail(context.Background(), "rollback@example.com")
	assert.ErrorIs(t, err, store.ErrUserNotFound, "user insert must be rolled back")
}

func TestLogin(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	_, err := f.accounts.Register(ctx, registerInput("login@example.com"))
	require.NoError(t, err)

	pair, err := f.accounts.Login(ctx, "LOGIN@example.com", "oss123")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Token)

	_, err = f.accounts.Login(ctx, "login@example.com", "wrong-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = f.accounts.Login(ctx, "ghost@example.com", "oss123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogin_StoreUnavailable(t *testing.T) {
	users := &mocks.TestifyMockUserStore{}
	passwords := &mocks.MockPasswordVerifier{ShouldSucceed: true}
	users.On("GetByEmail", mock.Anything, "down@example.com").
		Return(nil, fmt.Errorf("%w: connection refused", store.ErrUnavailable))

	f := newAccountFixture(t)
	accounts, err := service.NewAccountService(
		service.AccountStores{
			DB:       testutils.NewTestDB(t),
			Users:    users,
			Profiles: f.stores.Profiles,
			Resets:   f.stores.Resets,
			Revoked:  f.stores.Revoked,
		},
		&mocks.MockJWTService{},
		passwords,
		f.mailer,
		testAuthConfig,
		nil,
		nil,
	)
	require.NoError(t, err)

	_, err = accounts.Login(context.Background(), "down@example.com", "whatever")
	assert.ErrorIs(t, err, store.ErrUnavailable)
	assert.False(t, errors.Is(err, service.ErrInvalidCredentials))
	assert.Zero(t, passwords.Compared)
	users.AssertExpectations(t)
}

func TestRefreshAndLogout(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	pair, err := f.accounts.Register(ctx, registerInput("refresh@example.com"))
	require.NoError(t, err)

	rotated, err := f.accounts.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The refresh token that was exchanged cannot be used again.
	_, err = f.accounts.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidRefreshToken)

	// An access token is not a refresh token.
	_, err = f.accounts.Refresh(ctx, rotated.Token)
	assert.ErrorIs(t, err, service.ErrInvalidRefreshToken)

	actor := service.Actor{UserID: pair.UserID, Tier: domain.TierFree}
	other := service.Actor{UserID: uuid.New()}
	assert.ErrorIs(t, f.accounts.Logout(ctx, other, rotated.RefreshToken), service.ErrInvalidRefreshToken)

	require.NoError(t, f.accounts.Logout(ctx, actor, rotated.RefreshToken))
	_, err = f.accounts.Refresh(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidRefreshToken)
}

func TestPasswordReset(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	_, err := f.accounts.Register(ctx, registerInput("reset@example.com"))
	require.NoError(t, err)

	t.Run("unknown email sends nothing", func(t *testing.T) {
		require.NoError(t, f.accounts.RequestPasswordReset(ctx, "ghost@example.com"))
		assert.Empty(t, f.mailer.Sent())
	})

	require.NoError(t, f.accounts.RequestPasswordReset(ctx, "reset@example.com"))
	sent := f.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "reset@example.com", sent[0].Email)
	assert.Equal(t, f.now.Add(30*time.Minute), sent[0].ExpiresAt)
	token := sent[0].Token

	t.Run("weak new password", func(t *testing.T) {
		err := f.accounts.ConfirmPasswordReset(ctx, token, "123")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	require.NoError(t, f.accounts.ConfirmPasswordReset(ctx, token, "novasenha"))

	_, err = f.accounts.Login(ctx, "reset@example.com", "oss123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = f.accounts.Login(ctx, "reset@example.com", "novasenha")
	assert.NoError(t, err)

	t.Run("token is single use", func(t *testing.T) {
		err := f.accounts.ConfirmPasswordReset(ctx, token, "outrasenha")
		assert.ErrorIs(t, err, service.ErrInvalidResetToken)
	})

	t.Run("expired token", func(t *testing.T) {
		require.NoError(t, f.accounts.RequestPasswordReset(ctx, "reset@example.com"))
		expired := f.mailer.LastToken()
		*f.now = f.now.Add(31 * time.Minute)
		err := f.accounts.ConfirmPasswordReset(ctx, expired, "outrasenha")
		assert.ErrorIs(t, err, service.ErrInvalidResetToken)
	})

	t.Run("mailer failure is not reported", func(t *testing.T) {
		f.mailer.Err = errors.New("smtp down")
		defer func() { f.mailer.Err = nil }()
		assert.NoError(t, f.accounts.RequestPasswordReset(ctx, "reset@example.com"))
	})
}
