package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tatame-api/internal/config"
	"github.com/phrazzld/tatame-api/internal/domain"
	"github.com/phrazzld/tatame-api/internal/platform/logger"
	"github.com/phrazzld/tatame-api/internal/redact"
	"github.com/phrazzld/tatame-api/internal/service/auth"
	"github.com/phrazzld/tatame-api/internal/store"
)

// Mailer delivers password reset tokens out of band.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string, expiresAt time.Time) error
}

// Passwords hashes and verifies passwords.
type Passwords interface {
	auth.PasswordVerifier
	auth.PasswordHasher
}

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Profile         domain.ProfileDraft
}

// TokenPair is the result of a successful sign-in.
type TokenPair struct {
	UserID       uuid.UUID `json:"user_id"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AccountService is the identity boundary: sign-up, sign-in, token
// refresh, sign-out and password resets.
type AccountService interface {
	// Register creates the user and bootstraps its free-tier profile in
	// one transaction, then signs the user in.
	Register(ctx context.Context, input RegisterInput) (*TokenPair, error)

	// Login verifies credentials. Any failure is ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*TokenPair, error)

	// Refresh exchanges a refresh token for a new pair and revokes the old
	// refresh token.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)

	// Logout revokes the actor's refresh token.
	Logout(ctx context.Context, actor Actor, refreshToken string) error

	// RequestPasswordReset mails a single-use reset token when email
	// belongs to a user. It reports success either way.
	RequestPasswordReset(ctx context.Context, email string) error

	// ConfirmPasswordReset consumes token and sets a new password.
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}

// AccountStores groups the stores the account service writes to.
type AccountStores struct {
	DB       store.TxBeginner
	Users    store.UserStore
	Profiles store.ProfileStore
	Resets   store.PasswordResetStore
	Revoked  store.RevokedTokenStore
}

type accountServiceImpl struct {
	stores        AccountStores
	tokens        auth.JWTService
	passwords     Passwords
	mailer        Mailer
	tokenLifetime time.Duration
	resetLifetime time.Duration
	clock         Clock
	logger        *slog.Logger
}

var _ AccountService = (*accountServiceImpl)(nil)

// NewAccountService creates an AccountService.
func NewAccountService(
	stores AccountStores,
	tokens auth.JWTService,
	passwords Passwords,
	mailer Mailer,
	cfg config.AuthConfig,
	clock Clock,
	log *slog.Logger,
) (AccountService, error) {
	switch {
	case stores.DB == nil, stores.Users == nil, stores.Profiles == nil, stores.Resets == nil, stores.Revoked == nil:
		return nil, errors.New("account stores cannot be nil")
	case tokens == nil:
		return nil, errors.New("jwt service cannot be nil")
	case passwords == nil:
		return nil, errors.New("password hasher cannot be nil")
	case mailer == nil:
		return nil, errors.New("mailer cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &accountServiceImpl{
		stores:        stores,
		tokens:        tokens,
		passwords:     passwords,
		mailer:        mailer,
		tokenLifetime: time.Duration(cfg.TokenLifetimeMinutes) * time.Minute,
		resetLifetime: time.Duration(cfg.ResetTokenLifetimeMinutes) * time.Minute,
		clock:         clock,
		logger:        log.With(slog.String("component", "account_service")),
	}, nil
}

// Register implements AccountService.
func (s *accountServiceImpl) Register(ctx context.Context, input RegisterInput) (*TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidatePasswordConfirmation(input.Password, input.ConfirmPassword); err != nil {
		return nil, err
	}
	user, err := domain.NewUser(input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	draft := input.Profile
	if draft.StartDate.IsZero() {
		draft.StartDate = s.clock.Today()
	}
	profile, err := domain.NewProfile(user.ID, user.Email, draft)
	if err != nil {
		return nil, err
	}

	user.HashedPassword, err = s.passwords.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, NewServiceError("account", "register", "failed to hash password", err)
	}
	user.Password = ""

	err = store.RunInTransaction(ctx, s.stores.DB, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.stores.Users.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		return s.stores.Profiles.WithTx(tx).Create(ctx, profile)
	})
	if err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("registration with existing email")
			return nil, err
		}
		log.Error("failed to register user", slog.String("error", redact.Error(err)))
		return nil, NewServiceError("account", "register", "failed to create account", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return s.issue(ctx, user.ID)
}

// Login implements AccountService.
func (s *accountServiceImpl) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.stores.Users.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("login for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, NewServiceError("account", "login", "failed to get user", err)
	}
	if err := s.passwords.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	log.Info("user signed in", slog.String("user_id", user.ID.String()))
	return s.issue(ctx, user.ID)
}

// Refresh implements AccountService.
func (s *accountServiceImpl) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.checkRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if err := s.stores.Revoked.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
		return nil, NewServiceError("account", "refresh", "failed to revoke refresh token", err)
	}
	return s.issue(ctx, claims.UserID)
}

// Logout implements AccountService.
func (s *accountServiceImpl) Logout(ctx context.Context, actor Actor, refreshToken string) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	claims, err := s.checkRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	if claims.UserID != actor.UserID {
		return ErrInvalidRefreshToken
	}
	if err := s.stores.Revoked.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
		return NewServiceError("account", "logout", "failed to revoke refresh token", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("user signed out",
		slog.String("user_id", actor.UserID.String()))
	return nil
}

// RequestPasswordReset implements AccountService.
func (s *accountServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.stores.Users.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("password reset for unknown email")
			return nil
		}
		return NewServiceError("account", "request_reset", "failed to get user", err)
	}

	token, hash, err := auth.NewResetToken()
	if err != nil {
		return NewServiceError("account", "request_reset", "failed to generate token", err)
	}
	now := s.clock.Now()
	reset := &domain.PasswordReset{
		TokenHash: hash,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.resetLifetime),
		CreatedAt: now,
	}
	if err := s.stores.Resets.Create(ctx, reset); err != nil {
		return NewServiceError("account", "request_reset", "failed to store reset", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, token, reset.ExpiresAt); err != nil {
		log.Error("failed to send password reset",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", user.ID.String()))
		return nil
	}
	log.Info("password reset requested", slog.String("user_id", user.ID.String()))
	return nil
}

// ConfirmPasswordReset implements AccountService.
func (s *accountServiceImpl) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if token == "" {
		return ErrInvalidResetToken
	}
	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}
	hashed, err := s.passwords.Hash(newPassword)
	if err != nil {
		return NewServiceError("account", "confirm_reset", "failed to hash password", err)
	}

	var userID uuid.UUID
	err = store.RunInTransaction(ctx, s.stores.DB, func(ctx context.Context, tx *sql.Tx) error {
		id, err := s.stores.Resets.WithTx(tx).Consume(ctx, auth.HashResetToken(token), s.clock.Now())
		if err != nil {
			return err
		}
		userID = id
		return s.stores.Users.WithTx(tx).UpdatePassword(ctx, id, hashed)
	})
	if err != nil {
		if errors.Is(err, store.ErrResetTokenNotFound) {
			log.Debug("password reset with invalid token")
			return ErrInvalidResetToken
		}
		return NewServiceError("account", "confirm_reset", "failed to reset password", err)
	}

	log.Info("password reset", slog.String("user_id", userID.String()))
	return nil
}

// checkRefreshToken validates a refresh token and rejects revoked ones.
func (s *accountServiceImpl) checkRefreshToken(ctx context.Context, refreshToken string) (*auth.Claims, error) {
	claims, err := s.tokens.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	revoked, err := s.stores.Revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, NewServiceError("account", "refresh", "failed to check revocation", err)
	}
	if revoked {
		logger.FromContextOrDefault(ctx, s.logger).Warn("revoked refresh token presented",
			slog.String("user_id", claims.UserID.String()))
		return nil, ErrInvalidRefreshToken
	}
	return claims, nil
}

// issue signs a new access and refresh token for userID.
func (s *accountServiceImpl) issue(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	now := s.clock.Now()
	token, err := s.tokens.GenerateToken(ctx, userID)
	if err != nil {
		return nil, NewServiceError("account", "issue_tokens", "failed to generate token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(ctx, userID)
	if err != nil {
		return nil, NewServiceError("account", "issue_tokens", "failed to generate refresh token", err)
	}
	return &TokenPair{
		UserID:       userID,
		Token:        token,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(s.tokenLifetime),
	}, nil
}
