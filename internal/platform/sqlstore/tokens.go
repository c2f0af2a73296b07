package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tatame-api/internal/domain"
	"github.com/phrazzld/tatame-api/internal/platform/logger"
	"github.com/phrazzld/tatame-api/internal/redact"
	"github.com/phrazzld/tatame-api/internal/store"
)

// PasswordResetStore implements store.PasswordResetStore.
type PasswordResetStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

var _ store.PasswordResetStore = (*PasswordResetStore)(nil)

// NewPasswordResetStore creates a PasswordResetStore over db.
func NewPasswordResetStore(db store.DBTX, d Dialect, logger *slog.Logger) *PasswordResetStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if d == nil {
		panic("dialect cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PasswordResetStore{
		db:      db,
		dialect: d,
		logger:  logger.With(slog.String("component", "password_reset_store")),
	}
}

// WithTx implements store.PasswordResetStore.WithTx.
func (s *PasswordResetStore) WithTx(tx *sql.Tx) store.PasswordResetStore {
	return &PasswordResetStore{db: tx, dialect: s.dialect, logger: s.logger}
}

// Create implements store.PasswordResetStore.Create.
func (s *PasswordResetStore) Create(ctx context.Context, reset *domain.PasswordReset) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if reset.CreatedAt.IsZero() {
		reset.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}
	query := s.dialect.Rebind(`
		INSERT INTO password_resets (token_hash, user_id, expires_at, created_at)
		VALUES (?, ?, ?, ?)
	`)
	_, err := s.db.ExecContext(ctx, query,
		reset.TokenHash,
		reset.UserID,
		s.dialect.Timestamp(reset.ExpiresAt),
		s.dialect.Timestamp(reset.CreatedAt),
	)
	if err != nil {
		err = s.dialect.MapError(err)
		log.Error("failed to store password reset",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", reset.UserID.String()))
		return store.NewStoreError("password_reset", "create", "insert failed", err)
	}
	return nil
}

// Consume implements store.PasswordResetStore.Consume. The row is deleted
// in the same statement that matches it.
func (s *PasswordResetStore) Consume(ctx context.Context, tokenHash string, now time.Time) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.dialect.Rebind(`
		DELETE FROM password_resets
		WHERE token_hash = ? AND expires_at > ?
		RETURNING user_id
	`)

	var userID uuid.UUID
	err := s.db.QueryRowContext(ctx, query, tokenHash, s.dialect.Timestamp(now.UTC())).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, store.ErrResetTokenNotFound
		}
		err = s.dialect.MapError(err)
		log.Error("failed to consume password reset", slog.String("error", redact.Error(err)))
		return uuid.Nil, store.NewStoreError("password_reset", "consume", "delete failed", err)
	}

	log.Debug("password reset consumed", slog.String("user_id", userID.String()))
	return userID, nil
}

// RevokedTokenStore implements store.RevokedTokenStore.
type RevokedTokenStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

var _ store.RevokedTokenStore = (*RevokedTokenStore)(nil)

// NewRevokedTokenStore creates a RevokedTokenStore over db.
func NewRevokedTokenStore(db store.DBTX, d Dialect, logger *slog.Logger) *RevokedTokenStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if d == nil {
		panic("dialect cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RevokedTokenStore{
		db:      db,
		dialect: d,
		logger:  logger.With(slog.String("component", "revoked_token_store")),
	}
}

// Revoke implements store.RevokedTokenStore.Revoke.
func (s *RevokedTokenStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.dialect.Rebind(`
		INSERT INTO revoked_tokens (token_id, expires_at)
		VALUES (?, ?)
		ON CONFLICT (token_id) DO NOTHING
	`)
	if _, err := s.db.ExecContext(ctx, query, tokenID, s.dialect.Timestamp(expiresAt.UTC())); err != nil {
		err = s.dialect.MapError(err)
		log.Error("failed to revoke token", slog.String("error", redact.Error(err)))
		return store.NewStoreError("revoked_token", "revoke", "insert failed", err)
	}
	return nil
}

// IsRevoked implements store.RevokedTokenStore.IsRevoked.
func (s *RevokedTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	query := s.dialect.Rebind(`SELECT COUNT(*) FROM revoked_tokens WHERE token_id = ?`)

	var count int
	if err := s.db.QueryRowContext(ctx, query, tokenID).Scan(&count); err != nil {
		err = s.dialect.MapError(err)
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to check revoked token",
			slog.String("error", redact.Error(err)))
		return false, store.NewStoreError("revoked_token", "is_revoked", "query failed", err)
	}
	return count > 0, nil
}
