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

// UserStore implements store.UserStore.
type UserStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
	now     func() time.Time
}

var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates a UserStore over db. If logger is nil, a default
// logger is used.
func NewUserStore(db store.DBTX, d Dialect, logger *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if d == nil {
		panic("dialect cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserStore{
		db:      db,
		dialect: d,
		logger:  logger.With(slog.String("component", "user_store")),
		now:     time.Now,
	}
}

// WithTx implements store.UserStore.WithTx.
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{db: tx, dialect: s.dialect, logger: s.logger, now: s.now}
}

// Create implements store.UserStore.Create.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if user.HashedPassword == "" {
		return domain.ErrEmptyHashedPassword
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := s.now().UTC().Truncate(time.Microsecond)
	user.CreatedAt, user.UpdatedAt = now, now

	query := s.dialect.Rebind(`
		INSERT INTO users (id, email, hashed_password, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.HashedPassword,
		s.dialect.Timestamp(user.CreatedAt),
		s.dialect.Timestamp(user.UpdatedAt),
	)
	if err != nil {
		err = specializeDuplicate(s.dialect.MapError(err), store.ErrEmailExists)
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("email already registered", slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}
		log.Error("failed to create user",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", user.ID.String()))
		return store.NewStoreError("user", "create", "insert failed", err)
	}

	log.Info("user created", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getOne(ctx, "id", id)
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, "email", domain.NormalizeEmail(email))
}

func (s *UserStore) getOne(ctx context.Context, column string, arg any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.dialect.Rebind(`
		SELECT id, email, hashed_password, created_at, updated_at
		FROM users
		WHERE ` + column + ` = ?
	`)

	var user domain.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		scanTime(&user.CreatedAt),
		scanTime(&user.UpdatedAt),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.String("by", column))
			return nil, store.ErrUserNotFound
		}
		err = s.dialect.MapError(err)
		log.Error("failed to get user",
			slog.String("error", redact.Error(err)),
			slog.String("by", column))
		return nil, store.NewStoreError("user", "get", "query failed", err)
	}

	return &user, nil
}

// UpdatePassword implements store.UserStore.UpdatePassword.
func (s *UserStore) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if hashedPassword == "" {
		return domain.ErrEmptyHashedPassword
	}

	query := s.dialect.Rebind(`UPDATE users SET hashed_password = ?, updated_at = ? WHERE id = ?`)
	result, err := s.db.ExecContext(ctx, query,
		hashedPassword,
		s.dialect.Timestamp(s.now().UTC().Truncate(time.Microsecond)),
		id,
	)
	if err != nil {
		err = s.dialect.MapError(err)
		log.Error("failed to update password",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", id.String()))
		return store.NewStoreError("user", "update_password", "update failed", err)
	}
	if err := checkRowsAffected(result, store.ErrUserNotFound); err != nil {
		return err
	}

	log.Info("password updated", slog.String("user_id", id.String()))
	return nil
}
