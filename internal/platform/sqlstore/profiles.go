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

const profileColumns = "id, email, name, rank, academy, instructor, start_date, tier, created_at"

// ProfileStore implements store.ProfileStore.
type ProfileStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
	now     func() time.Time
}

var _ store.ProfileStore = (*ProfileStore)(nil)

// NewProfileStore creates a ProfileStore over db.
func NewProfileStore(db store.DBTX, d Dialect, logger *slog.Logger) *ProfileStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if d == nil {
		panic("dialect cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ProfileStore{
		db:      db,
		dialect: d,
		logger:  logger.With(slog.String("component", "profile_store")),
		now:     time.Now,
	}
}

// WithTx implements store.ProfileStore.WithTx.
func (s *ProfileStore) WithTx(tx *sql.Tx) store.ProfileStore {
	return &ProfileStore{db: tx, dialect: s.dialect, logger: s.logger, now: s.now}
}

// Create implements store.ProfileStore.Create.
func (s *ProfileStore) Create(ctx context.Context, p *domain.Profile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	p.CreatedAt = s.now().UTC().Truncate(time.Microsecond)
	query := s.dialect.Rebind(`INSERT INTO profiles (` + profileColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		p.ID,
		p.Email,
		p.Name,
		string(p.Rank),
		p.Academy,
		p.Instructor,
		p.StartDate,
		string(p.Tier),
		s.dialect.Timestamp(p.CreatedAt),
	)
	if err != nil {
		err = specializeDuplicate(s.dialect.MapError(err), store.ErrProfileExists)
		if errors.Is(err, store.ErrProfileExists) {
			log.Debug("profile already exists", slog.String("user_id", p.ID.String()))
			return store.ErrProfileExists
		}
		log.Error("failed to create profile",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", p.ID.String()))
		return store.NewStoreError("profile", "create", "insert failed", err)
	}

	log.Info("profile created",
		slog.String("user_id", p.ID.String()),
		slog.String("tier", string(p.Tier)))
	return nil
}

// Get implements store.ProfileStore.Get.
func (s *ProfileStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return s.getOne(ctx, "id", userID)
}

// GetByEmail implements store.ProfileStore.GetByEmail.
func (s *ProfileStore) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return s.getOne(ctx, "email", domain.NormalizeEmail(email))
}

func (s *ProfileStore) getOne(ctx context.Context, column string, arg any) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.dialect.Rebind(`SELECT ` + profileColumns + ` FROM profiles WHERE ` + column + ` = ?`)

	var p domain.Profile
	var rank, tier string
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&p.ID,
		&p.Email,
		&p.Name,
		&rank,
		&p.Academy,
		&p.Instructor,
		&p.StartDate,
		&tier,
		scanTime(&p.CreatedAt),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProfileNotFound
		}
		err = s.dialect.MapError(err)
		log.Error("failed to get profile",
			slog.String("error", redact.Error(err)),
			slog.String("by", column))
		return nil, store.NewStoreError("profile", "get", "query failed", err)
	}

	p.Rank = domain.Rank(rank)
	p.Tier = domain.Tier(tier)
	return &p, nil
}

// Update implements store.ProfileStore.Update.
func (s *ProfileStore) Update(ctx context.Context, p *domain.Profile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.dialect.Rebind(`
		UPDATE profiles
		SET name = ?, rank = ?, academy = ?, instructor = ?, start_date = ?
		WHERE id = ?
	`)
	result, err := s.db.ExecContext(ctx, query,
		p.Name,
		string(p.Rank),
		p.Academy,
		p.Instructor,
		p.StartDate,
		p.ID,
	)
	if err != nil {
		err = s.dialect.MapError(err)
		log.Error("failed to update profile",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", p.ID.String()))
		return store.NewStoreError("profile", "update", "update failed", err)
	}
	if err := checkRowsAffected(result, store.ErrProfileNotFound); err != nil {
		return err
	}

	log.Debug("profile updated", slog.String("user_id", p.ID.String()))
	return nil
}

// SetTier implements store.ProfileStore.SetTier.
func (s *ProfileStore) SetTier(ctx context.Context, userID uuid.UUID, tier domain.Tier) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.dialect.Rebind(`UPDATE profiles SET tier = ? WHERE id = ?`)
	result, err := s.db.ExecContext(ctx, query, string(tier), userID)
	if err != nil {
		err = s.dialect.MapError(err)
		log.Error("failed to set tier",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		return store.NewStoreError("profile", "set_tier", "update failed", err)
	}
	if err := checkRowsAffected(result, store.ErrProfileNotFound); err != nil {
		return err
	}

	log.Info("tier changed",
		slog.String("user_id", userID.String()),
		slog.String("tier", string(tier)))
	return nil
}
