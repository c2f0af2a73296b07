package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/tatame-api/internal/domain"
	"github.com/phrazzld/tatame-api/internal/domain/quota"
	"github.com/phrazzld/tatame-api/internal/platform/logger"
	"github.com/phrazzld/tatame-api/internal/store"
)

// UsageReporter reports quota usage for one resource kind. Every
// Lifecycle implements it.
type UsageReporter interface {
	Resource() quota.Resource
	Usage(ctx context.Context, actor Actor) (quota.Usage, error)
}

// ProfileOverview is a profile with the figures derived from it.
type ProfileOverview struct {
	Profile      *domain.Profile `json:"profile"`
	DaysTraining int             `json:"days_training"`
	SessionCount int             `json:"session_count"`
	Quotas       []quota.Usage   `json:"quotas"`
}

// ProfileService manages the one profile each user owns.
type ProfileService interface {
	// GetOrBootstrap returns the user's profile, creating a free-tier
	// profile from draft the first time.
	GetOrBootstrap(ctx context.Context, userID uuid.UUID, email string, draft domain.ProfileDraft) (*domain.Profile, error)

	// ResolveActor builds the Actor for userID from its current profile.
	ResolveActor(ctx context.Context, userID uuid.UUID) (Actor, error)

	// Overview returns the actor's profile with days training, session
	// count and quota usage.
	Overview(ctx context.Context, actor Actor) (*ProfileOverview, error)

	// UpdateProfile applies a self-service edit. The tier is not editable.
	UpdateProfile(ctx context.Context, actor Actor, update domain.ProfileUpdate) (*domain.Profile, error)

	// SetTier changes the tier of the profile with email. Only trusted
	// out-of-band processes call it.
	SetTier(ctx context.Context, email string, tier domain.Tier) (*domain.Profile, error)
}

type profileServiceImpl struct {
	profiles store.ProfileStore
	users    store.UserStore
	usage    []UsageReporter
	clock    Clock
	logger   *slog.Logger
}

var _ ProfileService = (*profileServiceImpl)(nil)

// NewProfileService creates a ProfileService. The usage reporters feed the
// quota section of Overview; the session reporter also supplies the
// session count.
func NewProfileService(
	profiles store.ProfileStore,
	users store.UserStore,
	clock Clock,
	log *slog.Logger,
	usage ...UsageReporter,
) (ProfileService, error) {
	if profiles == nil {
		return nil, errors.New("profile store cannot be nil")
	}
	if users == nil {
		return nil, errors.New("user store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &profileServiceImpl{
		profiles: profiles,
		users:    users,
		usage:    usage,
		clock:    clock,
		logger:   log.With(slog.String("component", "profile_service")),
	}, nil
}

// GetOrBootstrap implements ProfileService.
func (s *profileServiceImpl) GetOrBootstrap(
	ctx context.Context,
	userID uuid.UUID,
	email string,
	draft domain.ProfileDraft,
) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	profile, err := s.profiles.Get(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, store.ErrProfileNotFound) {
		log.Error("failed to get profile", slog.String("error", err.Error()))
		return nil, NewServiceError("profile", "get", "failed to get profile", err)
	}

	if draft.Name == "" {
		draft.Name = nameFromEmail(email)
	}
	if draft.StartDate.IsZero() {
		draft.StartDate = s.clock.Today()
	}
	profile, err = domain.NewProfile(userID, email, draft)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		// A concurrent first request may have created it already.
		if errors.Is(err, store.ErrProfileExists) {
			return s.profiles.Get(ctx, userID)
		}
		log.Error("failed to bootstrap profile", slog.String("error", err.Error()))
		return nil, NewServiceError("profile", "bootstrap", "failed to create profile", err)
	}

	log.Info("profile bootstrapped", slog.String("tier", string(profile.Tier)))
	return profile, nil
}

// ResolveActor implements ProfileService. A user without a profile gets
// one bootstrapped from defaults.
func (s *profileServiceImpl) ResolveActor(ctx context.Context, userID uuid.UUID) (Actor, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return Actor{}, ErrNoActor
		}
		return Actor{}, NewServiceError("profile", "resolve_actor", "failed to get user", err)
	}

	profile, err := s.GetOrBootstrap(ctx, user.ID, user.Email, domain.ProfileDraft{})
	if err != nil {
		return Actor{}, err
	}
	return Actor{UserID: user.ID, Email: user.Email, Tier: profile.Tier}, nil
}

// Overview implements ProfileService.
func (s *profileServiceImpl) Overview(ctx context.Context, actor Actor) (*ProfileOverview, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}

	profile, err := s.GetOrBootstrap(ctx, actor.UserID, actor.Email, domain.ProfileDraft{})
	if err != nil {
		return nil, err
	}
	actor.Tier = profile.Tier

	overview := &ProfileOverview{
		Profile:      profile,
		DaysTraining: domain.DaysSince(profile.StartDate, s.clock.Today()),
		Quotas:       make([]quota.Usage, 0, len(s.usage)),
	}
	for _, r := range s.usage {
		u, err := r.Usage(ctx, actor)
		if err != nil {
			return nil, err
		}
		if r.Resource() == quota.Session {
			overview.SessionCount = u.Used
		}
		overview.Quotas = append(overview.Quotas, u)
	}
	return overview, nil
}

// UpdateProfile implements ProfileService.
func (s *profileServiceImpl) UpdateProfile(
	ctx context.Context,
	actor Actor,
	update domain.ProfileUpdate,
) (*domain.Profile, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", actor.UserID.String()))

	current, err := s.GetOrBootstrap(ctx, actor.UserID, actor.Email, domain.ProfileDraft{})
	if err != nil {
		return nil, err
	}
	if update.IsEmpty() {
		return current, nil
	}

	updated, err := current.Apply(update)
	if err != nil {
		return nil, err
	}
	if err := s.profiles.Update(ctx, updated); err != nil {
		log.Error("failed to update profile", slog.String("error", err.Error()))
		return nil, NewServiceError("profile", "update", "failed to update profile", err)
	}

	log.Info("profile updated")
	return updated, nil
}

// SetTier implements ProfileService.
func (s *profileServiceImpl) SetTier(ctx context.Context, email string, tier domain.Tier) (*domain.Profile, error) {
	if _, err := domain.ParseEnum[domain.Tier]("tier", string(tier)); err != nil {
		return nil, err
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewServiceError("profile", "set_tier", "failed to get profile", err)
	}
	if err := s.profiles.SetTier(ctx, profile.ID, tier); err != nil {
		return nil, NewServiceError("profile", "set_tier", "failed to set tier", err)
	}

	log.Info("tier changed",
		slog.String("user_id", profile.ID.String()),
		slog.String("from", string(profile.Tier)),
		slog.String("to", string(tier)))
	profile.Tier = tier
	return profile, nil
}

// nameFromEmail derives a display name from the local part of an address.
func nameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return "Atleta"
	}
	return local
}
