package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tatame-api/internal/domain"
	"github.com/phrazzld/tatame-api/internal/domain/quota"
	"github.com/phrazzld/tatame-api/internal/events"
	"github.com/phrazzld/tatame-api/internal/store"
)

// SessionKind describes training sessions. Every session counts toward
// the quota.
var SessionKind = Kind[domain.TrainingSession, domain.SessionDraft]{
	Resource: quota.Session,
	Build:    domain.NewTrainingSession,
	ID:       func(s *domain.TrainingSession) uuid.UUID { return s.ID },
	Matches:  (*domain.TrainingSession).Matches,
}

// TechniqueKind describes techniques. Every technique counts toward the
// quota, whatever its status.
var TechniqueKind = StatusKind[domain.Technique, domain.TechniqueDraft, domain.TechniqueStatus]{
	Kind: Kind[domain.Technique, domain.TechniqueDraft]{
		Resource: quota.Technique,
		Build:    domain.NewTechnique,
		ID:       func(t *domain.Technique) uuid.UUID { return t.ID },
		Matches:  (*domain.Technique).Matches,
	},
	Status: (*domain.Technique).CurrentStatus,
}

// GoalKind describes goals. Only goals in progress count toward the quota.
var GoalKind = StatusKind[domain.Goal, domain.GoalDraft, domain.GoalStatus]{
	Kind: Kind[domain.Goal, domain.GoalDraft]{
		Resource:    quota.Goal,
		Build:       domain.NewGoal,
		ID:          func(g *domain.Goal) uuid.UUID { return g.ID },
		Matches:     (*domain.Goal).Matches,
		QuotaStatus: string(domain.GoalInProgress),
	},
	Status: (*domain.Goal).CurrentStatus,
}

// SessionService manages training sessions.
type SessionService struct {
	*Lifecycle[domain.TrainingSession, domain.SessionDraft]
	clock Clock
}

// NewSessionService creates a SessionService.
func NewSessionService(
	st store.SessionStore,
	policy *quota.Policy,
	emitter events.EventEmitter,
	clock Clock,
	log *slog.Logger,
) *SessionService {
	return &SessionService{
		Lifecycle: NewLifecycle(SessionKind, st, policy, emitter, log),
		clock:     clock,
	}
}

// Search filters sessions by query and, when sessionType is not empty, by
// session type.
func (s *SessionService) Search(
	ctx context.Context,
	actor Actor,
	query string,
	sessionType domain.SessionType,
) ([]*domain.TrainingSession, error) {
	if sessionType == "" {
		return s.Filter(ctx, actor, query)
	}
	if _, err := domain.ParseEnum[domain.SessionType]("type", string(sessionType)); err != nil {
		return nil, err
	}
	return s.Filter(ctx, actor, query, func(ts *domain.TrainingSession) bool {
		return ts.Type == sessionType
	})
}

// SessionsOverview is the sessions summary with the actor's quota usage.
type SessionsOverview struct {
	domain.SessionSummary
	Quota quota.Usage `json:"quota"`
}

// Summary aggregates the actor's sessions as of today.
func (s *SessionService) Summary(ctx context.Context, actor Actor) (*SessionsOverview, error) {
	sessions, err := s.List(ctx, actor)
	if err != nil {
		return nil, err
	}
	summary := domain.SummarizeSessions(sessions, s.clock.Today())
	return &SessionsOverview{
		SessionSummary: summary,
		Quota:          s.usageOf(actor, summary.Total),
	}, nil
}

// TechniqueService manages the technique catalog.
type TechniqueService struct {
	*StatusLifecycle[domain.Technique, domain.TechniqueDraft, domain.TechniqueStatus]
}

// NewTechniqueService creates a TechniqueService.
func NewTechniqueService(
	st store.TechniqueStore,
	policy *quota.Policy,
	emitter events.EventEmitter,
	log *slog.Logger,
) *TechniqueService {
	return &TechniqueService{
		StatusLifecycle: NewStatusLifecycle(TechniqueKind, st, policy, emitter, log),
	}
}

// TechniquesOverview is the technique summary with the actor's quota usage.
type TechniquesOverview struct {
	domain.TechniqueSummary
	Quota quota.Usage `json:"quota"`
}

// Summary counts the actor's techniques per status.
func (s *TechniqueService) Summary(ctx context.Context, actor Actor) (*TechniquesOverview, error) {
	techniques, err := s.List(ctx, actor)
	if err != nil {
		return nil, err
	}
	summary := domain.SummarizeTechniques(techniques)
	return &TechniquesOverview{
		TechniqueSummary: summary,
		Quota:            s.usageOf(actor, summary.Total),
	}, nil
}

// GoalService manages goals.
type GoalService struct {
	*StatusLifecycle[domain.Goal, domain.GoalDraft, domain.GoalStatus]
	clock Clock
}

// NewGoalService creates a GoalService.
func NewGoalService(
	st store.GoalStore,
	policy *quota.Policy,
	emitter events.EventEmitter,
	clock Clock,
	log *slog.Logger,
) *GoalService {
	return &GoalService{
		StatusLifecycle: NewStatusLifecycle(GoalKind, st, policy, emitter, log),
		clock:           clock,
	}
}

// Today returns the day deadlines are measured against.
func (s *GoalService) Today() domain.Date { return s.clock.Today() }

// GoalsOverview is the goal summary with the actor's quota usage. The
// quota counts goals in progress only.
type GoalsOverview struct {
	domain.GoalSummary
	Quota quota.Usage `json:"quota"`
}

// Summary counts the actor's goals per status.
func (s *GoalService) Summary(ctx context.Context, actor Actor) (*GoalsOverview, error) {
	goals, err := s.List(ctx, actor)
	if err != nil {
		return nil, err
	}
	summary := domain.SummarizeGoals(goals)
	return &GoalsOverview{
		GoalSummary: summary,
		Quota:       s.usageOf(actor, summary.InProgress),
	}, nil
}
