package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tatame-api/internal/domain"
	"github.com/phrazzld/tatame-api/internal/domain/quota"
	"github.com/phrazzld/tatame-api/internal/events"
	"github.com/phrazzld/tatame-api/internal/platform/logger"
	"github.com/phrazzld/tatame-api/internal/store"
)

// Kind describes one quota-gated record kind to the generic lifecycle.
type Kind[R, D any] struct {
	// Resource names the kind for quotas, events and logs.
	Resource quota.Resource

	// Build validates draft and turns it into an unsaved record for owner.
	Build func(owner uuid.UUID, draft D) (*R, error)

	// ID returns the store-assigned identifier of a record.
	ID func(record *R) uuid.UUID

	// Matches reports whether a record contains the search query.
	Matches func(record *R, query string) bool

	// QuotaStatus restricts the quota count to records in this status.
	// Empty counts every record.
	QuotaStatus string
}

// Lifecycle lists, searches and creates the records of one kind on behalf
// of their owner, enforcing the free-tier quota on create.
type Lifecycle[R, D any] struct {
	kind    Kind[R, D]
	store   store.RecordStore[R]
	policy  *quota.Policy
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewLifecycle creates a Lifecycle. A nil policy means the default limits
// and a nil emitter disables events.
func NewLifecycle[R, D any](
	kind Kind[R, D],
	st store.RecordStore[R],
	policy *quota.Policy,
	emitter events.EventEmitter,
	log *slog.Logger,
) *Lifecycle[R, D] {
	if st == nil {
		panic("record store cannot be nil")
	}
	if kind.Build == nil || kind.ID == nil || kind.Matches == nil {
		panic("record kind is incomplete")
	}
	if policy == nil {
		policy = quota.NewDefaultPolicy()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Lifecycle[R, D]{
		kind:    kind,
		store:   st,
		policy:  policy,
		emitter: emitter,
		logger: log.With(
			slog.String("component", "lifecycle"),
			slog.String("resource", string(kind.Resource)),
		),
	}
}

// Resource returns the kind this lifecycle manages.
func (l *Lifecycle[R, D]) Resource() quota.Resource { return l.kind.Resource }

// List returns all of the actor's records in the kind's default order. An
// actor with no records gets an empty slice.
func (l *Lifecycle[R, D]) List(ctx context.Context, actor Actor) ([]*R, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	log := logger.FromContextOrDefault(ctx, l.logger)

	records, err := l.store.ListByOwner(ctx, actor.UserID)
	if err != nil {
		log.Error("failed to list records",
			slog.String("error", err.Error()),
			slog.String("user_id", actor.UserID.String()))
		return nil, NewServiceError(string(l.kind.Resource), "list", "failed to list records", err)
	}
	return records, nil
}

// Filter lists the actor's records and keeps those matching query and
// every keep predicate, preserving order.
func (l *Lifecycle[R, D]) Filter(ctx context.Context, actor Actor, query string, keep ...func(*R) bool) ([]*R, error) {
	records, err := l.List(ctx, actor)
	if err != nil {
		return nil, err
	}

	out := make([]*R, 0, len(records))
next:
	for _, r := range records {
		if !l.kind.Matches(r, query) {
			continue
		}
		for _, k := range keep {
			if !k(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out, nil
}

// Create validates draft, checks the actor's quota and stores the new
// record. A refused quota check performs no write.
//
// The count and the insert are not atomic: concurrent creates by the same
// owner can overshoot the limit slightly.
func (l *Lifecycle[R, D]) Create(ctx context.Context, actor Actor, draft D) (*R, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	log := logger.FromContextOrDefault(ctx, l.logger).With(slog.String("user_id", actor.UserID.String()))

	record, err := l.kind.Build(actor.UserID, draft)
	if err != nil {
		log.Debug("rejected invalid draft", slog.String("error", err.Error()))
		return nil, err
	}

	if quota.Limited(actor.Tier) {
		count, err := l.store.CountByOwner(ctx, actor.UserID, l.kind.QuotaStatus)
		if err != nil {
			log.Error("failed to count records", slog.String("error", err.Error()))
			return nil, NewServiceError(string(l.kind.Resource), "create", "failed to count records", err)
		}
		if err := l.policy.Check(l.kind.Resource, actor.Tier, count); err != nil {
			log.Debug("quota reached", slog.Int("count", count))
			var exceeded *quota.ExceededError
			if errors.As(err, &exceeded) {
				l.emit(ctx, events.NewQuotaExceeded(actor.UserID, string(l.kind.Resource), exceeded.Limit))
			}
			return nil, err
		}
	}

	if err := l.store.Create(ctx, record); err != nil {
		log.Error("failed to create record", slog.String("error", err.Error()))
		return nil, NewServiceError(string(l.kind.Resource), "create", "failed to store record", err)
	}

	id := l.kind.ID(record)
	log.Info("record created", slog.String("record_id", id.String()))
	l.emit(ctx, events.NewRecordCreated(actor.UserID, string(l.kind.Resource), id))
	return record, nil
}

// Usage reports how much of the kind's quota the actor has used.
func (l *Lifecycle[R, D]) Usage(ctx context.Context, actor Actor) (quota.Usage, error) {
	if err := actor.Validate(); err != nil {
		return quota.Usage{}, err
	}
	count, err := l.store.CountByOwner(ctx, actor.UserID, l.kind.QuotaStatus)
	if err != nil {
		return quota.Usage{}, NewServiceError(string(l.kind.Resource), "usage", "failed to count records", err)
	}
	return l.policy.Usage(l.kind.Resource, actor.Tier, count), nil
}

// usageOf reports quota usage from a count the caller already has.
func (l *Lifecycle[R, D]) usageOf(actor Actor, count int) quota.Usage {
	return l.policy.Usage(l.kind.Resource, actor.Tier, count)
}

// emit publishes event. Handler failures are logged and never reach the
// caller.
func (l *Lifecycle[R, D]) emit(ctx context.Context, event *events.Event) {
	if l.emitter == nil {
		return
	}
	if err := l.emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, l.logger).Warn("failed to emit event",
			slog.String("error", err.Error()),
			slog.String("event_type", event.Type))
	}
}

// StatusKind adds status access to a Kind.
type StatusKind[R, D any, S domain.Enum] struct {
	Kind[R, D]

	// Status returns the record's current status.
	Status func(record *R) S
}

// StatusLifecycle is a Lifecycle for records with a mutable status. Any
// status may move to any other.
type StatusLifecycle[R, D any, S domain.Enum] struct {
	*Lifecycle[R, D]
	status func(record *R) S
	store  store.StatusStore[R, S]
}

// NewStatusLifecycle creates a StatusLifecycle.
func NewStatusLifecycle[R, D any, S domain.Enum](
	kind StatusKind[R, D, S],
	st store.StatusStore[R, S],
	policy *quota.Policy,
	emitter events.EventEmitter,
	log *slog.Logger,
) *StatusLifecycle[R, D, S] {
	if kind.Status == nil {
		panic("record kind is incomplete")
	}
	return &StatusLifecycle[R, D, S]{
		Lifecycle: NewLifecycle(kind.Kind, st, policy, emitter, log),
		status:    kind.Status,
		store:     st,
	}
}

// Search filters the actor's records by query and, when status is not
// empty, by status.
func (l *StatusLifecycle[R, D, S]) Search(ctx context.Context, actor Actor, query string, status S) ([]*R, error) {
	if status == "" {
		return l.Filter(ctx, actor, query)
	}
	if _, err := domain.ParseEnum[S]("status", string(status)); err != nil {
		return nil, err
	}
	return l.Filter(ctx, actor, query, func(r *R) bool { return l.status(r) == status })
}

// UpdateStatus sets the status of one of the actor's records. A record
// that does not exist or belongs to someone else yields a wrapped
// store.ErrNotFound either way.
func (l *StatusLifecycle[R, D, S]) UpdateStatus(ctx context.Context, actor Actor, id uuid.UUID, status S) (*R, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	if _, err := domain.ParseEnum[S]("status", string(status)); err != nil {
		return nil, err
	}
	log := logger.FromContextOrDefault(ctx, l.logger).With(
		slog.String("user_id", actor.UserID.String()),
		slog.String("record_id", id.String()))

	record, err := l.store.UpdateStatus(ctx, id, actor.UserID, status)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("status update on missing record")
		} else {
			log.Error("failed to update status", slog.String("error", err.Error()))
		}
		return nil, NewServiceError(string(l.kind.Resource), "update_status", "failed to update status", err)
	}

	log.Info("record status updated", slog.String("status", string(status)))
	l.emit(ctx, events.NewRecordStatusUpdated(actor.UserID, string(l.kind.Resource), id, string(status)))
	return record, nil
}
