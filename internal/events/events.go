package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeRecordCreated       = "record.created"
	TypeRecordStatusUpdated = "record.status_updated"
	TypeQuotaExceeded       = "quota.exceeded"
)

// Event describes something that happened to an owner's records.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	OwnerID  uuid.UUID `json:"owner_id"`
	Resource string    `json:"resource"`

	// RecordID and Status are set for record events.
	RecordID uuid.UUID `json:"record_id,omitempty"`
	Status   string    `json:"status,omitempty"`

	// Limit is set for quota events.
	Limit int `json:"limit,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

func newEvent(eventType string, owner uuid.UUID, resource string) *Event {
	return &Event{
		ID:         uuid.New(),
		Type:       eventType,
		OwnerID:    owner,
		Resource:   resource,
		OccurredAt: time.Now().UTC(),
	}
}

// NewRecordCreated reports a new record.
func NewRecordCreated(owner uuid.UUID, resource string, recordID uuid.UUID) *Event {
	e := newEvent(TypeRecordCreated, owner, resource)
	e.RecordID = recordID
	return e
}

// NewRecordStatusUpdated reports a status change.
func NewRecordStatusUpdated(owner uuid.UUID, resource string, recordID uuid.UUID, status string) *Event {
	e := newEvent(TypeRecordStatusUpdated, owner, resource)
	e.RecordID = recordID
	e.Status = status
	return e
}

// NewQuotaExceeded reports a creation refused by the free-tier quota.
func NewQuotaExceeded(owner uuid.UUID, resource string, limit int) *Event {
	e := newEvent(TypeQuotaExceeded, owner, resource)
	e.Limit = limit
	return e
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent implements EventHandler.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *Event) error
}
