package domain

import (
	"time"

	"github.com/google/uuid"
)

// Effort rating bounds.
const (
	MinEffort = 1
	MaxEffort = 5
)

// TrainingSession is one recorded training. It is never edited after
// creation.
type TrainingSession struct {
	ID         uuid.UUID   `json:"id"`
	OwnerID    uuid.UUID   `json:"owner_id"`
	Date       Date        `json:"date"`
	Type       SessionType `json:"type"`
	Techniques []string    `json:"techniques"`
	Notes      string      `json:"notes"`
	Effort     int         `json:"effort"`
	CreatedAt  time.Time   `json:"created_at"`
}

// SessionDraft holds the user-supplied fields of a new session.
type SessionDraft struct {
	Date       Date
	Type       SessionType
	Techniques []string
	Notes      string
	Effort     int
}

// NewTrainingSession validates draft and builds the session record. ID and
// CreatedAt are left for the store to assign.
func NewTrainingSession(ownerID uuid.UUID, draft SessionDraft) (*TrainingSession, error) {
	s := &TrainingSession{
		OwnerID:    ownerID,
		Date:       draft.Date,
		Type:       draft.Type,
		Techniques: NormalizeList(draft.Techniques),
		Notes:      CleanText(draft.Notes),
		Effort:     draft.Effort,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks if the TrainingSession has valid data.
func (s *TrainingSession) Validate() error {
	if s.OwnerID == uuid.Nil {
		return ErrEmptyUserID
	}
	if s.Date.IsZero() {
		return NewValidationError("date", "is required")
	}
	if err := checkEnum("type", s.Type); err != nil {
		return err
	}
	if s.Effort < MinEffort || s.Effort > MaxEffort {
		return NewValidationError("effort", "must be between 1 and 5")
	}
	return nil
}

// Matches reports whether query appears in the type, any technique or the
// notes, ignoring case.
func (s *TrainingSession) Matches(query string) bool {
	fields := append([]string{string(s.Type), s.Notes}, s.Techniques...)
	return containsFold(query, fields...)
}
