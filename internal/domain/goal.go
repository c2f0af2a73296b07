package domain

import (
	"time"

	"github.com/google/uuid"
)

// Goal is a user objective with a deadline. Goals always start in progress;
// status is the only field that changes afterwards.
type Goal struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    Date       `json:"deadline"`
	Status      GoalStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// GoalDraft holds the user-supplied fields of a new goal.
type GoalDraft struct {
	Title       string
	Description string
	Deadline    Date
}

// NewGoal validates draft and builds the goal record.
func NewGoal(ownerID uuid.UUID, draft GoalDraft) (*Goal, error) {
	g := &Goal{
		OwnerID:     ownerID,
		Title:       CleanText(draft.Title),
		Description: CleanText(draft.Description),
		Deadline:    draft.Deadline,
		Status:      GoalInProgress,
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks if the Goal has valid data.
func (g *Goal) Validate() error {
	if g.OwnerID == uuid.Nil {
		return ErrEmptyUserID
	}
	if err := required("title", g.Title); err != nil {
		return err
	}
	if g.Deadline.IsZero() {
		return NewValidationError("deadline", "is required")
	}
	return checkEnum("status", g.Status)
}

// Matches reports whether query appears in the title or description.
func (g *Goal) Matches(query string) bool {
	return containsFold(query, g.Title, g.Description)
}

// CurrentStatus returns the goal's status.
func (g *Goal) CurrentStatus() GoalStatus { return g.Status }

// DaysRemaining returns DaysUntil(deadline) as seen from today.
func (g *Goal) DaysRemaining(today Date) int {
	return DaysUntil(g.Deadline, today)
}

// Expired reports whether the deadline has passed.
func (g *Goal) Expired(today Date) bool {
	return g.DaysRemaining(today) < 0
}
