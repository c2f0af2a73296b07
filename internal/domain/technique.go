package domain

import (
	"time"

	"github.com/google/uuid"
)

// Technique is a catalog entry. Status is the only field that changes after
// creation.
type Technique struct {
	ID        uuid.UUID         `json:"id"`
	OwnerID   uuid.UUID         `json:"owner_id"`
	Name      string            `json:"name"`
	Category  TechniqueCategory `json:"category"`
	Position  Position          `json:"position"`
	Notes     string            `json:"notes"`
	Status    TechniqueStatus   `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// TechniqueDraft holds the user-supplied fields of a new technique. An empty
// Status means TechniqueStudying.
type TechniqueDraft struct {
	Name     string
	Category TechniqueCategory
	Position Position
	Notes    string
	Status   TechniqueStatus
}

// NewTechnique validates draft and builds the technique record.
func NewTechnique(ownerID uuid.UUID, draft TechniqueDraft) (*Technique, error) {
	t := &Technique{
		OwnerID:  ownerID,
		Name:     CleanText(draft.Name),
		Category: draft.Category,
		Position: draft.Position,
		Notes:    CleanText(draft.Notes),
		Status:   draft.Status,
	}
	if t.Status == "" {
		t.Status = TechniqueStudying
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks if the Technique has valid data.
func (t *Technique) Validate() error {
	if t.OwnerID == uuid.Nil {
		return ErrEmptyUserID
	}
	if err := required("name", t.Name); err != nil {
		return err
	}
	if err := checkEnum("category", t.Category); err != nil {
		return err
	}
	if err := checkEnum("position", t.Position); err != nil {
		return err
	}
	return checkEnum("status", t.Status)
}

// Matches reports whether query appears in the name, category or position.
func (t *Technique) Matches(query string) bool {
	return containsFold(query, t.Name, string(t.Category), string(t.Position))
}

// CurrentStatus returns the technique's status.
func (t *Technique) CurrentStatus() TechniqueStatus { return t.Status }
