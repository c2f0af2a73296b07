package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the one-per-user record behind every quota decision. Its ID is
// the owning user's ID.
type Profile struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Rank       Rank      `json:"rank"`
	Academy    string    `json:"academy"`
	Instructor string    `json:"instructor"`
	StartDate  Date      `json:"start_date"`
	Tier       Tier      `json:"tier"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProfileDraft holds the sign-up form fields used to bootstrap a Profile.
type ProfileDraft struct {
	Name       string
	Rank       Rank
	Academy    string
	Instructor string
	StartDate  Date
}

// NewProfile bootstraps a free-tier profile for user.
func NewProfile(userID uuid.UUID, email string, draft ProfileDraft) (*Profile, error) {
	p := &Profile{
		ID:         userID,
		Email:      email,
		Name:       CleanText(draft.Name),
		Rank:       draft.Rank,
		Academy:    CleanText(draft.Academy),
		Instructor: CleanText(draft.Instructor),
		StartDate:  draft.StartDate,
		Tier:       TierFree,
		CreatedAt:  time.Now().UTC(),
	}
	if p.Rank == "" {
		p.Rank = RankBranca
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks if the Profile has valid data.
func (p *Profile) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if err := required("name", p.Name); err != nil {
		return err
	}
	if err := checkEnum("rank", p.Rank); err != nil {
		return err
	}
	if p.StartDate.IsZero() {
		return NewValidationError("start_date", "is required")
	}
	return checkEnum("tier", p.Tier)
}

// ProfileUpdate is a partial self-service edit. Nil fields are left alone.
// The tier is not editable here.
type ProfileUpdate struct {
	Name       *string
	Rank       *Rank
	Academy    *string
	Instructor *string
	StartDate  *Date
}

// IsEmpty reports whether the update changes nothing.
func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Rank == nil && u.Academy == nil && u.Instructor == nil && u.StartDate == nil
}

// Apply returns a copy of p with the update applied and validated.
func (p Profile) Apply(u ProfileUpdate) (*Profile, error) {
	if u.Name != nil {
		p.Name = CleanText(*u.Name)
	}
	if u.Rank != nil {
		p.Rank = *u.Rank
	}
	if u.Academy != nil {
		p.Academy = CleanText(*u.Academy)
	}
	if u.Instructor != nil {
		p.Instructor = CleanText(*u.Instructor)
	}
	if u.StartDate != nil {
		p.StartDate = *u.StartDate
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
