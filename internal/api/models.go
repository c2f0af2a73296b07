package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tatame-api/internal/domain"
	"github.com/phrazzld/tatame-api/internal/service"
)

// RegisterRequest is the sign-up form.
type RegisterRequest struct {
	Email           string      `json:"email"            validate:"required,email"`
	Password        string      `json:"password"         validate:"required"`
	ConfirmPassword string      `json:"confirm_password" validate:"required"`
	Name            string      `json:"name"             validate:"required"`
	Rank            domain.Rank `json:"rank"`
	Academy         string      `json:"academy"`
	Instructor      string      `json:"instructor"`
	StartDate       domain.Date `json:"start_date"`
}

// Input converts the form into the account service input.
func (r RegisterRequest) Input() service.RegisterInput {
	return service.RegisterInput{
		Email:           r.Email,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
		Profile: domain.ProfileDraft{
			Name:       r.Name,
			Rank:       r.Rank,
			Academy:    r.Academy,
			Instructor: r.Instructor,
			StartDate:  r.StartDate,
		},
	}
}

// LoginRequest is the sign-in form.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest carries a refresh token, for refresh and logout.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// PasswordResetRequest asks for a reset token to be mailed.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirmRequest sets a new password with a reset token.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"        validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// MeResponse is the identity of the caller.
type MeResponse struct {
	UserID uuid.UUID   `json:"user_id"`
	Email  string      `json:"email"`
	Tier   domain.Tier `json:"tier"`
}

// UpdateProfileRequest is a partial profile edit. Tier is only declared so
// that a request trying to set it can be refused.
type UpdateProfileRequest struct {
	Name       *string         `json:"name"`
	Rank       *domain.Rank    `json:"rank"`
	Academy    *string         `json:"academy"`
	Instructor *string         `json:"instructor"`
	StartDate  *domain.Date    `json:"start_date"`
	Tier       json.RawMessage `json:"tier,omitempty"`
}

// Validate refuses tier changes.
func (r UpdateProfileRequest) Validate() error {
	if r.Tier != nil {
		return domain.NewValidationError("tier", "cannot be changed")
	}
	return nil
}

// Update converts the request into a domain.ProfileUpdate.
func (r UpdateProfileRequest) Update() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		Name:       r.Name,
		Rank:       r.Rank,
		Academy:    r.Academy,
		Instructor: r.Instructor,
		StartDate:  r.StartDate,
	}
}

// TechniqueList accepts either a JSON array of names or one
// comma-separated string.
type TechniqueList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *TechniqueList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}
	var csv string
	if err := json.Unmarshal(data, &csv); err != nil {
		return fmt.Errorf("%w: techniques must be a list or a string", domain.ErrInvalidFormat)
	}
	*l = domain.SplitList(csv)
	return nil
}

// CreateSessionRequest records a training session.
type CreateSessionRequest struct {
	Date       domain.Date        `json:"date"`
	Type       domain.SessionType `json:"type"`
	Techniques TechniqueList      `json:"techniques"`
	Notes      string             `json:"notes"`
	Effort     int                `json:"effort"`
}

// Draft converts the request into a domain.SessionDraft.
func (r CreateSessionRequest) Draft() domain.SessionDraft {
	return domain.SessionDraft{
		Date:       r.Date,
		Type:       r.Type,
		Techniques: r.Techniques,
		Notes:      r.Notes,
		Effort:     r.Effort,
	}
}

// CreateTechniqueRequest adds a technique to the catalog.
type CreateTechniqueRequest struct {
	Name     string                   `json:"name"`
	Category domain.TechniqueCategory `json:"category"`
	Position domain.Position          `json:"position"`
	Notes    string                   `json:"notes"`
	Status   domain.TechniqueStatus   `json:"status"`
}

// Draft converts the request into a domain.TechniqueDraft.
func (r CreateTechniqueRequest) Draft() domain.TechniqueDraft {
	return domain.TechniqueDraft{
		Name:     r.Name,
		Category: r.Category,
		Position: r.Position,
		Notes:    r.Notes,
		Status:   r.Status,
	}
}

// CreateGoalRequest sets a new goal.
type CreateGoalRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Deadline    domain.Date `json:"deadline"`
}

// Draft converts the request into a domain.GoalDraft.
func (r CreateGoalRequest) Draft() domain.GoalDraft {
	return domain.GoalDraft{
		Title:       r.Title,
		Description: r.Description,
		Deadline:    r.Deadline,
	}
}

// StatusUpdateRequest moves a technique or goal to another status.
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// TechniqueResponse is a technique with its status presentation.
type TechniqueResponse struct {
	*domain.Technique
	Presentation domain.StatusPresentation `json:"presentation"`
}

func newTechniqueResponse(t *domain.Technique) TechniqueResponse {
	return TechniqueResponse{Technique: t, Presentation: t.Status.Presentation()}
}

func newTechniqueResponses(ts []*domain.Technique) []TechniqueResponse {
	out := make([]TechniqueResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, newTechniqueResponse(t))
	}
	return out
}

// GoalResponse is a goal with its status presentation and deadline
// figures as of today.
type GoalResponse struct {
	*domain.Goal
	Presentation  domain.StatusPresentation `json:"presentation"`
	DaysRemaining int                       `json:"days_remaining"`
	Expired       bool                      `json:"expired"`
}

func newGoalResponse(g *domain.Goal, today domain.Date) GoalResponse {
	return GoalResponse{
		Goal:          g,
		Presentation:  g.Status.Presentation(),
		DaysRemaining: g.DaysRemaining(today),
		Expired:       g.Expired(today),
	}
}

func newGoalResponses(gs []*domain.Goal, today domain.Date) []GoalResponse {
	out := make([]GoalResponse, 0, len(gs))
	for _, g := range gs {
		out = append(out, newGoalResponse(g, today))
	}
	return out
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}
