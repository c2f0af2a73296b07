package api

import (
	"net/http"

	"github.com/phrazzld/tatame-api/internal/api/shared"
	"github.com/phrazzld/tatame-api/internal/service"
)

// ProfileHandler serves the caller's identity and profile.
type ProfileHandler struct {
	profiles service.ProfileService
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(profiles service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Me handles GET /api/me.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrError(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, MeResponse{
		UserID: actor.UserID,
		Email:  actor.Email,
		Tier:   actor.Tier,
	})
}

// GetProfile handles GET /api/profile.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrError(w, r)
	if !ok {
		return
	}

	overview, err := h.profiles.Overview(r.Context(), actor)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, overview)
}

// UpdateProfile handles PATCH /api/profile.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrError(w, r)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !decode(w, r, &req) {
		return
	}

	profile, err := h.profiles.UpdateProfile(r.Context(), actor, req.Update())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, profile)
}
