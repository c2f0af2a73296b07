package api

import (
	"net/http"

	"github.com/phrazzld/tatame-api/internal/api/shared"
	"github.com/phrazzld/tatame-api/internal/domain"
	"github.com/phrazzld/tatame-api/internal/service"
)

// GoalHandler serves goals. Every goal in a response carries its days
// remaining and expired flag as of today.
type GoalHandler struct {
	goals *service.GoalService
}

// NewGoalHandler creates a GoalHandler.
func NewGoalHandler(goals *service.GoalService) *GoalHandler {
	return &GoalHandler{goals: goals}
}

// List handles GET /api/goals?q=&status=.
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrError(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	goals, err := h.goals.Search(r.Context(), actor, q.Get("q"), domain.GoalStatus(q.Get("status")))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newGoalResponses(goals, h.goals.Today()))
}

// Create handles POST /api/goals.
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrError(w, r)
	if !ok {
		return
	}
	var req CreateGoalRequest
	if !decode(w, r, &req) {
		return
	}

	goal, err := h.goals.Create(r.Context(), actor, req.Draft())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, newGoalResponse(goal, h.goals.Today()))
}

// UpdateStatus handles PATCH /api/goals/{id}/status.
func (h *GoalHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrError(w, r)
	if !ok {
		return
	}
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	var req StatusUpdateRequest
	if !decode(w, r, &req) {
		return
	}

	goal, err := h.goals.UpdateStatus(r.Context(), actor, id, domain.GoalStatus(req.Status))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newGoalResponse(goal, h.goals.Today()))
}

// Summary handles GET /api/goals/summary.
func (h *GoalHandler) Summary(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrError(w, r)
	if !ok {
		return
	}

	summary, err := h.goals.Summary(r.Context(), actor)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
