package api

import (
	"net/http"

	"github.com/phrazzld/tatame-api/internal/api/shared"
	"github.com/phrazzld/tatame-api/internal/domain"
	"github.com/phrazzld/tatame-api/internal/service"
)

// TechniqueHandler serves the technique catalog.
type TechniqueHandler struct {
	techniques *service.TechniqueService
}

// NewTechniqueHandler creates a TechniqueHandler.
func NewTechniqueHandler(techniques *service.TechniqueService) *TechniqueHandler {
	return &TechniqueHandler{techniques: techniques}
}

// List handles GET /api/techniques?q=&status=.
func (h *TechniqueHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrError(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	techniques, err := h.techniques.Search(r.Context(), actor, q.Get("q"), domain.TechniqueStatus(q.Get("status")))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newTechniqueResponses(techniques))
}

// Create handles POST /api/techniques.
func (h *TechniqueHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrError(w, r)
	if !ok {
		return
	}
	var req CreateTechniqueRequest
	if !decode(w, r, &req) {
		return
	}

	technique, err := h.techniques.Create(r.Context(), actor, req.Draft())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, newTechniqueResponse(technique))
}

// UpdateStatus handles PATCH /api/techniques/{id}/status.
func (h *TechniqueHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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

	technique, err := h.techniques.UpdateStatus(r.Context(), actor, id, domain.TechniqueStatus(req.Status))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newTechniqueResponse(technique))
}

// Summary handles GET /api/techniques/summary.
func (h *TechniqueHandler) Summary(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrError(w, r)
	if !ok {
		return
	}

	summary, err := h.techniques.Summary(r.Context(), actor)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
