package api

import (
	"net/http"

	"github.com/phrazzld/tatame-api/internal/api/shared"
	"github.com/phrazzld/tatame-api/internal/domain"
	"github.com/phrazzld/tatame-api/internal/service"
)

// SessionHandler serves the training log.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// List handles GET /api/sessions?q=&type=.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrError(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	sessions, err := h.sessions.Search(r.Context(), actor, q.Get("q"), domain.SessionType(q.Get("type")))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessions)
}

// Create handles POST /api/sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrError(w, r)
	if !ok {
		return
	}
	var req CreateSessionRequest
	if !decode(w, r, &req) {
		return
	}

	session, err := h.sessions.Create(r.Context(), actor, req.Draft())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, session)
}

// Summary handles GET /api/sessions/summary.
func (h *SessionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrError(w, r)
	if !ok {
		return
	}

	summary, err := h.sessions.Summary(r.Context(), actor)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
