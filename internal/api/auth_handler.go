package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tatame-api/internal/api/shared"
	"github.com/phrazzld/tatame-api/internal/platform/logger"
	"github.com/phrazzld/tatame-api/internal/service"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	accounts service.AccountService
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(accounts service.AccountService, log *slog.Logger) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		accounts: accounts,
		logger:   log.With(slog.String("component", "auth_handler")),
	}
}

// decode parses and validates a request body, writing the error response
// on failure.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	return true
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	pair, err := h.accounts.Register(r.Context(), req.Input())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, pair)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}

	pair, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, pair)
}

// RefreshToken handles POST /api/auth/refresh.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if !decode(w, r, &req) {
		return
	}

	pair, err := h.accounts.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, pair)
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrError(w, r)
	if !ok {
		return
	}
	var req RefreshTokenRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.accounts.Logout(r.Context(), actor, req.RefreshToken); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RequestPasswordReset handles POST /api/auth/password-reset. The answer is
// the same whether or not the email belongs to a user.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.accounts.RequestPasswordReset(r.Context(), req.Email); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusAccepted, map[string]string{
		"message": "If the address is registered, a reset link is on its way",
	})
}

// ConfirmPasswordReset handles POST /api/auth/password-reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetConfirmRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.accounts.ConfirmPasswordReset(r.Context(), req.Token, req.NewPassword); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Debug("password reset confirmed")
	w.WriteHeader(http.StatusNoContent)
}

// actorOrError returns the authenticated actor or writes a 401.
func actorOrError(w http.ResponseWriter, r *http.Request) (service.Actor, bool) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		HandleAPIError(w, r, service.ErrNoActor)
		return service.Actor{}, false
	}
	return actor, true
}
