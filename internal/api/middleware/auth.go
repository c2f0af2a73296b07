package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/tatame-api/internal/api/shared"
	"github.com/phrazzld/tatame-api/internal/platform/logger"
	"github.com/phrazzld/tatame-api/internal/service"
	"github.com/phrazzld/tatame-api/internal/service/auth"
	"github.com/phrazzld/tatame-api/internal/store"
)

// ActorResolver builds the Actor behind a validated token.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID uuid.UUID) (service.Actor, error)
}

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	actors     ActorResolver
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, actors ActorResolver) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		actors:     actors,
	}
}

// Authenticate validates the bearer access token, resolves the caller's
// Actor with its current tier and adds it to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrWrongTokenType),
				errors.Is(err, auth.ErrTokenNotYetValid):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			}
			return
		}

		actor, err := m.actors.ResolveActor(r.Context(), claims.UserID)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNoActor):
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid token", err,
					shared.WithElevatedLogLevel())
			case store.IsUnavailableError(err):
				shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable,
					"Service temporarily unavailable, try again", err)
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			}
			return
		}

		ctx := shared.WithActor(r.Context(), actor)
		reqLog := logger.FromContext(ctx).With(slog.String("user_id", actor.UserID.String()))
		ctx = logger.WithLogger(ctx, reqLog)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
