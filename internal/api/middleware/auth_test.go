package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tatame-api/internal/api/shared"
	"github.com/phrazzld/tatame-api/internal/domain"
	"github.com/phrazzld/tatame-api/internal/mocks"
	"github.com/phrazzld/tatame-api/internal/service"
	"github.com/phrazzld/tatame-api/internal/service/auth"
	"github.com/phrazzld/tatame-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resolverFunc func(ctx context.Context, userID uuid.UUID) (service.Actor, error)

func (f resolverFunc) ResolveActor(ctx context.Context, userID uuid.UUID) (service.Actor, error) {
	return f(ctx, userID)
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()
	validClaims := &auth.Claims{UserID: userID, TokenType: auth.TokenTypeAccess}
	knownUser := resolverFunc(func(_ context.Context, id uuid.UUID) (service.Actor, error) {
		return service.Actor{UserID: id, Email: "atleta@example.com", Tier: domain.TierActive}, nil
	})

	tests := []struct {
		name       string
		header     string
		jwt        *mocks.MockJWTService
		actors     ActorResolver
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing header",
			jwt:        &mocks.MockJWTService{},
			actors:     knownUser,
			wantStatus: http.StatusUnauthorized,
			wantError:  "Authorization header required",
		},
		{
			name:       "wrong scheme",
			header:     "Basic dXNlcjpwYXNz",
			jwt:        &mocks.MockJWTService{},
			actors:     knownUser,
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid authorization format",
		},
		{
			name:       "expired token",
			header:     "Bearer old",
			jwt:        &mocks.MockJWTService{ValidateErr: auth.ErrExpiredToken},
			actors:     knownUser,
			wantStatus: http.StatusUnauthorized,
			wantError:  "Token expired",
		},
		{
			name:       "refresh token used as access token",
			header:     "Bearer refresh",
			jwt:        &mocks.MockJWTService{ValidateErr: auth.ErrWrongTokenType},
			actors:     knownUser,
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid token",
		},
		{
			name:   "deleted user",
			header: "Bearer valid",
			jwt:    &mocks.MockJWTService{Claims: validClaims},
			actors: resolverFunc(func(context.Context, uuid.UUID) (service.Actor, error) {
				return service.Actor{}, service.ErrNoActor
			}),
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid token",
		},
		{
			name:   "store unavailable",
			header: "Bearer valid",
			jwt:    &mocks.MockJWTService{Claims: validClaims},
			actors: resolverFunc(func(context.Context, uuid.UUID) (service.Actor, error) {
				return service.Actor{}, fmt.Errorf("resolve: %w", store.ErrUnavailable)
			}),
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "Service temporarily unavailable, try again",
		},
		{
			name:       "lowercase scheme accepted",
			header:     "bearer valid",
			jwt:        &mocks.MockJWTService{Claims: validClaims},
			actors:     knownUser,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotActor service.Actor
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				actor, ok := shared.ActorFromContext(r.Context())
				require.True(t, ok)
				gotActor = actor
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			NewAuthMiddleware(tt.jwt, tt.actors).Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Contains(t, rec.Body.String(), tt.wantError)
				return
			}
			assert.Equal(t, userID, gotActor.UserID)
			assert.Equal(t, domain.TierActive, gotActor.Tier)
			assert.Equal(t, []string{"valid"}, tt.jwt.Validated)
		})
	}
}
