package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/tatame-api/internal/api"
	apiMiddleware "github.com/phrazzld/tatame-api/internal/api/middleware"
	"github.com/phrazzld/tatame-api/internal/api/shared"
	"github.com/phrazzld/tatame-api/internal/metrics"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewInstrumentMiddleware(app.collector))
	r.Use(apiMiddleware.NewCORSMiddleware(app.config.Server.AllowedOrigins))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.profiles)

	api.RegisterRoutes(r, api.Handlers{
		Auth:          api.NewAuthHandler(app.accounts, app.logger),
		Profile:       api.NewProfileHandler(app.profiles),
		Sessions:      api.NewSessionHandler(app.sessions),
		Techniques:    api.NewTechniqueHandler(app.techniques),
		Goals:         api.NewGoalHandler(app.goals),
		Subscriptions: api.NewSubscriptionHandler(app.subscriptions),
	}, api.RouteMiddleware{
		Authenticate: authMiddleware.Authenticate,
		Throttle:     app.limiter.Middleware,
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, api.HealthResponse{
			Status: "ok",
			Time:   app.clock.Now(),
		})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(app.registry))

	return r
}
