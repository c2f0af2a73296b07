package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handlers groups every API handler.
type Handlers struct {
	Auth          *AuthHandler
	Profile       *ProfileHandler
	Sessions      *SessionHandler
	Techniques    *TechniqueHandler
	Goals         *GoalHandler
	Subscriptions *SubscriptionHandler
}

// RouteMiddleware holds the middleware applied to route groups.
type RouteMiddleware struct {
	// Authenticate guards every non-public route.
	Authenticate func(http.Handler) http.Handler
	// Throttle guards the public auth routes. Nil disables it.
	Throttle func(http.Handler) http.Handler
}

// RegisterRoutes mounts the /api routes on r.
func RegisterRoutes(r chi.Router, h Handlers, mw RouteMiddleware) {
	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Group(func(r chi.Router) {
			if mw.Throttle != nil {
				r.Use(mw.Throttle)
			}
			r.Post("/auth/register", h.Auth.Register)
			r.Post("/auth/login", h.Auth.Login)
			r.Post("/auth/refresh", h.Auth.RefreshToken)
			r.Post("/auth/password-reset", h.Auth.RequestPasswordReset)
			r.Post("/auth/password-reset/confirm", h.Auth.ConfirmPasswordReset)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate)

			r.Post("/auth/logout", h.Auth.Logout)

			r.Get("/me", h.Profile.Me)
			r.Get("/profile", h.Profile.GetProfile)
			r.Patch("/profile", h.Profile.UpdateProfile)

			r.Get("/sessions", h.Sessions.List)
			r.Post("/sessions", h.Sessions.Create)
			r.Get("/sessions/summary", h.Sessions.Summary)

			r.Get("/techniques", h.Techniques.List)
			r.Post("/techniques", h.Techniques.Create)
			r.Get("/techniques/summary", h.Techniques.Summary)
			r.Patch("/techniques/{id}/status", h.Techniques.UpdateStatus)

			r.Get("/goals", h.Goals.List)
			r.Post("/goals", h.Goals.Create)
			r.Get("/goals/summary", h.Goals.Summary)
			r.Patch("/goals/{id}/status", h.Goals.UpdateStatus)

			r.Get("/subscription", h.Subscriptions.Info)
			r.Get("/subscription/checkout", h.Subscriptions.Checkout)
		})
	})
}
