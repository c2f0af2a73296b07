package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSMiddleware allows the browser client at origins to call the API
// with bearer tokens. An empty list disables cross-origin access.
func NewCORSMiddleware(origins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"X-Trace-ID", "Retry-After"},
		MaxAge:         300,
	})
	return c.Handler
}
