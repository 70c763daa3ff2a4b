package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS builds the CORS handler from the configured allowed origins. Preflight
// OPTIONS requests are answered with 200 so they never hit the rate limiter.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
