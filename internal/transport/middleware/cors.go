package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows browser frontends on other origins to call the API.
// Origins are intentionally permissive; the API is guarded by bearer tokens.
func CORS(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})(next)
}
