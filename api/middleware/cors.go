package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the storefront and admin frontends to call the API from
// the browser. Origins are fixed rather than wildcarded because the
// admin surface carries bearer tokens.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"https://flamoure.vercel.app",
			"https://flamoure.id",
			"https://www.flamoure.id",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-Id",
			"X-Session-Id",
			"Idempotency-Key",
		},
		ExposedHeaders: []string{
			"X-Request-Id",
			"Content-Disposition",
		},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
