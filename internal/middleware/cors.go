package middleware

import (
	"net/http"

	gorillahandlers "github.com/gorilla/handlers"
)

// CORS restricts cross-origin access to a single origin while allowing every
// verb the API uses, preflight included, with credentials.
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	return gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins([]string{allowedOrigin}),
		gorillahandlers.AllowedMethods([]string{
			http.MethodGet, http.MethodHead, http.MethodPut,
			http.MethodPatch, http.MethodPost, http.MethodDelete, http.MethodOptions,
		}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "Authorization", RequestIDHeader}),
		gorillahandlers.ExposedHeaders([]string{RequestIDHeader}),
		gorillahandlers.AllowCredentials(),
	)
}
