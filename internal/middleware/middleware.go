// Package middleware provides the HTTP middleware chain: request IDs,
// request-scoped logging, panic recovery, and Prometheus metrics.
package middleware

import (
	"net/http"
	"runtime/debug"
)

// contextKey is a private type for context values set by this package.
type contextKey string

// Recover converts handler panics into 500 responses instead of tearing
// down the connection.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger := GetLogger(r.Context())
				logger.Error("panic recovered",
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
