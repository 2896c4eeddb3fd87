package middleware

import "net/http"

// Form field values are tiny; anything bigger than this is not a field edit.
const maxFieldBodySize = 16 * 1024

// SecurityHeaders adds baseline security headers to all responses. The CSP
// allows only same-origin resources; the widget script and its lookups stay
// on this host.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; frame-ancestors 'none'; base-uri 'self'; form-action 'self'")
		next.ServeHTTP(w, r)
	})
}

// MaxBodySize rejects oversized request bodies with 413 and caps the rest
// with a limited reader.
func MaxBodySize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil && r.ContentLength > maxFieldBodySize {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxFieldBodySize)
		next.ServeHTTP(w, r)
	})
}
