// internal/app/system/limits/limits.go
package limits

import "net/http"

// Request body size limits.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBody is the maximum size accepted for JSON request bodies.
	// Every API payload is small (credentials, roster rows, settings), so
	// anything near this limit is abuse.
	MaxJSONBody = 1 << 20 // 1 MB
)

// JSONBody caps the request body at MaxJSONBody for every request passing
// through it. Reads past the cap fail, which surfaces as a decode error in
// the handler.
func JSONBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBody)
		}
		next.ServeHTTP(w, r)
	})
}
