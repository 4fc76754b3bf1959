package middleware

import "net/http"

// MaxBodySize caps request bodies; every write endpoint in this API carries
// a small JSON document.
const MaxBodySize int64 = 1 << 20 // 1MB

// RequestSize wraps the body with http.MaxBytesReader; oversized bodies
// surface as 413 from the JSON decoder.
func RequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
