package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/khatahq/khata/internal/infrastructure/auth"
)

// APIKeyHeader is the header carrying the API key.
const APIKeyHeader = "X-API-Key"

// APIKeyAuth rejects requests that do not carry the configured API key,
// then attaches the resolved principal to the request context. When key
// is empty, the key check is disabled and all requests pass. A nil
// resolver falls back to auth.DefaultResolver.
func APIKeyAuth(key string, resolver auth.Resolver) func(http.Handler) http.Handler {
	if resolver == nil {
		resolver = auth.DefaultResolver()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key != "" {
				provided := r.Header.Get(APIKeyHeader)
				if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusUnauthorized)
					w.Write([]byte(`{"error":"invalid or missing API key"}`))
					return
				}
			}

			principal, err := resolver.Resolve(r)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"could not resolve principal"}`))
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		})
	}
}
