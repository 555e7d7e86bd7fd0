package middleware

import (
	"net/http"
	"strings"

	"github.com/lenawood/shelfmark/internal/auth"
)

// Auth extracts a Bearer token from the Authorization header and, when it
// verifies, attaches the asserted identity to the request context. Requests
// without a valid token pass through unauthenticated; resolvers decide which
// operations require an identity.
func Auth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				next.ServeHTTP(w, r)
				return
			}

			ident, err := tokens.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), ident)))
		})
	}
}
