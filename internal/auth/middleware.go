package auth

import (
	"net/http"
	"strings"

	"github.com/magnova/magnova-procure/internal/platform/httpx"
	"github.com/magnova/magnova-procure/internal/shared"
)

// RequireAuth verifies the bearer token and stores the identity in context.
func (m *TokenManager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
			return
		}
		identity, err := m.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithIdentity(r.Context(), identity)))
	})
}
