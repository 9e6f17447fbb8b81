// pkg/middleware/auth.go
package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"gymaccess/internal/admin"
	"gymaccess/internal/api"
)

type ctxKey string

const (
	AdminIDKey ctxKey = "admin_id"
	adminKey   ctxKey = "admin"
)

// Authenticator resolves a bearer token to an existing admin.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*admin.Admin, error)
}

// JWTAuth rejects requests without a valid bearer token and stores the admin in the context.
func JWTAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				api.WriteJSON(w, http.StatusUnauthorized, api.ErrorResponse{Message: "access token required"})
				return
			}

			a, err := auth.Authenticate(r.Context(), strings.TrimSpace(token))
			if err != nil {
				api.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), AdminIDKey, a.ID)
			ctx = context.WithValue(ctx, adminKey, a)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func AdminFromContext(ctx context.Context) (*admin.Admin, bool) {
	a, ok := ctx.Value(adminKey).(*admin.Admin)
	return a, ok
}

// BasicAuth guards the metrics endpoint.
func BasicAuth(username, password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || !constantTimeCompare(user, username) || !constantTimeCompare(pass, password) {
				w.Header().Set("WWW-Authenticate", `Basic realm="metrics"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func constantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
