package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mindhaven/companion-backend/internal/models"
	"github.com/mindhaven/companion-backend/pkg/utils"
)

type contextKey string

const userKey contextKey = "currentUser"

// UserLoader resolves a token subject to a live account. Unknown subjects
// (e.g. deleted between token issue and use) fail authentication.
type UserLoader interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// JWTAuth validates a Bearer token and loads the current user into the
// request context. Any failure (missing header, bad signature, expired
// token, unknown subject) answers 401 with the same generic message.
func JWTAuth(secret string, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractBearerToken(r.Header.Get("Authorization"))
			if token == "" {
				writeUnauthorized(w)
				return
			}

			claims, err := utils.ParseAccessToken(token, secret)
			if err != nil {
				writeUnauthorized(w)
				return
			}

			user, err := users.GetUser(r.Context(), claims.Subject)
			if err != nil || user == nil {
				writeUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user placed by JWTAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

// WithUser returns a context carrying the given user. Used by tests and
// by the WebSocket gateway, which authenticates outside JWTAuth.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// ExtractBearerToken pulls the token out of an Authorization header value.
func ExtractBearerToken(header string) string {
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": "Authentication required",
	})
}
