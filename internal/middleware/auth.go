package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/tmodak/settleup/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// HandleKey is the context key for storing the authenticated handle.
	HandleKey contextKey = "handle"
)

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetHandle extracts the user handle from the context.
// Returns empty string if not found.
func GetHandle(ctx context.Context) string {
	handle, _ := ctx.Value(HandleKey).(string)
	return handle
}

// WithUserID returns a context carrying the given user ID. Tests use it to
// impersonate callers without minting tokens.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// RequireAuth returns middleware that validates the bearer token and puts
// the resolved identity on the request context. Requests without a valid
// token get 401 before reaching any handler.
func RequireAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, auth.ErrMissingToken.Error(), http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, auth.ErrInvalidToken.Error(), http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, HandleKey, claims.Handle)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
