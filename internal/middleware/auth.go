package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dfirmansy/userledger/internal/auth"
	"github.com/dfirmansy/userledger/internal/logging"
)

// AuthUserIDKey is the context key type for the authenticated user ID
type AuthUserIDKey string

// AuthUserIDContextKey is the context key holding the authenticated user ID
const AuthUserIDContextKey AuthUserIDKey = "auth_user_id"

// GetAuthUserID extracts the authenticated user ID from context
func GetAuthUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(AuthUserIDContextKey).(string); ok {
		return userID
	}
	return ""
}

// TokenParser validates a bearer token and returns its claims.
type TokenParser interface {
	Parse(tokenString string) (*auth.Claims, error)
}

// AuthenticationMiddleware rejects requests without a valid bearer token
// and stores the authenticated user ID in the request context.
func AuthenticationMiddleware(parser TokenParser, logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeUnauthorized(w, "Missing bearer token")
				return
			}

			claims, err := parser.Parse(token)
			if err != nil {
				logger.Warn("Rejected invalid access token", logging.FieldError, err, "path", r.URL.Path)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), AuthUserIDContextKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
		"code":  "UNAUTHORIZED",
	})
}
