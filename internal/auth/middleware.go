package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var errMissingToken = errors.New("auth: missing bearer token")

type contextKey string

const adminIDKey contextKey = "adminID"

// RequireAuth rejects requests without a valid bearer token with 401 and
// the API's usual error body. On success the admin ID is in the context.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			adminID, err := adminFromRequest(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("WWW-Authenticate", `Bearer realm="studio"`)
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), adminIDKey, adminID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminIDFromContext returns the admin set by RequireAuth.
func AdminIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(adminIDKey).(string)
	return id, ok && id != ""
}

func adminFromRequest(r *http.Request, tokens *TokenService) (string, error) {
	const prefix = "bearer "
	h := r.Header.Get("Authorization")
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", errMissingToken
	}
	return tokens.Validate(strings.TrimSpace(h[len(prefix):]))
}
