package auth

import (
	"context"
	"net/http"

	"github.com/nivkatz/toystore/internal/models"
	pkghttp "github.com/nivkatz/toystore/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// UserContextKey is the key for storing session claims in context
	UserContextKey contextKey = "user"
)

// SessionValidator resolves a raw token into claims. An absent token and a
// token that fails to parse both resolve to nil.
type SessionValidator interface {
	ValidateSessionToken(token string) *models.TokenClaims
}

// WithSession resolves the session cookie and, when valid, injects the
// claims into the request context. It never rejects: routes that require a
// session compose RequireAuth/RequireAdmin on top.
func WithSession(validator SessionValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := GetLoginTokenCookie(r)
			claims := validator.ValidateSessionToken(token)
			if claims != nil {
				ctx := context.WithValue(r.Context(), UserContextKey, claims)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests without a valid session with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserFromContext(r) == nil {
			pkghttp.WriteUnauthorized(w, "Not authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose session lacks the admin flag with
// 403. Authentication is checked first: composing RequireAuth before
// RequireAdmin means an anonymous caller sees 401, never 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetUserFromContext(r)
		if claims == nil || !claims.IsAdmin {
			pkghttp.WriteForbidden(w, "Not authorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext extracts session claims from the request context
func GetUserFromContext(r *http.Request) *models.TokenClaims {
	claims, ok := r.Context().Value(UserContextKey).(*models.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}
