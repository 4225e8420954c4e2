package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/aulaplay/aulaplay-go/internal/api/apierr"
	"github.com/aulaplay/aulaplay-go/internal/model"
	"github.com/aulaplay/aulaplay-go/internal/services/auth"
)

type contextKey string

const principalContextKey contextKey = "principal"

// Auth creates authentication middleware that requires a valid token and
// resolves it into a principal on the request context
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			principal, err := authService.ResolveToken(r.Context(), token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), principalContextKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves a principal if a token is present but lets
// unauthenticated requests through, so public routes can serve both
func OptionalAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := extractToken(r); token != "" {
				if principal, err := authService.ResolveToken(r.Context(), token); err == nil {
					ctx := context.WithValue(r.Context(), principalContextKey, principal)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken extracts the bearer token from the request
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// GetPrincipal returns the resolved principal from the request context, or
// nil for unauthenticated requests
func GetPrincipal(ctx context.Context) *model.Principal {
	principal, _ := ctx.Value(principalContextKey).(*model.Principal)
	return principal
}

// MustGetPrincipal returns the resolved principal or panics
func MustGetPrincipal(ctx context.Context) *model.Principal {
	principal := GetPrincipal(ctx)
	if principal == nil {
		panic("no principal in context - auth middleware not applied?")
	}
	return principal
}
