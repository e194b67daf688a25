package http

import (
	"context"
	"net/http"
	"strings"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/security"
)

type contextKey string

const claimsKey contextKey = "claims"

// AuthMiddleware validates the bearer token and stores the caller's
// claims in the request context. Authentication itself happened upstream
// at the identity service; this only trusts its signature.
func AuthMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				respondError(w, r, domain.ErrUnauthorized("missing bearer token"))
				return
			}
			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				respondError(w, r, domain.ErrUnauthorized("invalid token: %v", err))
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

// RequireOperator gates operator-only endpoints on the OPERATOR role.
func RequireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := callerClaims(r)
		if claims == nil || !hasRole(claims, domain.RoleOperator) {
			respondError(w, r, domain.ErrUnauthorized("operator role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func callerClaims(r *http.Request) *security.UserClaims {
	claims, _ := r.Context().Value(claimsKey).(*security.UserClaims)
	return claims
}

func callerID(r *http.Request) int64 {
	if claims := callerClaims(r); claims != nil {
		return claims.UserID
	}
	return 0
}

func hasRole(claims *security.UserClaims, role domain.Role) bool {
	for _, r := range claims.DomainRoles() {
		if r == role {
			return true
		}
	}
	return false
}
