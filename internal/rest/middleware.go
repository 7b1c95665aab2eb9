package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/sanLimbu/task-tracker/internal"
	"github.com/sanLimbu/task-tracker/internal/auth"
)

type claimsContextKey struct{}

// Authenticator resolves bearer tokens to the claims of the authenticated user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// NewAuthMiddleware rejects requests without a valid "Authorization: Bearer <token>" header.
func NewAuthMiddleware(a Authenticator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				renderErrorResponse(r.Context(), w, "",
					internal.NewErrorf(internal.ErrorCodeUnauthenticated, "Missing Authorization Header"))
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				renderErrorResponse(r.Context(), w, "",
					internal.NewErrorf(internal.ErrorCodeUnauthenticated, "Authorization header must be a Bearer token"))
				return
			}

			claims, err := a.Authenticate(r.Context(), strings.TrimSpace(token))
			if err != nil {
				renderErrorResponse(r.Context(), w, "authentication failed", err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsContextKey{}, claims)))
		})
	}
}

// claimsFromContext returns the claims set by the auth middleware.
func claimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsContextKey{}).(*auth.Claims)
	return claims
}

func userIDFromContext(ctx context.Context) int64 {
	if claims := claimsFromContext(ctx); claims != nil {
		return claims.UserID
	}

	return 0
}
