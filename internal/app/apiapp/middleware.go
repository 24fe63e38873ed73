package apiapp

import (
	"context"
	"net/http"
	"strings"

	"github.com/tiagocodinha/StagelinkApproval/internal/services/auth"
	httperrors "github.com/tiagocodinha/StagelinkApproval/internal/transport/http/errors"
)

type TokenValidator interface {
	ValidateAccessToken(ctx context.Context, tokenString string) (auth.Identity, error)
}

// AuthMiddleware gates protected routes behind a Bearer access token
// and attaches the resolved identity to the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{
					Code:    httperrors.CodeUnauthorized,
					Message: "bearer token required",
				})
				return
			}

			identity, err := validator.ValidateAccessToken(r.Context(), token)
			if err != nil {
				httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{
					Code:    httperrors.CodeUnauthorized,
					Message: "invalid or expired token",
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}
