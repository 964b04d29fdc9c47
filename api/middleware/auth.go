package middleware

import (
	"net/http"
	"strings"

	"github.com/Kushal-prime/kushalwearback/api/responses"
	"github.com/Kushal-prime/kushalwearback/pkg/auth"
	apperrors "github.com/Kushal-prime/kushalwearback/pkg/errors"
	"github.com/Kushal-prime/kushalwearback/pkg/logger"
)

// Auth verifies the bearer token and attaches the user identity to the
// request context.
func Auth(tokens *auth.TokenManager, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				responses.WriteError(r.Context(), logg, w,
					apperrors.New(apperrors.CodeUnauthorized, "missing authorization header"))
				return
			}

			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found || raw == "" {
				responses.WriteError(r.Context(), logg, w,
					apperrors.New(apperrors.CodeUnauthorized, "malformed authorization header"))
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					apperrors.Wrap(apperrors.CodeUnauthorized, err, "invalid or expired token"))
				return
			}

			ctx := WithUser(r.Context(), claims.UserID, claims.Role)
			ctx = logg.WithUserID(ctx, claims.UserID.String())
			ctx = logg.WithUserRole(ctx, claims.Role.String())

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
