package middleware

import (
	"net/http"

	"github.com/Kushal-prime/kushalwearback/api/responses"
	"github.com/Kushal-prime/kushalwearback/pkg/enums"
	apperrors "github.com/Kushal-prime/kushalwearback/pkg/errors"
	"github.com/Kushal-prime/kushalwearback/pkg/logger"
)

// RequireRole gates a subtree to users holding one of the given roles.
// Must run after Auth.
func RequireRole(logg *logger.Logger, roles ...enums.UserRole) func(http.Handler) http.Handler {
	allowed := make(map[enums.UserRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := allowed[UserRole(r.Context())]; !ok {
				responses.WriteError(r.Context(), logg, w,
					apperrors.New(apperrors.CodeForbidden, "insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
