package middleware

import (
	"fmt"
	"net/http"

	"github.com/Kushal-prime/kushalwearback/api/responses"
	apperrors "github.com/Kushal-prime/kushalwearback/pkg/errors"
	"github.com/Kushal-prime/kushalwearback/pkg/logger"
)

// Recoverer converts panics into 500 responses instead of dropped
// connections.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err := apperrors.Wrap(
						apperrors.CodeInternal,
						fmt.Errorf("panic: %v", rec),
						"request handler panicked",
					)
					responses.WriteError(r.Context(), logg, w, err)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
