package validators

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	apperrors "github.com/Kushal-prime/kushalwearback/pkg/errors"
)

// QueryInt parses an optional integer query parameter, returning fallback
// when the key is absent or empty.
func QueryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.New(apperrors.CodeValidation, key+" must be an integer")
	}
	return value, nil
}

// QueryFloat parses an optional float query parameter.
func QueryFloat(r *http.Request, key string) (float64, bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, false, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, apperrors.New(apperrors.CodeValidation, key+" must be a number")
	}
	return value, true, nil
}

// PathUUID parses a required UUID path segment.
func PathUUID(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.New(apperrors.CodeValidation, name+" must be a valid id")
	}
	return id, nil
}
