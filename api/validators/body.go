package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/Kushal-prime/kushalwearback/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

const maxBodyBytes = 1 << 20

// DecodeAndValidate reads a JSON body into dst and runs struct validation.
// Failures come back as typed validation errors with per-field details.
func DecodeAndValidate(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return apperrors.New(apperrors.CodeValidation, "request body is required")
		default:
			return apperrors.Wrap(apperrors.CodeValidation, err, "malformed request body")
		}
	}
	if decoder.More() {
		return apperrors.New(apperrors.CodeValidation, "request body must contain a single JSON object")
	}

	return Validate(dst)
}

// Validate runs struct validation on dst.
func Validate(dst any) error {
	if err := validate.Struct(dst); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return apperrors.Wrap(apperrors.CodeInternal, err, "validation setup failed")
		}

		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			details := make([]map[string]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				details = append(details, map[string]string{
					"field":  fieldName(fe),
					"reason": reason(fe),
				})
			}
			return apperrors.New(apperrors.CodeValidation, "request validation failed").
				WithDetails(details)
		}
		return apperrors.Wrap(apperrors.CodeValidation, err, "request validation failed")
	}
	return nil
}

func fieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		return strings.Join(parts[1:], ".")
	}
	return fe.Field()
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "uuid":
		return "must be a valid id"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
