package responses

import (
	"context"
	"encoding/json"
	"net/http"

	apperrors "github.com/Kushal-prime/kushalwearback/pkg/errors"
	"github.com/Kushal-prime/kushalwearback/pkg/logger"
)

// errorBody is the wire shape for every failed request.
type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Errors  any    `json:"errors,omitempty"`
}

// WriteJSON serializes payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteMessage writes a body containing only a message key.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"message": message})
}

// WriteError translates err into its HTTP representation. Typed errors map
// through the code taxonomy; anything else becomes a 500 with a generic
// body. Server-side faults are logged with the original cause.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	typed := apperrors.As(err)
	if typed == nil {
		typed = apperrors.Wrap(apperrors.CodeInternal, err, "unexpected error")
	}

	meta := apperrors.MetadataFor(typed.Code())
	if meta.HTTPStatus >= http.StatusInternalServerError {
		// Server faults log the full unwrap chain and any driver
		// detail, not just the top message.
		diagCtx := logg.WithFields(ctx, apperrors.Diagnose(err).Fields())
		logg.Error(diagCtx, "request failed", err)
	} else {
		errCtx := logg.WithField(ctx, "error_code", string(typed.Code()))
		logg.Warn(errCtx, typed.Error())
	}

	message := typed.Message()
	if message == "" || meta.HTTPStatus >= http.StatusInternalServerError {
		message = meta.PublicMessage
	}

	body := errorBody{
		Message: message,
		Code:    string(typed.Code()),
	}
	if meta.DetailsAllowed {
		body.Errors = typed.Details()
	}
	WriteJSON(w, meta.HTTPStatus, body)
}
