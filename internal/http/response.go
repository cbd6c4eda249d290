package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"ledger/internal/core"
	"ledger/internal/log"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var (
		ve  *core.ValidationError
		nf  *core.NotFoundError
		mbe *http.MaxBytesError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errInvalidID), errors.Is(err, errMalformedBody):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorTypeFor(err error) string {
	var (
		pe *core.PersistenceError
		ce *core.CorruptStateError
	)
	switch {
	case errors.As(err, &pe):
		return log.ErrorTypePersistence
	case errors.As(err, &ce):
		return log.ErrorTypeCorruptState
	default:
		return log.ErrorTypeInternal
	}
}

func operationFor(method string) string {
	switch method {
	case http.MethodPost:
		return log.OpCreate
	case http.MethodPut, http.MethodPatch:
		return log.OpUpdate
	case http.MethodDelete:
		return log.OpDelete
	default:
		return log.OpRead
	}
}

// writeError renders err. Internal errors are logged and their text hidden.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := ErrorBody{Error: err.Error(), RequestID: log.RequestIDFromContext(r.Context())}

	var ve *core.ValidationError
	if errors.As(err, &ve) {
		body.Field = ve.Field
		body.Error = ve.Err.Error()
	}
	if status == http.StatusInternalServerError {
		fields := log.NewFields().WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.UserAgent())
		log.NewStructuredLogger(log.FromContext(r.Context())).
			LogError(r.Context(), "Request failed", err, errorTypeFor(err), operationFor(r.Method), fields)
		body.Error = http.StatusText(status)
	}
	writeJSON(w, status, body)
}
