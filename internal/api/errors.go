package api

import (
	"encoding/json"
	"net/http"

	"tourbooking/internal/apperr"
	"tourbooking/pkg/logger"
)

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []apperr.FieldError `json:"fields,omitempty"`
	Details map[string]any      `json:"details,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeEnvelope(w, status, APIError{Code: code, Message: message})
}

// WriteAppError writes exactly one envelope for err. Store failures are logged
// and reported without their underlying message.
func WriteAppError(w http.ResponseWriter, r *http.Request, err error) {
	e := apperr.As(err)
	status := StatusFor(e.Kind)

	body := APIError{Code: e.Code, Message: e.Message, Fields: e.Fields, Details: e.Details}
	if e.Kind == apperr.KindStore {
		logger.Error(r.Context()).Err(err).Str("path", r.URL.Path).Msg("request failed")
		body = APIError{Code: "INTERNAL", Message: "internal error"}
	}
	writeEnvelope(w, status, body)
}

func StatusFor(k apperr.Kind) int {
	switch k {
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidTransition, apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeEnvelope(w http.ResponseWriter, status int, e APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(ErrorEnvelope{Error: e})
}
