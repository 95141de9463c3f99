package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mbelyaev/postboard/internal/common"
)

// messageResponse is the generic error/info body.
type messageResponse struct {
	Message string `json:"message"`
}

// envelopeResponse is the login/signup result shape carried over from the
// legacy API: the outcome status is repeated inside the body.
type envelopeResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusForError maps an error kind to an HTTP status code.
func statusForError(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorAuthorization):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps the error kind to a status and writes the user-facing
// message. Internal detail never leaks: kinds without a message render a
// fixed fallback.
func writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	writeJSON(w, status, messageResponse{Message: common.UserMessage(err, fallbackMessage(status))})
}

// writeErrorEnvelope is writeError in the legacy {status, message} shape.
func writeErrorEnvelope(w http.ResponseWriter, err error) {
	status := statusForError(err)
	writeJSON(w, status, envelopeResponse{Status: status, Message: common.UserMessage(err, fallbackMessage(status))})
}

func fallbackMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Invalid request"
	case http.StatusUnauthorized:
		return "Authentication required"
	case http.StatusForbidden:
		return "Not authorized"
	case http.StatusNotFound:
		return "Not found"
	case http.StatusConflict:
		return "Conflict"
	default:
		return "Internal server error"
	}
}

// decodeJSON parses the request body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.NewError(common.ErrorValidation, "Invalid request body")
	}
	return nil
}
