package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"employeedir/internal/domain/employee"
)

type ErrorBody struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

type MessageBody struct {
	Message string `json:"message"`
	ID      int64  `json:"id,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Msg("write json failed")
	}
}

func Success(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, data)
}

func Fail(w http.ResponseWriter, status int, message, requestID string) {
	WriteJSON(w, status, ErrorBody{Error: message, RequestID: requestID})
}

// StatusFor maps an error kind onto its HTTP status. Duplicate emails are a
// client error (400), not a 409, to match the existing browser client.
func StatusFor(kind employee.Kind) int {
	switch kind {
	case employee.KindValidation, employee.KindConflict:
		return http.StatusBadRequest
	case employee.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// FailError writes err as an error body. Only the structured message and
// field of an *employee.Error reach the client; anything else is opaque.
func FailError(w http.ResponseWriter, err error, requestID string) {
	var domainErr *employee.Error
	if !errors.As(err, &domainErr) {
		Fail(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	WriteJSON(w, StatusFor(domainErr.Kind), ErrorBody{
		Error:     domainErr.Message,
		Field:     domainErr.Field,
		RequestID: requestID,
	})
}
