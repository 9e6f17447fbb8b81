package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"gymaccess/internal/apperror"
)

type ErrorResponse struct {
	Message string                `json:"message"`
	Rule    string                `json:"rule,omitempty"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

// WriteError maps an error kind to an HTTP status. Storage faults and unknown errors
// get a generic body.
func WriteError(w http.ResponseWriter, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Message: "internal error"})
		return
	}

	switch appErr.Kind {
	case apperror.KindMissingField:
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Message: appErr.Message, Errors: appErr.Fields})
	case apperror.KindBusinessRule:
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Message: appErr.Message, Rule: appErr.Rule})
	case apperror.KindNotFound:
		WriteJSON(w, http.StatusNotFound, ErrorResponse{Message: appErr.Message})
	case apperror.KindValidation:
		WriteJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Message: appErr.Message, Errors: appErr.Fields})
	case apperror.KindUnauthorized:
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Message: appErr.Message})
	default:
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Message: appErr.Message})
	}
}

// DecodeJSON reads the request body into v. Malformed input becomes a validation error.
func DecodeJSON(r *http.Request, op string, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	var timeErr *time.ParseError
	switch {
	case errors.As(err, &typeErr):
		return apperror.Validation(op, apperror.FieldError{Field: typeErr.Field, Message: "must be " + typeErr.Type.String()})
	case errors.As(err, &timeErr):
		return apperror.Validation(op, apperror.FieldError{Field: "timestamp", Message: "must be an RFC 3339 date-time"})
	}
	return apperror.Validation(op, apperror.FieldError{Field: "body", Message: "invalid JSON"})
}

// IDParam parses a positive integer URL parameter.
func IDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validation("http.param", apperror.FieldError{Field: name, Message: "must be a positive integer"})
	}
	return id, nil
}
