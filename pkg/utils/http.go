package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

func WriteJSON(w http.ResponseWriter, payload any, code int) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(payload)
}

func DecodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ErrorResponse is the envelope every failure is serialized into.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func WriteError(w http.ResponseWriter, code, message string, status int) error {
	return WriteJSON(w, ErrorResponse{Error: ErrorBody{Code: code, Message: message}}, status)
}

func WriteErrorDetails(w http.ResponseWriter, code, message string, details map[string]any, status int) error {
	return WriteJSON(w, ErrorResponse{Error: ErrorBody{Code: code, Message: message, Details: details}}, status)
}

func WriteValidationError(w http.ResponseWriter, err error) error {
	details := make(map[string]any)

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			details[fe.Field()] = fe.Tag()
		}
	}

	return WriteErrorDetails(w, "VALIDATION_ERROR", "invalid request", details, http.StatusBadRequest)
}
