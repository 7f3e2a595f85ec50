package utils

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

// WriteError writes a non-field error as a detail/code pair.
func WriteError(w http.ResponseWriter, detail string, statusCode int) {
	code := ""
	switch statusCode {
	case http.StatusUnauthorized:
		code = "not_authenticated"
	case http.StatusForbidden:
		code = "permission_denied"
	case http.StatusNotFound:
		code = "not_found"
	case http.StatusMethodNotAllowed:
		code = "method_not_allowed"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponse{
		Detail: detail,
		Code:   code,
	})
}

// WriteValidationError writes a 400 response mapping field names to lists of
// message strings.
func WriteValidationError(w http.ResponseWriter, fields map[string][]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(fields)
}

// FieldError builds a validation map carrying a single field message.
func FieldError(field, message string) map[string][]string {
	return map[string][]string{field: {message}}
}
