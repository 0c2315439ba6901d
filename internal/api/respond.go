// Package api holds the HTTP plumbing shared by all endpoint handlers.
package api

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the error envelope every endpoint uses.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSON serializes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the standard error envelope.
func WriteError(w http.ResponseWriter, status int, errText, message string) {
	WriteJSON(w, status, ErrorResponse{
		Success: false,
		Error:   errText,
		Message: message,
	})
}
