package main

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// APIResponse is the standard JSON response envelope for error paths; the
// /synth success path itself returns plain text.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// writeJSON writes a JSON response to w.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// writeError writes an APIResponse error envelope.
func writeError(w http.ResponseWriter, statusCode int, message string) error {
	return writeJSON(w, statusCode, APIResponse{
		Success: false,
		Error:   message,
	})
}

// writePlainText writes a bare text/plain body. The /synth endpoint renders
// either the synthesized SQL or the literal "Unable to synthesize" this way.
func writePlainText(w http.ResponseWriter, statusCode int, body string) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err := w.Write([]byte(body))
	return err
}

// readJSONBody reads and decodes a JSON request body.
func readJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// newRequestID mints a correlation id for one HTTP request, logged with
// every zap line produced while handling it.
func newRequestID() string {
	return uuid.NewString()
}
