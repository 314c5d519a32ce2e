package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// errorResponse is the error envelope every endpoint shares: a stable
// machine-readable code plus a human-readable message. The ws layer
// uses the same code vocabulary in its error payloads.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteJSON writes data as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data) // nothing useful to do with an encode error mid-response
}

// WriteError writes the standard error envelope.
func WriteError(w http.ResponseWriter, status int, errorCode, message string) {
	WriteJSON(w, status, errorResponse{Error: errorCode, Message: message})
}

// ParseJSON decodes the request body into v. The Content-Type must be
// application/json and unknown fields are rejected, so a typo'd field
// name fails loudly instead of silently defaulting.
func ParseJSON(r *http.Request, v any) error {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(ct, "application/json") {
		return fmt.Errorf("request body must be JSON with Content-Type: application/json")
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("request body must be JSON with Content-Type: application/json")
	}

	return nil
}
