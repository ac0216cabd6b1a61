// Package httpapi holds small helpers shared by the HTTP port packages.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/vocablearn/vocab-platform/internal/errmap"
)

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError maps a domain error to its HTTP shape and writes it.
func WriteError(w http.ResponseWriter, err error) {
	httpErr := errmap.ToHTTPError(err)
	WriteJSON(w, httpErr.StatusCode, httpErr)
}

// DecodeJSON decodes the request body into v, rejecting unknown shapes
// leniently: any syntactically valid JSON is accepted.
func DecodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
