package rest

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("rest: encode error: %v", err)
	}
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: message, Code: code})
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// StatusError is returned by Client when the server answers with a
// non-2xx status
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("option server: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("option server: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// labelBody is the wire shape of one label lookup and of a label update
type labelBody struct {
	Value string `json:"value,omitempty"`
	Label string `json:"label"`
}
