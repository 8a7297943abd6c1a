// Package httpx carries the JSON conventions shared by every handler: each
// response body carries a request_id, and errors travel in a {code, message}
// envelope so callers can branch on the code without parsing prose.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

func NewRequestID() string { return "req_" + uuid.NewString() }

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteOK stamps a request_id onto the body and sends it with status 200.
func WriteOK(w http.ResponseWriter, v map[string]any) {
	v["request_id"] = NewRequestID()
	WriteJSON(w, http.StatusOK, v)
}

// ReadJSON decodes a request body strictly; unknown fields are an error so
// misspelled payload fields fail loudly instead of silently zeroing.
func ReadJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, map[string]any{
		"request_id": NewRequestID(),
		"error":      map[string]any{"code": code, "message": message},
	})
}
