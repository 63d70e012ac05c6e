package utilities

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes v as a JSON body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the {"error": msg} envelope used by every handler.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}

// WriteValidationError writes a 400 with per-field validation messages.
func WriteValidationError(w http.ResponseWriter, details error) {
	WriteJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload", "details": details})
}
