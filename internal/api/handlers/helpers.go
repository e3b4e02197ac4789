package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/notedeck/notedeck-be/internal/auth"
	"github.com/notedeck/notedeck-be/internal/storage"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes the uniform error body: {"error": message}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeOpError maps a typed storage error onto a response; anything untyped
// becomes a 500.
func writeOpError(w http.ResponseWriter, err error) {
	writeError(w, storage.StatusOf(err), storage.MessageOf(err))
}

// writeAuthError maps namespace-resolution failures onto 401/403 responses.
func writeAuthError(w http.ResponseWriter, err error) {
	switch err {
	case auth.ErrTokenRequired:
		writeError(w, http.StatusUnauthorized, "authentication required")
	case auth.ErrWrongUser:
		writeError(w, http.StatusForbidden, "access to another user's documents is not allowed")
	default:
		writeError(w, http.StatusUnauthorized, "unauthorized")
	}
}
