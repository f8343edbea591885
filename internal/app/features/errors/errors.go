// Package errors renders the JSON error envelope used by every API
// endpoint: {"error": "...", "details": "..."}.
//
// The details field echoes the underlying error text and is only included
// when debug mode is enabled (dev environment); production responses carry
// the generic message alone.
package errors

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// envelope is the wire shape of every error response.
type envelope struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

var debug atomic.Bool

// SetDebug controls whether error details are echoed to clients.
// Called once at startup with env == "dev".
func SetDebug(on bool) {
	debug.Store(on)
}

// Render writes a JSON error envelope with the given status. details is
// dropped unless debug mode is on.
func Render(w http.ResponseWriter, status int, msg, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	e := envelope{Error: msg}
	if debug.Load() {
		e.Details = details
	}
	_ = json.NewEncoder(w).Encode(e)
}

// RenderUnauthorized writes a 401 for missing or invalid credentials.
func RenderUnauthorized(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "Authentication required"
	}
	Render(w, http.StatusUnauthorized, msg, "")
}

// RenderForbidden writes a 403 for an authenticated but unpermitted caller.
func RenderForbidden(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "You do not have permission to access this resource"
	}
	Render(w, http.StatusForbidden, msg, "")
}

// RenderNotFound writes a 404.
func RenderNotFound(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "Not found"
	}
	Render(w, http.StatusNotFound, msg, "")
}

// RenderValidation writes a 400 for malformed or missing input.
func RenderValidation(w http.ResponseWriter, msg string) {
	Render(w, http.StatusBadRequest, msg, "")
}

// RenderConflict writes a 409 for a lost concurrent-update race.
func RenderConflict(w http.ResponseWriter, msg string) {
	Render(w, http.StatusConflict, msg, "")
}

// RenderMaintenance writes a 503 while maintenance mode is active.
func RenderMaintenance(w http.ResponseWriter) {
	Render(w, http.StatusServiceUnavailable, "The service is under maintenance. Please try again later.", "")
}
