// Package response writes the mock API's JSON bodies. Payloads are written
// as-is, without an envelope, and errors are {"error": "<message>"}.
package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes body with the given status.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 JSON response.
func Success(w http.ResponseWriter, body any) {
	JSON(w, http.StatusOK, body)
}

// Created sends a 201 JSON response.
func Created(w http.ResponseWriter, body any) {
	JSON(w, http.StatusCreated, body)
}

// Error sends {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// ValidationError sends a 422 with a field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	JSON(w, http.StatusUnprocessableEntity, map[string]any{
		"error":  "Validation failed",
		"fields": errs,
	})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized")
}

// NotFound sends a 404 with message, or "Not found" when empty.
func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Not found"
	}
	Error(w, http.StatusNotFound, message)
}
