// Package httputil provides HTTP handler utilities for consistent error handling,
// JSON encoding/decoding, and request parsing.
package httputil

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response with the given status code
func WriteError(w http.ResponseWriter, status int, err error) {
	WriteErrorMessage(w, status, err.Error())
}

// WriteErrorMessage writes a JSON error response with a custom message
func WriteErrorMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}

// WriteNotFoundError writes a not found error response (404 Not Found)
func WriteNotFoundError(w http.ResponseWriter, message string) {
	WriteErrorMessage(w, http.StatusNotFound, message)
}

// WriteInternalError writes an internal server error response (500 Internal Server Error)
func WriteInternalError(w http.ResponseWriter, err error) {
	WriteError(w, http.StatusInternalServerError, err)
}

// WriteBadRequest writes a bad request error (400)
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteErrorMessage(w, http.StatusBadRequest, message)
}

// WriteSuccess writes a successful response (200 OK) with JSON data
func WriteSuccess(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, data)
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error string `json:"error"`
}
