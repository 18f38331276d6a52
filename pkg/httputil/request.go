package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// ParseJSON decodes JSON from the request body into the destination
func ParseJSON(r *http.Request, dest interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// ParseJSONOrError decodes JSON and writes error response on failure
func ParseJSONOrError(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := ParseJSON(r, dest); err != nil {
		WriteBadRequest(w, err.Error())
		return false
	}
	return true
}

// ParsePathString extracts a string path parameter
func ParsePathString(r *http.Request, key string) (string, error) {
	val := mux.Vars(r)[key]
	if val == "" {
		return "", fmt.Errorf("missing path parameter: %s", key)
	}
	return val, nil
}

// ParsePathStringOrError extracts a string path parameter and writes error on failure
func ParsePathStringOrError(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	val, err := ParsePathString(r, key)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return "", false
	}
	return val, true
}

// ParseQueryBool extracts a boolean query parameter with a default value
func ParseQueryBool(r *http.Request, key string, defaultVal bool) (bool, error) {
	str := r.URL.Query().Get(key)
	if str == "" {
		return defaultVal, nil
	}
	val, err := strconv.ParseBool(str)
	if err != nil {
		return defaultVal, fmt.Errorf("invalid boolean for %s: %s", key, str)
	}
	return val, nil
}
