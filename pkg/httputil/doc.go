// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Overview
//
// This package offers helper functions for JSON encoding/decoding, error
// responses, path and query parsing, and the middleware used by the
// visparam host.
//
// # Response Helpers
//
//	httputil.WriteJSON(w, http.StatusOK, data)
//	httputil.WriteNotFoundError(w, "param not found")
//	httputil.WriteBadRequest(w, "Invalid input")
//
// # Request Parsing
//
//	var req SetValueRequest
//	if !httputil.ParseJSONOrError(w, r, &req) {
//		return // Error response already written
//	}
//
//	name, ok := httputil.ParsePathStringOrError(w, r, "name")
//	setOnly, err := httputil.ParseQueryBool(r, "set", false)
//
// # Middleware
//
//	httputil.Chain(
//		httputil.RequestIDMiddleware,
//		httputil.LoggingMiddleware(logger),
//		httputil.RecoveryMiddleware(logger),
//		httputil.MaxBytesMiddleware(1<<20),
//	)
//
// # Related Packages
//
//   - pkg/paramapi: Parameter HTTP handlers
package httputil
