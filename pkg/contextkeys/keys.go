// Package contextkeys defines the context keys shared across packages.
package contextkeys

import "context"

// Key is the type for context keys to prevent collisions
type Key string

const (
	// RequestIDKey contains the request ID string.
	// Set by: httputil.RequestIDMiddleware
	// Used by: paramapi handler logging
	RequestIDKey Key = "request_id"
)

// WithRequestID adds request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
