package httputil

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/platinummonkey/visual/pkg/contextkeys"
	"github.com/platinummonkey/visual/pkg/observability"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-ID"

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(logger *logrus.Logger) func(http.Handler) http.Handler {
	logger = observability.OrDefault(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create response writer wrapper to capture status code
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			logger.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"remote":     r.RemoteAddr,
				"status":     rw.statusCode,
				"duration":   time.Since(start),
				"request_id": w.Header().Get(RequestIDHeader),
			}).Info("http request")
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RecoveryMiddleware recovers from panics and returns a 500 error
func RecoveryMiddleware(logger *logrus.Logger) func(http.Handler) http.Handler {
	logger = observability.OrDefault(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer observability.RecoverPanicWithCallback(logger, r.Method+" "+r.URL.Path, func() {
				WriteInternalError(w, fmt.Errorf("internal server error"))
			})
			next.ServeHTTP(w, r)
		})
	}
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(contextkeys.WithRequestID(r.Context(), requestID)))
	})
}

// MaxBytesMiddleware limits the size of request bodies
func MaxBytesMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// Chain chains multiple middleware together
func Chain(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
