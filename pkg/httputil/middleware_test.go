package httputil

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/platinummonkey/visual/pkg/contextkeys"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(buf *bytes.Buffer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(buf)
	return logger
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	handler := LoggingMiddleware(newBufferLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/params", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	out := buf.String()
	assert.Contains(t, out, "path=/params")
	assert.Contains(t, out, "status=418")
}

func TestRecoveryMiddleware(t *testing.T) {
	var buf bytes.Buffer
	handler := RecoveryMiddleware(newBufferLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	}))

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/params", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
	assert.Contains(t, buf.String(), "PANIC recovered")
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = contextkeys.GetRequestID(r.Context())
	}))

	t.Run("generates ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
		require.NoError(t, err)
		assert.Equal(t, w.Header().Get(RequestIDHeader), seen)
	})

	t.Run("keeps client ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(RequestIDHeader, "abc")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc", seen)
	})
}

func TestMaxBytesMiddleware(t *testing.T) {
	handler := MaxBytesMiddleware(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var dest map[string]string
		ParseJSONOrError(w, r, &dest)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/", strings.NewReader(`{"name": "too long"}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChain(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(mark("first"), mark("second"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, []string{"first", "second", "handler"}, order)
}
