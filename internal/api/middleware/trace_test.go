package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/taskwatch/internal/api/shared"
	"github.com/stretchr/testify/assert"
)

func TestTraceMiddleware(t *testing.T) {
	var seen string
	handler := TraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.GetTraceID(r.Context())
	}))

	t.Run("generates a trace id", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Len(t, seen, 32)
		assert.Equal(t, seen, w.Header().Get(shared.TraceIDHeader))
	})

	t.Run("reuses the caller's trace id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(shared.TraceIDHeader, "caller-trace")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "caller-trace", seen)
		assert.Equal(t, "caller-trace", w.Header().Get(shared.TraceIDHeader))
	})
}
