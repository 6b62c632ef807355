package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskwatch/internal/api/shared"
)

// TraceMiddleware adds a trace ID to the request context and echoes it in
// the X-Trace-ID response header. An incoming X-Trace-ID is reused.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if incoming := r.Header.Get(shared.TraceIDHeader); incoming != "" && len(incoming) <= 64 {
			ctx = shared.WithTraceID(ctx, incoming)
		} else {
			ctx = shared.SetTraceID(ctx)
		}
		traceID := shared.GetTraceID(ctx)
		w.Header().Set(shared.TraceIDHeader, traceID)

		slog.Debug("request started",
			slog.String("trace_id", traceID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
