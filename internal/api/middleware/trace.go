package middleware

import (
	"log/slog"
	"net/http"

	"github.com/taskwell/taskwell-api/internal/api/shared"
)

// TraceMiddleware adds a trace ID to the request context.
// Apply it early in the chain so every subsequent handler and log line can
// carry the same correlation ID.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())

		log := slog.With(slog.String("trace_id", shared.GetTraceID(ctx)))
		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
