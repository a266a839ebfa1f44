// Package middleware provides the HTTP middleware chain for the API.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/rowanvale/lexdrill/internal/api/shared"
	"github.com/rowanvale/lexdrill/internal/platform/logger"
)

// Trace assigns each request a trace ID and stores a logger carrying it in
// the request context. Apply it first so every downstream handler logs
// with the trace ID attached.
func Trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		log := slog.With(slog.String("trace_id", shared.GetTraceID(ctx)))
		ctx = logger.WithContext(ctx, log)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
