// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/openpaws/openpaws/internal/logging"
)

// RequestLogger assigns a request ID, attaches a request-scoped logger to
// the context and logs each request once it completes.
func RequestLogger(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := logging.RequestIDFromHeader(r.Header)
			w.Header().Set(logging.HeaderRequestID, requestID)
			ctx, logger := logging.WithRequestLogger(r.Context(), base, requestID)

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			event := logger.Info()
			if status >= 400 && status < 500 {
				event = logger.Warn()
			} else if status >= 500 {
				event = logger.Error()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Str("client_ip", r.RemoteAddr).
				Int("body_size", ww.BytesWritten()).
				Msg("request completed")
		})
	}
}
