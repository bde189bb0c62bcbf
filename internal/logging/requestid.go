// Package logging configures the process logger and carries request IDs
// through contexts.
package logging

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const requestIDKey contextKey = "requestId"

// HeaderRequestID is the header used to accept and echo request IDs.
const HeaderRequestID = "X-Request-ID"

const maxRequestIDLen = 128

// GenerateRequestID creates a new request ID.
func GenerateRequestID() string {
	return "req-" + uuid.NewString()
}

// RequestIDFromHeader returns the caller's request ID when it is printable
// ASCII of reasonable length, and a fresh one otherwise.
func RequestIDFromHeader(h http.Header) string {
	id := strings.TrimSpace(h.Get(HeaderRequestID))
	if id == "" || len(id) > maxRequestIDLen || strings.ContainsFunc(id, unprintable) {
		return GenerateRequestID()
	}
	return id
}

func unprintable(r rune) bool { return r < 0x21 || r > 0x7e }

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the request ID stored in ctx, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithRequestLogger stores requestID in ctx together with a child of base
// tagged with it, so zerolog.Ctx picks the child up downstream.
func WithRequestLogger(ctx context.Context, base zerolog.Logger, requestID string) (context.Context, zerolog.Logger) {
	logger := base.With().Str("request_id", requestID).Logger()
	return logger.WithContext(WithRequestID(ctx, requestID)), logger
}
