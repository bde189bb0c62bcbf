// Package util holds small string helpers shared by the upstream clients.
package util

import (
	"fmt"
	"strings"
)

// DefaultLogMaxLen bounds upstream bodies copied into logs and error messages.
const DefaultLogMaxLen = 1024

// ErrorBodyMaxLen bounds upstream bodies embedded in errors shown to users.
const ErrorBodyMaxLen = 500

// TruncateLog truncates long strings for logging.
func TruncateLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + fmt.Sprintf("... [truncated, %d bytes total]", len(s))
}

// TruncateBytes is TruncateLog for a raw body with DefaultLogMaxLen.
func TruncateBytes(b []byte) string {
	return TruncateLog(string(b), DefaultLogMaxLen)
}

// TruncateBody trims whitespace and truncates an upstream response body for
// inclusion in an error message.
func TruncateBody(b []byte) string {
	return TruncateLog(strings.TrimSpace(string(b)), ErrorBodyMaxLen)
}

// Redact replaces every non-empty secret in s with a placeholder.
func Redact(s string, secrets ...string) string {
	for _, secret := range secrets {
		if strings.TrimSpace(secret) == "" {
			continue
		}
		s = strings.ReplaceAll(s, secret, "[redacted]")
	}
	return s
}
