package ai

import "strings"

// ExhaustedError is returned when every provider in the chain failed or was
// not configured.
type ExhaustedError struct {
	// Failures holds one "{provider}: {message}" entry per provider, in
	// chain order.
	Failures []string
}

func (e *ExhaustedError) Error() string {
	return "All AI providers failed:\n" + strings.Join(e.Failures, "\n")
}
