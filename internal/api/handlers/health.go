package handlers

import (
	"net/http"

	"github.com/openpaws/openpaws/internal/version"
)

// Health handles GET /healthz. providers lists the configured AI providers
// in chain order.
func Health(providers []string) http.HandlerFunc {
	if providers == nil {
		providers = []string{}
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"version":   version.Version,
			"commit":    version.Commit,
			"providers": providers,
		})
	}
}
