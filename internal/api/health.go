package api

import "net/http"

// healthHandler answers without auth. It confirms whether an API key is
// configured, never what it is.
func healthHandler(apiKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{
			OK:            true,
			APIKeyPresent: apiKey != "",
		})
	}
}
