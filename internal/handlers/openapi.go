package handlers

import (
	_ "embed"
	"net/http"

	applog "recipeserver/internal/log"
)

//go:embed openapi.json
var openAPIDocument []byte

// OpenAPI serves the static OpenAPI description of the JSON routes.
func OpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=300")
	if _, err := w.Write(openAPIDocument); err != nil {
		applog.Error(r.Context(), "failed to write openapi document", "error", err)
	}
}
