package handler

import (
	"log/slog"
	"net/http"

	"sigs.k8s.io/yaml"

	"github.com/daap14/billing/internal/api/middleware"
	"github.com/daap14/billing/internal/api/response"
)

// OpenAPIHandler serves the embedded OpenAPI document as JSON.
type OpenAPIHandler struct {
	jsonSpec []byte
	jsonErr  error
}

// NewOpenAPIHandler converts the YAML document once, up front. A conversion
// failure is logged here and reported as a 500 on every request.
func NewOpenAPIHandler(yamlSpec []byte) *OpenAPIHandler {
	jsonSpec, err := yaml.YAMLToJSON(yamlSpec)
	if err != nil {
		slog.Error("failed to convert OpenAPI spec to JSON", "error", err)
	}
	return &OpenAPIHandler{jsonSpec: jsonSpec, jsonErr: err}
}

// ServeHTTP writes the converted document.
func (h *OpenAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.jsonErr != nil {
		requestID := middleware.GetRequestID(r.Context())
		response.Err(w, http.StatusInternalServerError, response.CodeInternal, "Failed to convert OpenAPI spec", requestID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.jsonSpec); err != nil {
		slog.Error("failed to write OpenAPI spec response", "error", err)
	}
}
