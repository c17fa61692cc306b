package handler

import (
	"log/slog"
	"net/http"

	"sigs.k8s.io/yaml"

	"github.com/clubhouse/clubhouse/internal/api/middleware"
	"github.com/clubhouse/clubhouse/internal/api/response"
)

// OpenAPIHandler serves /openapi.json.
type OpenAPIHandler struct {
	doc []byte
	err error
}

// NewOpenAPIHandler converts the YAML document once. A document that fails
// to convert is reported as a 500 on every request.
func NewOpenAPIHandler(yamlDoc []byte) *OpenAPIHandler {
	doc, err := yaml.YAMLToJSON(yamlDoc)
	if err != nil {
		slog.Error("invalid API description", "error", err)
	}
	return &OpenAPIHandler{doc: doc, err: err}
}

func (h *OpenAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.err != nil {
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"Failed to render API description", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=300")
	if _, err := w.Write(h.doc); err != nil {
		slog.Warn("writing API description", "error", err)
	}
}
