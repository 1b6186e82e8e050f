package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"sigs.k8s.io/yaml"

	"github.com/emporium-commerce/emporium/internal/api/middleware"
	"github.com/emporium-commerce/emporium/internal/api/response"
)

// openAPICacheControl lets clients reuse the document but revalidate it,
// since a deploy can change it without changing the URL.
const openAPICacheControl = "public, max-age=300, must-revalidate"

type renderedSpec struct {
	body []byte
	etag string
}

// OpenAPIHandler serves the embedded API description as JSON with a strong
// ETag, answering matching conditional requests with 304.
type OpenAPIHandler struct {
	render func() (renderedSpec, error)
}

// NewOpenAPIHandler creates a handler for yamlSpec. The YAML is converted
// once, on first request.
func NewOpenAPIHandler(yamlSpec []byte) *OpenAPIHandler {
	return &OpenAPIHandler{
		render: sync.OnceValues(func() (renderedSpec, error) {
			body, err := yaml.YAMLToJSON(yamlSpec)
			if err != nil {
				return renderedSpec{}, err
			}
			sum := sha256.Sum256(body)
			return renderedSpec{body: body, etag: `"` + hex.EncodeToString(sum[:16]) + `"`}, nil
		}),
	}
}

// ServeHTTP handles GET /openapi.json.
func (h *OpenAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	spec, err := h.render()
	if err != nil {
		slog.Error("failed to convert OpenAPI document to JSON", "error", err)
		response.Err(w, http.StatusInternalServerError, response.CodeInternal, "Failed to render API description", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("ETag", spec.etag)
	w.Header().Set("Cache-Control", openAPICacheControl)

	if etagMatches(r.Header.Get("If-None-Match"), spec.etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(spec.body); err != nil {
		slog.Error("failed to write OpenAPI response", "error", err)
	}
}

// etagMatches applies the weak comparison If-None-Match requires.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
