package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/emporium-commerce/emporium/internal/api/middleware"
	"github.com/emporium-commerce/emporium/internal/api/response"
)

const healthCheckTimeout = 2 * time.Second

// Pinger checks connectivity to a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	db      Pinger
	cache   Pinger
	version string
}

// NewHealthHandler creates a new HealthHandler. cache may be nil when no flag
// cache is configured.
func NewHealthHandler(db Pinger, cache Pinger, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		cache:   cache,
		version: version,
	}
}

type dependencyStatus struct {
	Enabled   bool `json:"enabled"`
	Connected bool `json:"connected"`
}

type healthData struct {
	Status   string           `json:"status"`
	Version  string           `json:"version"`
	Database dependencyStatus `json:"database"`
	Cache    dependencyStatus `json:"cache"`
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	data := healthData{
		Status:   "healthy",
		Version:  h.version,
		Database: probe(ctx, h.db),
		Cache:    probe(ctx, h.cache),
	}
	if !data.Database.Connected || (data.Cache.Enabled && !data.Cache.Connected) {
		data.Status = "degraded"
	}

	response.Success(w, http.StatusOK, data, requestID)
}

func probe(ctx context.Context, p Pinger) dependencyStatus {
	if p == nil {
		return dependencyStatus{}
	}
	return dependencyStatus{Enabled: true, Connected: p.Ping(ctx) == nil}
}
