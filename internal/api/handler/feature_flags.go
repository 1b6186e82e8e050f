package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/emporium-commerce/emporium/internal/api/middleware"
	"github.com/emporium-commerce/emporium/internal/api/response"
	"github.com/emporium-commerce/emporium/internal/api/validation"
	"github.com/emporium-commerce/emporium/internal/featureflag"
)

// FlagGate reads and writes feature flags.
type FlagGate interface {
	IsEnabled(ctx context.Context, key string) bool
	Upsert(ctx context.Context, key string, fields featureflag.UpsertFields) (*featureflag.Flag, error)
	List(ctx context.Context) ([]featureflag.Flag, error)
}

type upsertFlagRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IsEnabled   bool    `json:"isEnabled"`
	Group       *string `json:"group"`
}

type publicFlagResponse struct {
	Key     string `json:"key"`
	Enabled bool   `json:"enabled"`
}

// FeatureFlagHandler handles the feature flag endpoints.
type FeatureFlagHandler struct {
	gate FlagGate
}

// NewFeatureFlagHandler creates a new FeatureFlagHandler.
func NewFeatureFlagHandler(gate FlagGate) *FeatureFlagHandler {
	return &FeatureFlagHandler{gate: gate}
}

// List handles GET /api/admin/feature-flags.
func (h *FeatureFlagHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	flags, err := h.gate.List(r.Context())
	if err != nil {
		slog.Error("failed to list feature flags", "error", err)
		response.Internal(w, requestID)
		return
	}

	response.SuccessList(w, http.StatusOK, flags, len(flags), requestID)
}

// Upsert handles PUT /api/admin/feature-flags/{key}.
func (h *FeatureFlagHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	key := chi.URLParam(r, "key")

	var req upsertFlagRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	if rejectInvalid(w, validation.ValidateUpsertFlagRequest(validation.UpsertFlagRequest{
		Key:         key,
		Name:        req.Name,
		Description: req.Description,
		Group:       req.Group,
	}), requestID) {
		return
	}

	f, err := h.gate.Upsert(r.Context(), key, featureflag.UpsertFields{
		Name:        req.Name,
		Description: req.Description,
		IsEnabled:   req.IsEnabled,
		Group:       req.Group,
	})
	if err != nil {
		slog.Error("failed to upsert feature flag", "error", err, "key", key)
		response.Internal(w, requestID)
		return
	}

	attrs := []any{"key", key, "enabled", f.IsEnabled}
	if a := middleware.GetAdmin(r.Context()); a != nil {
		attrs = append(attrs, "adminId", a.ID)
	}
	slog.Info("feature flag updated", attrs...)

	response.Success(w, http.StatusOK, f, requestID)
}

// Public handles GET /api/public/feature-flags/{key}. Unknown keys report
// disabled.
func (h *FeatureFlagHandler) Public(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	key := chi.URLParam(r, "key")

	response.Success(w, http.StatusOK, publicFlagResponse{
		Key:     key,
		Enabled: h.gate.IsEnabled(r.Context(), key),
	}, requestID)
}
