package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/emporium-commerce/emporium/internal/admin"
	"github.com/emporium-commerce/emporium/internal/api/middleware"
	"github.com/emporium-commerce/emporium/internal/api/response"
	"github.com/emporium-commerce/emporium/internal/api/validation"
)

type updateAdminUserRequest struct {
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

// AdminUserHandler handles the back-office staff management endpoints.
type AdminUserHandler struct {
	repo admin.Repository
}

// NewAdminUserHandler creates a new AdminUserHandler.
func NewAdminUserHandler(repo admin.Repository) *AdminUserHandler {
	return &AdminUserHandler{repo: repo}
}

// List handles GET /api/admin/users.
func (h *AdminUserHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	users, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("failed to list admin users", "error", err)
		response.Internal(w, requestID)
		return
	}

	items := make([]*adminUserResponse, 0, len(users))
	for i := range users {
		items = append(items, toAdminUserResponse(&users[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// Update handles PATCH /api/admin/users/{id}.
func (h *AdminUserHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.ErrWithDetails(w, http.StatusBadRequest, response.CodeValidation, "Input validation failed",
			[]validation.FieldError{{Field: "id", Message: "id must be a valid UUID"}}, requestID)
		return
	}

	var req updateAdminUserRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	if rejectInvalid(w, validation.ValidateUpdateAdminUserRequest(validation.UpdateAdminUserRequest{
		Role:     req.Role,
		IsActive: req.IsActive,
	}), requestID) {
		return
	}

	actor := middleware.GetAdmin(r.Context())
	u, err := admin.UpdateUser(r.Context(), h.repo, actor, id, admin.UpdateFields{
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, admin.ErrSelfModification):
			response.Err(w, http.StatusConflict, response.CodeConflict, "You cannot demote or deactivate your own account", requestID)
		case errors.Is(err, admin.ErrAdminNotFound):
			response.Err(w, http.StatusNotFound, response.CodeNotFound, "Admin user not found", requestID)
		case errors.Is(err, admin.ErrInvalidRole):
			response.ErrWithDetails(w, http.StatusBadRequest, response.CodeValidation, "Input validation failed",
				[]validation.FieldError{{Field: "role", Message: "role must be \"admin\" or \"super_admin\""}}, requestID)
		default:
			slog.Error("failed to update admin user", "error", err, "id", id)
			response.Internal(w, requestID)
		}
		return
	}

	if actor != nil {
		slog.Info("admin user updated", "id", id, "actorId", actor.ID)
	}

	response.Success(w, http.StatusOK, toAdminUserResponse(u), requestID)
}
