package handler

import (
	"context"
	"net/http"

	"github.com/emporium-commerce/emporium/internal/admin"
	"github.com/emporium-commerce/emporium/internal/api/middleware"
	"github.com/emporium-commerce/emporium/internal/api/response"
)

// StaffSessionResolver resolves the staff member behind a request and records
// the login.
type StaffSessionResolver interface {
	ResolveAndTouch(ctx context.Context, r *http.Request) *admin.User
}

type adminUserResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Name        *string `json:"name"`
	Role        string  `json:"role"`
	IsActive    bool    `json:"isActive"`
	LastLoginAt *string `json:"lastLoginAt"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toAdminUserResponse(u *admin.User) *adminUserResponse {
	if u == nil {
		return nil
	}
	return &adminUserResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: formatTimePtr(u.LastLoginAt),
		CreatedAt:   formatTime(u.CreatedAt),
		UpdatedAt:   formatTime(u.UpdatedAt),
	}
}

// AdminSessionResult is the body of the staff session check.
type AdminSessionResult struct {
	Admin *adminUserResponse `json:"admin"`
}

// AdminSessionHandler handles GET /api/auth/admin/session.
type AdminSessionHandler struct {
	resolver StaffSessionResolver
}

// NewAdminSessionHandler creates a new AdminSessionHandler.
func NewAdminSessionHandler(resolver StaffSessionResolver) *AdminSessionHandler {
	return &AdminSessionHandler{resolver: resolver}
}

// ServeHTTP reports the current staff member, or null. It never fails with
// an auth error.
func (h *AdminSessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	u := h.resolver.ResolveAndTouch(r.Context(), r)

	response.Success(w, http.StatusOK, AdminSessionResult{Admin: toAdminUserResponse(u)}, requestID)
}
