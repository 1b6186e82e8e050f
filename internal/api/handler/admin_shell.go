package handler

import (
	"net/http"

	"github.com/emporium-commerce/emporium/internal/api/middleware"
	"github.com/emporium-commerce/emporium/internal/api/response"
)

// AdminShell serves the back-office bootstrap document for /admin pages. The
// gate has already resolved the staff member by the time it runs.
func AdminShell(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	u := middleware.GetAdmin(r.Context())
	if u == nil {
		response.Unauthenticated(w, requestID)
		return
	}

	response.Success(w, http.StatusOK, AdminSessionResult{Admin: toAdminUserResponse(u)}, requestID)
}
