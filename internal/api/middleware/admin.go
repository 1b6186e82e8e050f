package middleware

import (
	"net/http"

	"github.com/emporium-commerce/emporium/internal/admin"
	"github.com/emporium-commerce/emporium/internal/api/response"
)

// RequireAdminAPI rejects requests without a resolved admin with a JSON 401.
func RequireAdminAPI(next http.Handler) http.Handler {
	return requireAPI(admin.NeedAdmin, next)
}

// RequireSuperAdminAPI rejects requests without a resolved admin with a JSON
// 401, and admins below super_admin with a JSON 403.
func RequireSuperAdminAPI(next http.Handler) http.Handler {
	return requireAPI(admin.NeedSuperAdmin, next)
}

func requireAPI(need admin.Requirement, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := GetRequestID(r.Context())

		switch admin.Authorize(GetAdmin(r.Context()), need) {
		case admin.Unauthenticated:
			response.Unauthenticated(w, requestID)
		case admin.Forbidden:
			response.Forbidden(w, requestID)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// RequireAdminPage redirects requests without a resolved admin to the login page.
func RequireAdminPage(loginPath string) func(http.Handler) http.Handler {
	return requirePage(admin.NeedAdmin, loginPath, "")
}

// RequireSuperAdminPage redirects requests without a resolved admin to the
// login page and admins below super_admin to the back-office landing page.
func RequireSuperAdminPage(loginPath, landingPath string) func(http.Handler) http.Handler {
	return requirePage(admin.NeedSuperAdmin, loginPath, landingPath)
}

func requirePage(need admin.Requirement, loginPath, landingPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch admin.Authorize(GetAdmin(r.Context()), need) {
			case admin.Unauthenticated:
				RedirectToLogin(w, r, loginPath)
			case admin.Forbidden:
				http.Redirect(w, r, landingPath, http.StatusFound)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
