package validation

import "github.com/emporium-commerce/emporium/internal/admin"

// UpdateAdminUserRequest mirrors the fields needed for admin update validation.
type UpdateAdminUserRequest struct {
	Role     *string
	IsActive *bool
}

// ValidateUpdateAdminUserRequest requires at least one field and a known role.
func ValidateUpdateAdminUserRequest(req UpdateAdminUserRequest) []FieldError {
	var errs []FieldError

	if req.Role == nil && req.IsActive == nil {
		errs = append(errs, FieldError{Field: "body", Message: "at least one of role or isActive is required"})
	}
	if req.Role != nil && !admin.ValidRole(*req.Role) {
		errs = append(errs, FieldError{Field: "role", Message: "role must be \"admin\" or \"super_admin\""})
	}

	return errs
}
