package admin

import (
	"time"

	"github.com/google/uuid"
)

// Role values for staff accounts.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// ValidRole reports whether role is a known staff role.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}

// User represents a row in the admin_users table. Rows are provisioned out of
// band and linked to the identity provider through ExternalSubjectID.
type User struct {
	ID                uuid.UUID
	Email             string
	Name              *string
	Role              string
	IsActive          bool
	LastLoginAt       *time.Time
	ExternalSubjectID string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsSuperAdmin reports whether the user holds the super_admin role.
func (u *User) IsSuperAdmin() bool {
	return u != nil && u.Role == RoleSuperAdmin
}

// UpdateFields holds the optional fields an admin-management action may change.
type UpdateFields struct {
	Role     *string
	IsActive *bool
}
