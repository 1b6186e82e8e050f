package admin

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrAdminNotFound is returned when an admin user record is not found.
var ErrAdminNotFound = errors.New("admin user not found")

// ErrDuplicateSubject is returned when an identity provider subject is already linked.
var ErrDuplicateSubject = errors.New("external subject already linked to an admin user")

// Repository provides operations on the admin_users table.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByExternalSubject(ctx context.Context, subject string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}
