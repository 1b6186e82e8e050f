package customer

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrCustomerNotFound is returned when a customer record is not found.
var ErrCustomerNotFound = errors.New("customer not found")

// ErrEmailExists is returned when registering an email that is already taken.
var ErrEmailExists = errors.New("email already registered")

// Repository provides operations on the customers table.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, fields ProfileFields) (*Customer, error)
	ListWithoutPasswordHash(ctx context.Context) ([]Customer, error)
	// SetPasswordHash sets the hash only when none is stored yet. It reports
	// whether a row was changed.
	SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) (bool, error)
}
