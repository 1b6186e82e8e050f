package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrSelfModification is returned when an admin tries to demote or deactivate themself.
var ErrSelfModification = errors.New("admins cannot demote or deactivate themselves")

// ErrInvalidRole is returned for a role outside the known set.
var ErrInvalidRole = errors.New("invalid admin role")

// UpdateUser applies fields to the admin identified by id on behalf of actor.
func UpdateUser(ctx context.Context, repo Repository, actor *User, id uuid.UUID, fields UpdateFields) (*User, error) {
	if fields.Role != nil && !ValidRole(*fields.Role) {
		return nil, ErrInvalidRole
	}

	if actor != nil && actor.ID == id {
		if fields.IsActive != nil && !*fields.IsActive {
			return nil, ErrSelfModification
		}
		if fields.Role != nil && *fields.Role != actor.Role {
			return nil, ErrSelfModification
		}
	}

	u, err := repo.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("updating admin user: %w", err)
	}
	return u, nil
}
