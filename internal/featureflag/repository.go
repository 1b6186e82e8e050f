package featureflag

import (
	"context"
	"errors"
)

// ErrFlagNotFound is returned when no flag exists for a key.
var ErrFlagNotFound = errors.New("feature flag not found")

// Repository provides operations on the feature_flags table.
type Repository interface {
	GetByKey(ctx context.Context, key string) (*Flag, error)
	List(ctx context.Context) ([]Flag, error)
	Upsert(ctx context.Context, key string, fields UpsertFields) (*Flag, error)
}
