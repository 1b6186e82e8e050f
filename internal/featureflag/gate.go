package featureflag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Gate answers flag checks. It fails closed: unknown keys and storage errors
// read as disabled.
type Gate struct {
	repo  Repository
	cache Cache
}

// NewGate creates a Gate. cache may be nil.
func NewGate(repo Repository, cache Cache) *Gate {
	return &Gate{repo: repo, cache: cache}
}

// IsEnabled reports whether the flag key is on.
func (g *Gate) IsEnabled(ctx context.Context, key string) bool {
	if g.cache != nil {
		enabled, found, err := g.cache.Get(ctx, key)
		if err != nil {
			slog.Warn("feature flag cache read failed", "error", err, "key", key)
		} else if found {
			return enabled
		}
	}

	enabled := false
	f, err := g.repo.GetByKey(ctx, key)
	switch {
	case err == nil:
		enabled = f.IsEnabled
	case errors.Is(err, ErrFlagNotFound):
	default:
		slog.Warn("feature flag lookup failed", "error", err, "key", key)
		return false
	}

	if g.cache != nil {
		if err := g.cache.Set(ctx, key, enabled); err != nil {
			slog.Warn("feature flag cache write failed", "error", err, "key", key)
		}
	}
	return enabled
}

// Upsert writes the flag and invalidates its cached state.
func (g *Gate) Upsert(ctx context.Context, key string, fields UpsertFields) (*Flag, error) {
	f, err := g.repo.Upsert(ctx, key, fields)
	if err != nil {
		return nil, fmt.Errorf("upserting flag %s: %w", key, err)
	}

	if g.cache != nil {
		if err := g.cache.Delete(ctx, key); err != nil {
			slog.Warn("feature flag cache invalidation failed", "error", err, "key", key)
		}
	}
	return f, nil
}

// List returns all flags straight from storage.
func (g *Gate) List(ctx context.Context) ([]Flag, error) {
	return g.repo.List(ctx)
}
