package featureflag

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const flagColumns = `id, key, name, description, is_enabled, flag_group, created_at, updated_at`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// GetByKey retrieves a flag by its key.
func (r *PostgresRepository) GetByKey(ctx context.Context, key string) (*Flag, error) {
	query := `SELECT ` + flagColumns + ` FROM feature_flags WHERE key = $1`

	f, err := scanFlag(r.pool.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFlagNotFound
		}
		return nil, fmt.Errorf("querying feature flag: %w", err)
	}
	return f, nil
}

// List retrieves all flags ordered by group then key.
func (r *PostgresRepository) List(ctx context.Context) ([]Flag, error) {
	query := `SELECT ` + flagColumns + ` FROM feature_flags ORDER BY flag_group NULLS LAST, key`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing feature flags: %w", err)
	}
	defer rows.Close()

	flags := []Flag{}
	for rows.Next() {
		f, err := scanFlag(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning feature flag row: %w", err)
		}
		flags = append(flags, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feature flag rows: %w", err)
	}

	return flags, nil
}

// Upsert creates the flag or overwrites its fields.
func (r *PostgresRepository) Upsert(ctx context.Context, key string, fields UpsertFields) (*Flag, error) {
	query := `
		INSERT INTO feature_flags (key, name, description, is_enabled, flag_group)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO UPDATE
		SET name = EXCLUDED.name,
		    description = EXCLUDED.description,
		    is_enabled = EXCLUDED.is_enabled,
		    flag_group = EXCLUDED.flag_group,
		    updated_at = NOW()
		RETURNING ` + flagColumns

	f, err := scanFlag(r.pool.QueryRow(ctx, query,
		key, fields.Name, fields.Description, fields.IsEnabled, fields.Group,
	))
	if err != nil {
		return nil, fmt.Errorf("upserting feature flag: %w", err)
	}
	return f, nil
}

func scanFlag(row pgx.Row) (*Flag, error) {
	var f Flag
	err := row.Scan(
		&f.ID, &f.Key, &f.Name, &f.Description, &f.IsEnabled, &f.Group, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
