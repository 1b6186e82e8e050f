package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectColumns = `
		SELECT id, email, name, role, is_active, last_login_at,
		       external_subject_id, created_at, updated_at
		FROM admin_users`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new admin user record.
func (r *PostgresRepository) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO admin_users (email, name, role, is_active, external_subject_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		u.Email,
		u.Name,
		u.Role,
		u.IsActive,
		u.ExternalSubjectID,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSubject
		}
		return fmt.Errorf("inserting admin user: %w", err)
	}

	return nil
}

// GetByID retrieves a single admin user by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.getOne(ctx, selectColumns+` WHERE id = $1`, id)
}

// GetByExternalSubject retrieves the admin user linked to an identity provider subject.
func (r *PostgresRepository) GetByExternalSubject(ctx context.Context, subject string) (*User, error) {
	return r.getOne(ctx, selectColumns+` WHERE external_subject_id = $1`, subject)
}

// List retrieves all admin users ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, selectColumns+` ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing admin users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning admin user row: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating admin user rows: %w", err)
	}

	if users == nil {
		users = []User{}
	}

	return users, nil
}

// Update applies the non-nil fields and returns the updated record.
func (r *PostgresRepository) Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*User, error) {
	query := `
		UPDATE admin_users
		SET role = COALESCE($2, role),
		    is_active = COALESCE($3, is_active),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING id, email, name, role, is_active, last_login_at,
		          external_subject_id, created_at, updated_at`

	u, err := scanUser(r.pool.QueryRow(ctx, query, id, fields.Role, fields.IsActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("updating admin user: %w", err)
	}

	return u, nil
}

// TouchLastLogin records a successful staff session check.
func (r *PostgresRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE admin_users
		SET last_login_at = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("updating last login: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrAdminNotFound
	}

	return nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("querying admin user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.Role, &u.IsActive, &u.LastLoginAt,
		&u.ExternalSubjectID, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
