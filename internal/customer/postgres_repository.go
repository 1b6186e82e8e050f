package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const customerColumns = `id, email, password_hash, first_name, last_name, phone, is_active,
		       accepts_marketing, marketing_consent_at, notes, created_at, updated_at`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new customer. The email is stored normalized.
func (r *PostgresRepository) Create(ctx context.Context, c *Customer) error {
	c.Email = NormalizeEmail(c.Email)

	query := `
		INSERT INTO customers (email, password_hash, first_name, last_name, phone,
		                       is_active, accepts_marketing, marketing_consent_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		c.Email,
		c.PasswordHash,
		c.FirstName,
		c.LastName,
		c.Phone,
		c.IsActive,
		c.AcceptsMarketing,
		c.MarketingConsentAt,
		c.Notes,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailExists
		}
		return fmt.Errorf("inserting customer: %w", err)
	}

	return nil
}

// GetByID retrieves a single customer by UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByEmail retrieves a single customer by normalized email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email = $1`
	return r.getOne(ctx, query, NormalizeEmail(email))
}

// UpdateProfile applies the non-nil fields. Turning marketing on stamps the
// consent time; turning it off clears it.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id uuid.UUID, fields ProfileFields) (*Customer, error) {
	query := `
		UPDATE customers
		SET first_name = COALESCE($2, first_name),
		    last_name = COALESCE($3, last_name),
		    phone = COALESCE($4, phone),
		    marketing_consent_at = CASE
		        WHEN $5::boolean IS NULL THEN marketing_consent_at
		        WHEN $5::boolean AND NOT accepts_marketing THEN NOW()
		        WHEN $5::boolean THEN marketing_consent_at
		        ELSE NULL
		    END,
		    accepts_marketing = COALESCE($5::boolean, accepts_marketing),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + customerColumns

	c, err := scanCustomer(r.pool.QueryRow(ctx, query,
		id, fields.FirstName, fields.LastName, fields.Phone, fields.AcceptsMarketing,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("updating customer profile: %w", err)
	}
	return c, nil
}

// ListWithoutPasswordHash returns customers that cannot yet log in by password.
func (r *PostgresRepository) ListWithoutPasswordHash(ctx context.Context) ([]Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE password_hash IS NULL ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing customers without password hash: %w", err)
	}
	defer rows.Close()

	customers := []Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning customer row: %w", err)
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating customer rows: %w", err)
	}

	return customers, nil
}

// SetPasswordHash stores hash for a customer that has none.
func (r *PostgresRepository) SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) (bool, error) {
	query := `
		UPDATE customers
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND password_hash IS NULL`

	result, err := r.pool.Exec(ctx, query, id, hash)
	if err != nil {
		return false, fmt.Errorf("setting password hash: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*Customer, error) {
	c, err := scanCustomer(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("querying customer: %w", err)
	}
	return c, nil
}

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(
		&c.ID, &c.Email, &c.PasswordHash, &c.FirstName, &c.LastName, &c.Phone, &c.IsActive,
		&c.AcceptsMarketing, &c.MarketingConsentAt, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
