package newsletter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emporium-commerce/emporium/internal/customer"
)

// Subscriber represents a row in the newsletter_subscribers table.
type Subscriber struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	CustomerID   *uuid.UUID `json:"customerId"`
	SubscribedAt time.Time  `json:"subscribedAt"`
}

// Repository provides operations on newsletter subscriptions.
type Repository interface {
	// Subscribe records email, linking it to customerID when given. Repeat
	// calls return the existing subscription.
	Subscribe(ctx context.Context, email string, customerID *uuid.UUID) (*Subscriber, error)
}

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Subscribe inserts or refreshes a subscription. An existing customer link is
// never overwritten with NULL.
func (r *PostgresRepository) Subscribe(ctx context.Context, email string, customerID *uuid.UUID) (*Subscriber, error) {
	query := `
		INSERT INTO newsletter_subscribers (email, customer_id)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE
		SET customer_id = COALESCE(EXCLUDED.customer_id, newsletter_subscribers.customer_id)
		RETURNING id, email, customer_id, subscribed_at`

	var s Subscriber
	err := r.pool.QueryRow(ctx, query, customer.NormalizeEmail(email), customerID).Scan(
		&s.ID, &s.Email, &s.CustomerID, &s.SubscribedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("subscribing to newsletter: %w", err)
	}
	return &s, nil
}
