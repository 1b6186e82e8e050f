package middleware

import (
	"context"

	"github.com/emporium-commerce/emporium/internal/admin"
	"github.com/emporium-commerce/emporium/internal/session"
)

const (
	adminKey   contextKey = "admin"
	sessionKey contextKey = "customerSession"
)

// WithAdmin returns a copy of ctx carrying the resolved admin user.
func WithAdmin(ctx context.Context, u *admin.User) context.Context {
	return context.WithValue(ctx, adminKey, u)
}

// GetAdmin retrieves the admin user resolved by the gate, or nil.
func GetAdmin(ctx context.Context) *admin.User {
	if u, ok := ctx.Value(adminKey).(*admin.User); ok {
		return u
	}
	return nil
}

// WithCustomerSession returns a copy of ctx carrying a verified customer session.
func WithCustomerSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// GetCustomerSession retrieves the verified customer session, or nil.
func GetCustomerSession(ctx context.Context) *session.Session {
	if s, ok := ctx.Value(sessionKey).(*session.Session); ok {
		return s
	}
	return nil
}
