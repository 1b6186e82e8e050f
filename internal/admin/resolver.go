package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/emporium-commerce/emporium/internal/identity"
)

var tracer = otel.Tracer("github.com/emporium-commerce/emporium/internal/admin")

// Requirement is the minimum role a protected resource demands.
type Requirement int

const (
	NeedAdmin Requirement = iota
	NeedSuperAdmin
)

// Outcome is the result of an authorization check.
type Outcome int

const (
	Allowed Outcome = iota
	Unauthenticated
	Forbidden
)

func (o Outcome) String() string {
	switch o {
	case Allowed:
		return "allowed"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Authorize decides whether u satisfies need. A nil user is unauthenticated.
func Authorize(u *User, need Requirement) Outcome {
	if u == nil {
		return Unauthenticated
	}
	if need == NeedSuperAdmin && !u.IsSuperAdmin() {
		return Forbidden
	}
	return Allowed
}

// Resolver maps a request's identity provider credential to an active admin user.
type Resolver struct {
	idp  identity.Provider
	repo Repository
	now  func() time.Time
}

// NewResolver creates a new Resolver.
func NewResolver(idp identity.Provider, repo Repository) *Resolver {
	return &Resolver{idp: idp, repo: repo, now: time.Now}
}

// Resolve returns the active admin behind r, or nil. Provider and storage
// failures are logged and resolve to nil.
func (s *Resolver) Resolve(ctx context.Context, r *http.Request) *User {
	ctx, span := tracer.Start(ctx, "admin.Resolve")
	defer span.End()

	subject, err := s.idp.Subject(ctx, r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "identity provider unavailable")
		slog.Warn("identity provider unavailable", "error", err)
		return nil
	}
	if subject == "" {
		return nil
	}

	u, err := s.repo.GetByExternalSubject(ctx, subject)
	if err != nil {
		if !errors.Is(err, ErrAdminNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "admin lookup failed")
			slog.Warn("failed to look up admin user", "error", err)
		}
		return nil
	}

	if !u.IsActive {
		slog.Info("rejected inactive admin user", "adminId", u.ID)
		return nil
	}

	span.SetAttributes(attribute.String("admin.role", u.Role))
	return u
}

// ResolveAndTouch resolves the admin and records the login time. A failed
// write is logged and does not affect the result.
func (s *Resolver) ResolveAndTouch(ctx context.Context, r *http.Request) *User {
	u := s.Resolve(ctx, r)
	if u == nil {
		return nil
	}

	at := s.now().UTC()
	if err := s.repo.TouchLastLogin(ctx, u.ID, at); err != nil {
		slog.Warn("failed to record admin login", "error", err, "adminId", u.ID)
		return u
	}
	u.LastLoginAt = &at
	return u
}
