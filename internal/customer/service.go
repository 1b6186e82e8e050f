package customer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any failed password login.
var ErrInvalidCredentials = errors.New("invalid email or password")

var tracer = otel.Tracer("github.com/emporium-commerce/emporium/internal/customer")

// RegisterInput holds the data for a new storefront account.
type RegisterInput struct {
	Email            string
	Password         string
	FirstName        *string
	LastName         *string
	Phone            *string
	AcceptsMarketing bool
}

// Service provides customer account operations.
type Service struct {
	repo       Repository
	bcryptCost int
	now        func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

// NewService creates a new customer Service.
func NewService(repo Repository, bcryptCost int) *Service {
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// Register creates an active customer with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Customer, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	hashStr := string(hash)

	c := &Customer{
		Email:            NormalizeEmail(in.Email),
		PasswordHash:     &hashStr,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Phone:            in.Phone,
		IsActive:         true,
		AcceptsMarketing: in.AcceptsMarketing,
	}
	if in.AcceptsMarketing {
		now := s.now().UTC()
		c.MarketingConsentAt = &now
	}

	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, err
		}
		return nil, fmt.Errorf("creating customer: %w", err)
	}

	return c, nil
}

// Authenticate checks an email and password. Unknown emails, inactive
// accounts, accounts without a password hash, and wrong passwords all return
// ErrInvalidCredentials after a bcrypt comparison.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Customer, error) {
	c, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			s.compareDummy(password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up customer: %w", err)
	}

	if c.PasswordHash == nil || !c.IsActive {
		s.compareDummy(password)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*c.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return c, nil
}

// Profile loads the current record for a session's customer. Missing and
// inactive customers return ErrCustomerNotFound.
func (s *Service) Profile(ctx context.Context, id uuid.UUID) (*Customer, error) {
	ctx, span := tracer.Start(ctx, "customer.Profile")
	defer span.End()
	span.SetAttributes(attribute.String("customer.id", id.String()))

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrCustomerNotFound) {
			span.RecordError(err)
		}
		return nil, err
	}
	if !c.IsActive {
		return nil, ErrCustomerNotFound
	}
	return c, nil
}

// UpdateProfile applies fields to an active customer's profile.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, fields ProfileFields) (*Customer, error) {
	if _, err := s.Profile(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.UpdateProfile(ctx, id, fields)
}

// compareDummy spends roughly the time of a real comparison.
func (s *Service) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("emporium-placeholder-password"), s.bcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
}
