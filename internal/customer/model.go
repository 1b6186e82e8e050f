package customer

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Customer represents a row in the customers table.
type Customer struct {
	ID                 uuid.UUID
	Email              string
	PasswordHash       *string
	FirstName          *string
	LastName           *string
	Phone              *string
	IsActive           bool
	AcceptsMarketing   bool
	MarketingConsentAt *time.Time
	Notes              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Profile is the customer data safe to return to the customer themself.
type Profile struct {
	ID                 uuid.UUID  `json:"id"`
	Email              string     `json:"email"`
	FirstName          *string    `json:"firstName"`
	LastName           *string    `json:"lastName"`
	Phone              *string    `json:"phone"`
	AcceptsMarketing   bool       `json:"acceptsMarketing"`
	MarketingConsentAt *time.Time `json:"marketingConsentAt"`
	CreatedAt          time.Time  `json:"createdAt"`
}

// Profile projects c without its password hash or internal notes.
func (c *Customer) Profile() Profile {
	return Profile{
		ID:                 c.ID,
		Email:              c.Email,
		FirstName:          c.FirstName,
		LastName:           c.LastName,
		Phone:              c.Phone,
		AcceptsMarketing:   c.AcceptsMarketing,
		MarketingConsentAt: c.MarketingConsentAt,
		CreatedAt:          c.CreatedAt,
	}
}

// ProfileFields holds the optional fields a customer may change on their profile.
type ProfileFields struct {
	FirstName        *string
	LastName         *string
	Phone            *string
	AcceptsMarketing *bool
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
