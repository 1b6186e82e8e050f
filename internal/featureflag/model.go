package featureflag

import (
	"time"

	"github.com/google/uuid"
)

// EmailMarketing gates newsletter signup and marketing consent capture.
const EmailMarketing = "EMAIL_MARKETING"

// Flag represents a row in the feature_flags table.
type Flag struct {
	ID          uuid.UUID `json:"id"`
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	IsEnabled   bool      `json:"isEnabled"`
	Group       *string   `json:"group"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UpsertFields is the full state written for a flag key.
type UpsertFields struct {
	Name        string
	Description *string
	IsEnabled   bool
	Group       *string
}
