package validation

import (
	"regexp"
	"strings"
)

// FlagKeyRegex matches upper snake case keys such as EMAIL_MARKETING.
var FlagKeyRegex = regexp.MustCompile(`^[A-Z][A-Z0-9_]{1,63}$`)

// UpsertFlagRequest mirrors the fields needed for flag upsert validation.
type UpsertFlagRequest struct {
	Key         string
	Name        string
	Description *string
	Group       *string
}

// ValidateUpsertFlagRequest validates a feature flag write.
func ValidateUpsertFlagRequest(req UpsertFlagRequest) []FieldError {
	var errs []FieldError

	if !FlagKeyRegex.MatchString(req.Key) {
		errs = append(errs, FieldError{Field: "key", Message: "key must be upper snake case, 2-64 characters, starting with a letter"})
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	} else if len(name) > 255 {
		errs = append(errs, FieldError{Field: "name", Message: "name must be at most 255 characters"})
	}

	if req.Description != nil && len(*req.Description) > 1000 {
		errs = append(errs, FieldError{Field: "description", Message: "description must be at most 1000 characters"})
	}
	errs = checkOptionalText(errs, "group", req.Group, maxNameLen)

	return errs
}
