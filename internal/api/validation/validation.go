package validation

import (
	"net/mail"
	"strings"
)

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

const (
	maxEmailLen = 254
	maxNameLen  = 100
	maxPhoneLen = 32
)

// validEmail accepts a bare addr-spec such as "jane@example.com".
func validEmail(email string) bool {
	if email == "" || len(email) > maxEmailLen {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email && strings.Contains(email[strings.LastIndex(email, "@"):], ".")
}

func checkEmail(errs []FieldError, email string) []FieldError {
	email = strings.TrimSpace(email)
	if email == "" {
		return append(errs, FieldError{Field: "email", Message: "email is required"})
	}
	if !validEmail(email) {
		return append(errs, FieldError{Field: "email", Message: "email must be a valid address"})
	}
	return errs
}

func checkOptionalText(errs []FieldError, field string, value *string, max int) []FieldError {
	if value != nil && len(*value) > max {
		errs = append(errs, FieldError{Field: field, Message: field + " is too long"})
	}
	return errs
}
