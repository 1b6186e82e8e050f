package validation

import "fmt"

const (
	minPasswordLen = 8
	maxPasswordLen = 72
)

// RegisterCustomerRequest mirrors the fields needed for registration validation.
type RegisterCustomerRequest struct {
	Email     string
	Password  string
	FirstName *string
	LastName  *string
	Phone     *string
}

// ValidateRegisterCustomerRequest validates a storefront registration.
func ValidateRegisterCustomerRequest(req RegisterCustomerRequest) []FieldError {
	var errs []FieldError

	errs = checkEmail(errs, req.Email)

	switch {
	case req.Password == "":
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	case len(req.Password) < minPasswordLen:
		errs = append(errs, FieldError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", minPasswordLen)})
	case len(req.Password) > maxPasswordLen:
		errs = append(errs, FieldError{Field: "password", Message: fmt.Sprintf("password must be at most %d bytes", maxPasswordLen)})
	}

	errs = checkOptionalText(errs, "firstName", req.FirstName, maxNameLen)
	errs = checkOptionalText(errs, "lastName", req.LastName, maxNameLen)
	errs = checkOptionalText(errs, "phone", req.Phone, maxPhoneLen)

	return errs
}

// LoginCustomerRequest mirrors the fields needed for login validation.
type LoginCustomerRequest struct {
	Email    string
	Password string
}

// ValidateLoginCustomerRequest checks that both credentials are present.
// Format is not checked so every failure looks the same to the caller.
func ValidateLoginCustomerRequest(req LoginCustomerRequest) []FieldError {
	var errs []FieldError

	if req.Email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	}
	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}

	return errs
}

// UpdateProfileRequest mirrors the fields needed for profile update validation.
// Nil fields are not validated.
type UpdateProfileRequest struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

// ValidateUpdateProfileRequest validates only non-nil fields.
func ValidateUpdateProfileRequest(req UpdateProfileRequest) []FieldError {
	var errs []FieldError

	errs = checkOptionalText(errs, "firstName", req.FirstName, maxNameLen)
	errs = checkOptionalText(errs, "lastName", req.LastName, maxNameLen)
	errs = checkOptionalText(errs, "phone", req.Phone, maxPhoneLen)

	return errs
}
