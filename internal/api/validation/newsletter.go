package validation

// SubscribeRequest mirrors the fields needed for newsletter signup validation.
type SubscribeRequest struct {
	Email string
}

// ValidateSubscribeRequest validates a newsletter signup.
func ValidateSubscribeRequest(req SubscribeRequest) []FieldError {
	return checkEmail(nil, req.Email)
}
