package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/emporium-commerce/emporium/internal/api/response"
	"github.com/emporium-commerce/emporium/internal/api/validation"
)

const maxBodyBytes = 1 << 20

const timestampLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// decodeJSON reads a bounded JSON body into dst. On failure it writes the
// INVALID_JSON envelope and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, requestID string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Err(w, http.StatusBadRequest, response.CodeInvalidJSON, "Request body must be valid JSON", requestID)
		return false
	}
	return true
}

// rejectInvalid writes the VALIDATION_ERROR envelope when errs is non-empty.
func rejectInvalid(w http.ResponseWriter, errs []validation.FieldError, requestID string) bool {
	if len(errs) == 0 {
		return false
	}
	response.ErrWithDetails(w, http.StatusBadRequest, response.CodeValidation, "Input validation failed", errs, requestID)
	return true
}
