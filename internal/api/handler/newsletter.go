package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/emporium-commerce/emporium/internal/api/middleware"
	"github.com/emporium-commerce/emporium/internal/api/response"
	"github.com/emporium-commerce/emporium/internal/api/validation"
	"github.com/emporium-commerce/emporium/internal/customer"
	"github.com/emporium-commerce/emporium/internal/featureflag"
	"github.com/emporium-commerce/emporium/internal/newsletter"
	"github.com/emporium-commerce/emporium/internal/session"
)

// FlagChecker reports whether a feature flag is on.
type FlagChecker interface {
	IsEnabled(ctx context.Context, key string) bool
}

// ConsentRecorder updates a customer's marketing preference.
type ConsentRecorder interface {
	UpdateProfile(ctx context.Context, id uuid.UUID, fields customer.ProfileFields) (*customer.Customer, error)
}

type subscribeRequest struct {
	Email string `json:"email"`
}

type subscribeResult struct {
	Subscribed bool `json:"subscribed"`
	Linked     bool `json:"linked"`
}

// NewsletterHandler handles POST /api/newsletter/subscribe.
type NewsletterHandler struct {
	flags       FlagChecker
	subscribers newsletter.Repository
	consent     ConsentRecorder
	sessions    middleware.SessionReader
}

// NewNewsletterHandler creates a new NewsletterHandler. The signup path is
// public, so the gate does not attach a session; sessions reads the cookie
// directly.
func NewNewsletterHandler(flags FlagChecker, subscribers newsletter.Repository, consent ConsentRecorder, sessions middleware.SessionReader) *NewsletterHandler {
	return &NewsletterHandler{flags: flags, subscribers: subscribers, consent: consent, sessions: sessions}
}

// Subscribe records a newsletter signup. It is unavailable while the
// EMAIL_MARKETING flag is off.
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if !h.flags.IsEnabled(r.Context(), featureflag.EmailMarketing) {
		response.Err(w, http.StatusServiceUnavailable, response.CodeServiceUnavailable, "Newsletter signup is not available", requestID)
		return
	}

	var req subscribeRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	if rejectInvalid(w, validation.ValidateSubscribeRequest(validation.SubscribeRequest{
		Email: req.Email,
	}), requestID) {
		return
	}

	email := customer.NormalizeEmail(req.Email)

	// Only link the signup to the signed-in customer when it is their own address.
	var customerID *uuid.UUID
	s := h.currentSession(r)
	if ownsEmail(s, email) {
		customerID = &s.CustomerID
	}

	if _, err := h.subscribers.Subscribe(r.Context(), email, customerID); err != nil {
		slog.Error("failed to subscribe to newsletter", "error", err)
		response.Internal(w, requestID)
		return
	}

	if customerID != nil {
		accepts := true
		if _, err := h.consent.UpdateProfile(r.Context(), *customerID, customer.ProfileFields{AcceptsMarketing: &accepts}); err != nil {
			slog.Warn("failed to record marketing consent", "error", err, "customerId", *customerID)
		}
	}

	response.Success(w, http.StatusOK, subscribeResult{Subscribed: true, Linked: customerID != nil}, requestID)
}

func (h *NewsletterHandler) currentSession(r *http.Request) *session.Session {
	if s := middleware.GetCustomerSession(r.Context()); s != nil {
		return s
	}
	if h.sessions == nil {
		return nil
	}
	s, ok := h.sessions.FromRequest(r)
	if !ok {
		return nil
	}
	return s
}

func ownsEmail(s *session.Session, email string) bool {
	return s != nil && strings.EqualFold(s.Email, email)
}
