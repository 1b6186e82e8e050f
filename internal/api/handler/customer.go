package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/emporium-commerce/emporium/internal/api/middleware"
	"github.com/emporium-commerce/emporium/internal/api/response"
	"github.com/emporium-commerce/emporium/internal/api/validation"
	"github.com/emporium-commerce/emporium/internal/customer"
	"github.com/emporium-commerce/emporium/internal/session"
)

// CustomerService is the account logic behind the storefront endpoints.
type CustomerService interface {
	Register(ctx context.Context, in customer.RegisterInput) (*customer.Customer, error)
	Authenticate(ctx context.Context, email, password string) (*customer.Customer, error)
	Profile(ctx context.Context, id uuid.UUID) (*customer.Customer, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, fields customer.ProfileFields) (*customer.Customer, error)
}

// SessionIssuer writes and clears customer session cookies.
type SessionIssuer interface {
	Issue(w http.ResponseWriter, customerID uuid.UUID, email string) (*session.Session, error)
	Refresh(w http.ResponseWriter, r *http.Request) (*session.Session, bool)
	Clear(w http.ResponseWriter)
}

type registerRequest struct {
	Email            string  `json:"email"`
	Password         string  `json:"password"`
	FirstName        *string `json:"firstName"`
	LastName         *string `json:"lastName"`
	Phone            *string `json:"phone"`
	AcceptsMarketing bool    `json:"acceptsMarketing"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	FirstName        *string `json:"firstName"`
	LastName         *string `json:"lastName"`
	Phone            *string `json:"phone"`
	AcceptsMarketing *bool   `json:"acceptsMarketing"`
}

// CustomerSessionResult is the body of the customer session check.
type CustomerSessionResult struct {
	Authenticated bool              `json:"authenticated"`
	Customer      *customer.Profile `json:"customer"`
}

type customerResult struct {
	Customer customer.Profile `json:"customer"`
}

type successResult struct {
	Success bool `json:"success"`
}

// CustomerHandler handles the storefront account endpoints.
type CustomerHandler struct {
	svc      CustomerService
	sessions SessionIssuer
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(svc CustomerService, sessions SessionIssuer) *CustomerHandler {
	return &CustomerHandler{svc: svc, sessions: sessions}
}

// Register handles POST /api/customer/register.
func (h *CustomerHandler) Register(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req registerRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	if rejectInvalid(w, validation.ValidateRegisterCustomerRequest(validation.RegisterCustomerRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}), requestID) {
		return
	}

	c, err := h.svc.Register(r.Context(), customer.RegisterInput{
		Email:            req.Email,
		Password:         req.Password,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Phone:            req.Phone,
		AcceptsMarketing: req.AcceptsMarketing,
	})
	if err != nil {
		if errors.Is(err, customer.ErrEmailExists) {
			response.Err(w, http.StatusConflict, response.CodeConflict, "An account with this email already exists", requestID)
			return
		}
		slog.Error("failed to register customer", "error", err, "requestId", requestID)
		response.Internal(w, requestID)
		return
	}

	if _, err := h.sessions.Issue(w, c.ID, c.Email); err != nil {
		slog.Error("failed to issue customer session", "error", err, "customerId", c.ID)
		response.Internal(w, requestID)
		return
	}

	response.Success(w, http.StatusCreated, customerResult{Customer: c.Profile()}, requestID)
}

// Login handles POST /api/customer/login.
func (h *CustomerHandler) Login(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req loginRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	if rejectInvalid(w, validation.ValidateLoginCustomerRequest(validation.LoginCustomerRequest{
		Email:    req.Email,
		Password: req.Password,
	}), requestID) {
		return
	}

	c, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, customer.ErrInvalidCredentials) {
			response.Err(w, http.StatusUnauthorized, response.CodeUnauthorized, "Invalid email or password", requestID)
			return
		}
		slog.Error("failed to authenticate customer", "error", err, "requestId", requestID)
		response.Internal(w, requestID)
		return
	}

	if _, err := h.sessions.Issue(w, c.ID, c.Email); err != nil {
		slog.Error("failed to issue customer session", "error", err, "customerId", c.ID)
		response.Internal(w, requestID)
		return
	}

	response.Success(w, http.StatusOK, customerResult{Customer: c.Profile()}, requestID)
}

// Session handles GET /api/customer/session. A missing, invalid, or orphaned
// session reports authenticated false rather than an error.
func (h *CustomerHandler) Session(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	result := CustomerSessionResult{}
	if c := h.currentCustomer(r); c != nil {
		p := c.Profile()
		result = CustomerSessionResult{Authenticated: true, Customer: &p}
	}

	response.Success(w, http.StatusOK, result, requestID)
}

// Refresh handles POST /api/customer/refresh.
func (h *CustomerHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if _, ok := h.sessions.Refresh(w, r); !ok {
		response.ErrWithData(w, http.StatusUnauthorized, successResult{Success: false},
			response.CodeUnauthorized, "Authentication required", requestID)
		return
	}

	response.Success(w, http.StatusOK, successResult{Success: true}, requestID)
}

// Logout handles POST /api/customer/logout. It always succeeds.
func (h *CustomerHandler) Logout(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	h.sessions.Clear(w)

	response.Success(w, http.StatusOK, successResult{Success: true}, requestID)
}

// GetProfile handles GET /api/customer/profile.
func (h *CustomerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	c := h.currentCustomer(r)
	if c == nil {
		response.Unauthenticated(w, requestID)
		return
	}

	response.Success(w, http.StatusOK, customerResult{Customer: c.Profile()}, requestID)
}

// UpdateProfile handles PATCH /api/customer/profile.
func (h *CustomerHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	s := middleware.GetCustomerSession(r.Context())
	if s == nil {
		response.Unauthenticated(w, requestID)
		return
	}

	var req updateProfileRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	if rejectInvalid(w, validation.ValidateUpdateProfileRequest(validation.UpdateProfileRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}), requestID) {
		return
	}

	c, err := h.svc.UpdateProfile(r.Context(), s.CustomerID, customer.ProfileFields{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Phone:            req.Phone,
		AcceptsMarketing: req.AcceptsMarketing,
	})
	if err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound) {
			response.Unauthenticated(w, requestID)
			return
		}
		slog.Error("failed to update customer profile", "error", err, "customerId", s.CustomerID)
		response.Internal(w, requestID)
		return
	}

	response.Success(w, http.StatusOK, customerResult{Customer: c.Profile()}, requestID)
}

// currentCustomer loads the session's customer fresh from storage. Lookup
// failures are logged and treated as no session.
func (h *CustomerHandler) currentCustomer(r *http.Request) *customer.Customer {
	s := middleware.GetCustomerSession(r.Context())
	if s == nil {
		return nil
	}

	c, err := h.svc.Profile(r.Context(), s.CustomerID)
	if err != nil {
		if !errors.Is(err, customer.ErrCustomerNotFound) {
			slog.Warn("failed to load customer for session", "error", err, "customerId", s.CustomerID)
		}
		return nil
	}
	return c
}
