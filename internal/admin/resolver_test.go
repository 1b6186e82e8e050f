package admin_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/emporium-commerce/emporium/internal/admin"
)

// MockProvider is a mock implementation of identity.Provider.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Subject(ctx context.Context, r *http.Request) (string, error) {
	args := m.Called(ctx, r)
	return args.String(0), args.Error(1)
}

// MockRepository is a mock implementation of admin.Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *admin.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*admin.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admin.User), args.Error(1)
}

func (m *MockRepository) GetByExternalSubject(ctx context.Context, subject string) (*admin.User, error) {
	args := m.Called(ctx, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admin.User), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]admin.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]admin.User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id uuid.UUID, fields admin.UpdateFields) (*admin.User, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admin.User), args.Error(1)
}

func (m *MockRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func activeAdmin(role string) *admin.User {
	return &admin.User{
		ID:                uuid.New(),
		Email:             "ops@example.com",
		Role:              role,
		IsActive:          true,
		ExternalSubjectID: "idp-sub-1",
	}
}

func newRequest() *http.Request {
	return httptest.NewRequest(http.MethodGet, "/admin", nil)
}

func TestResolve_ActiveAdmin(t *testing.T) {
	t.Parallel()

	// Arrange
	idp := new(MockProvider)
	repo := new(MockRepository)
	u := activeAdmin(admin.RoleAdmin)
	idp.On("Subject", mock.Anything, mock.Anything).Return("idp-sub-1", nil)
	repo.On("GetByExternalSubject", mock.Anything, "idp-sub-1").Return(u, nil)

	// Act
	got := admin.NewResolver(idp, repo).Resolve(context.Background(), newRequest())

	// Assert
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	repo.AssertNotCalled(t, "TouchLastLogin", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_NilCases(t *testing.T) {
	t.Parallel()

	inactive := activeAdmin(admin.RoleSuperAdmin)
	inactive.IsActive = false

	tests := []struct {
		name    string
		subject string
		idpErr  error
		user    *admin.User
		repoErr error
	}{
		{name: "no subject", subject: ""},
		{name: "provider failure", idpErr: errors.New("idp unreachable")},
		{name: "unprovisioned subject", subject: "idp-sub-1", repoErr: admin.ErrAdminNotFound},
		{name: "storage failure", subject: "idp-sub-1", repoErr: errors.New("connection reset")},
		{name: "inactive admin", subject: "idp-sub-1", user: inactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			idp := new(MockProvider)
			repo := new(MockRepository)
			idp.On("Subject", mock.Anything, mock.Anything).Return(tt.subject, tt.idpErr)
			if tt.user != nil || tt.repoErr != nil {
				repo.On("GetByExternalSubject", mock.Anything, tt.subject).Return(tt.user, tt.repoErr)
			}

			got := admin.NewResolver(idp, repo).Resolve(context.Background(), newRequest())

			assert.Nil(t, got)
			if tt.subject == "" {
				repo.AssertNotCalled(t, "GetByExternalSubject", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestResolveAndTouch_RecordsLogin(t *testing.T) {
	t.Parallel()

	idp := new(MockProvider)
	repo := new(MockRepository)
	u := activeAdmin(admin.RoleAdmin)
	idp.On("Subject", mock.Anything, mock.Anything).Return("idp-sub-1", nil)
	repo.On("GetByExternalSubject", mock.Anything, "idp-sub-1").Return(u, nil)
	repo.On("TouchLastLogin", mock.Anything, u.ID, mock.AnythingOfType("time.Time")).Return(nil)

	got := admin.NewResolver(idp, repo).ResolveAndTouch(context.Background(), newRequest())

	require.NotNil(t, got)
	require.NotNil(t, got.LastLoginAt)
	repo.AssertExpectations(t)
}

func TestResolveAndTouch_WriteFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	idp := new(MockProvider)
	repo := new(MockRepository)
	u := activeAdmin(admin.RoleAdmin)
	idp.On("Subject", mock.Anything, mock.Anything).Return("idp-sub-1", nil)
	repo.On("GetByExternalSubject", mock.Anything, "idp-sub-1").Return(u, nil)
	repo.On("TouchLastLogin", mock.Anything, u.ID, mock.Anything).Return(errors.New("read-only replica"))

	got := admin.NewResolver(idp, repo).ResolveAndTouch(context.Background(), newRequest())

	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Nil(t, got.LastLoginAt)
}

func TestResolveAndTouch_NoAdminSkipsWrite(t *testing.T) {
	t.Parallel()

	idp := new(MockProvider)
	repo := new(MockRepository)
	idp.On("Subject", mock.Anything, mock.Anything).Return("", nil)

	got := admin.NewResolver(idp, repo).ResolveAndTouch(context.Background(), newRequest())

	assert.Nil(t, got)
	repo.AssertNotCalled(t, "TouchLastLogin", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		user *admin.User
		need admin.Requirement
		want admin.Outcome
	}{
		{"nil user needs admin", nil, admin.NeedAdmin, admin.Unauthenticated},
		{"nil user needs super admin", nil, admin.NeedSuperAdmin, admin.Unauthenticated},
		{"admin needs admin", activeAdmin(admin.RoleAdmin), admin.NeedAdmin, admin.Allowed},
		{"admin needs super admin", activeAdmin(admin.RoleAdmin), admin.NeedSuperAdmin, admin.Forbidden},
		{"super admin needs admin", activeAdmin(admin.RoleSuperAdmin), admin.NeedAdmin, admin.Allowed},
		{"super admin needs super admin", activeAdmin(admin.RoleSuperAdmin), admin.NeedSuperAdmin, admin.Allowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, admin.Authorize(tt.user, tt.need))
		})
	}
}
