package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/emporium-commerce/emporium/internal/admin"
	"github.com/emporium-commerce/emporium/internal/api/middleware"
	"github.com/emporium-commerce/emporium/internal/session"
)

// makeChiRequest creates an HTTP request with chi URL params set in the context.
func makeChiRequest(method, path string, body []byte, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req, w
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &env)
	require.NoError(t, err, "failed to parse response body")
	return env
}

func errorCode(t *testing.T, env map[string]interface{}) string {
	t.Helper()
	errObj, ok := env["error"].(map[string]interface{})
	require.True(t, ok, "expected error object in envelope")
	return errObj["code"].(string)
}

func withAdmin(req *http.Request, u *admin.User) *http.Request {
	return req.WithContext(middleware.WithAdmin(req.Context(), u))
}

func withSession(req *http.Request, s *session.Session) *http.Request {
	return req.WithContext(middleware.WithCustomerSession(req.Context(), s))
}

func sampleAdmin(role string) *admin.User {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	name := "Ada Staff"
	return &admin.User{
		ID:                uuid.New(),
		Email:             "ada@emporium.test",
		Name:              &name,
		Role:              role,
		IsActive:          true,
		ExternalSubjectID: "idp-" + uuid.NewString(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
