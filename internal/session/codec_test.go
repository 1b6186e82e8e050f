package session_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emporium-commerce/emporium/internal/session"
)

const testSecret = "customer-session-secret-0123456789"

// clock is a manually advanced time source.
type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newCodec(t *testing.T, clk *clock) *session.Codec {
	t.Helper()
	c, err := session.NewCodec(session.Options{
		Secret: testSecret,
		TTL:    7 * 24 * time.Hour,
		Secure: true,
		Now:    clk.Now,
	})
	require.NoError(t, err)
	return c
}

func newClock() *clock {
	return &clock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
}

// requestWithSetCookies turns the Set-Cookie headers of w into request cookies.
func requestWithSetCookies(w *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/customer/session", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	return req
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.DefaultCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", session.DefaultCookieName)
	return nil
}

func TestNewCodec_SecretValidation(t *testing.T) {
	_, err := session.NewCodec(session.Options{})
	assert.ErrorIs(t, err, session.ErrMissingSecret)

	_, err = session.NewCodec(session.Options{Secret: "short"})
	assert.ErrorIs(t, err, session.ErrWeakSecret)
}

func TestNewCodec_Defaults(t *testing.T) {
	c, err := session.NewCodec(session.Options{Secret: testSecret})
	require.NoError(t, err)

	assert.Equal(t, session.DefaultTTL, c.TTL())
	assert.Equal(t, session.DefaultCookieName, c.CookieName())
}

func TestIssue_SetsHardenedCookie(t *testing.T) {
	clk := newClock()
	c := newCodec(t, clk)
	w := httptest.NewRecorder()

	s, err := c.Issue(w, uuid.New(), "  Jane.Doe@Example.COM ")
	require.NoError(t, err)

	assert.Equal(t, "jane.doe@example.com", s.Email)
	assert.Equal(t, clk.now, s.IssuedAt)
	assert.Equal(t, clk.now.Add(7*24*time.Hour), s.ExpiresAt)

	cookie := sessionCookie(t, w)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)
}

func TestVerify_ValidWithinWindow(t *testing.T) {
	clk := newClock()
	c := newCodec(t, clk)
	w := httptest.NewRecorder()
	id := uuid.New()

	_, err := c.Issue(w, id, "jane@example.com")
	require.NoError(t, err)

	clk.Advance(time.Hour)
	s, ok := c.FromRequest(requestWithSetCookies(w))

	require.True(t, ok)
	assert.Equal(t, id, s.CustomerID)
	assert.Equal(t, "jane@example.com", s.Email)
}

func TestVerify_ExpiredAfterWindow(t *testing.T) {
	clk := newClock()
	c := newCodec(t, clk)
	w := httptest.NewRecorder()

	_, err := c.Issue(w, uuid.New(), "jane@example.com")
	require.NoError(t, err)

	clk.Advance(8 * 24 * time.Hour)
	s, ok := c.FromRequest(requestWithSetCookies(w))

	assert.False(t, ok)
	assert.Nil(t, s)
}

func TestVerify_ExpiresExactlyAtBoundary(t *testing.T) {
	clk := newClock()
	c := newCodec(t, clk)
	w := httptest.NewRecorder()

	_, err := c.Issue(w, uuid.New(), "jane@example.com")
	require.NoError(t, err)

	clk.Advance(7*24*time.Hour - time.Second)
	_, ok := c.FromRequest(requestWithSetCookies(w))
	assert.True(t, ok, "valid one second before expiry")

	clk.Advance(time.Second)
	_, ok = c.FromRequest(requestWithSetCookies(w))
	assert.False(t, ok, "invalid when now == expiresAt")
}

func TestVerify_RejectsTampering(t *testing.T) {
	clk := newClock()
	c := newCodec(t, clk)

	token, err := c.Encode(session.Session{
		CustomerID: uuid.New(),
		Email:      "jane@example.com",
		IssuedAt:   clk.now,
		ExpiresAt:  clk.now.Add(time.Hour),
	})
	require.NoError(t, err)

	other, err := session.NewCodec(session.Options{Secret: strings.Repeat("x", 40), Now: clk.Now})
	require.NoError(t, err)

	tests := []struct {
		name  string
		codec *session.Codec
		token string
	}{
		{"empty", c, ""},
		{"garbage", c, "definitely.not.a-token"},
		{"truncated signature", c, token[:len(token)-4]},
		{"different secret", other, token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := tt.codec.Verify(tt.token)
			assert.False(t, ok)
			assert.Nil(t, s)
		})
	}
}

func TestVerify_RejectsMissingEmail(t *testing.T) {
	clk := newClock()
	c := newCodec(t, clk)

	noEmail, err := c.Encode(session.Session{
		CustomerID: uuid.New(),
		IssuedAt:   clk.now,
		ExpiresAt:  clk.now.Add(time.Hour),
	})
	require.NoError(t, err)

	_, ok := c.Verify(noEmail)
	assert.False(t, ok)
}

func TestRefresh_KeepsIdentityExtendsExpiry(t *testing.T) {
	clk := newClock()
	c := newCodec(t, clk)
	w := httptest.NewRecorder()
	id := uuid.New()

	original, err := c.Issue(w, id, "jane@example.com")
	require.NoError(t, err)

	clk.Advance(3 * 24 * time.Hour)
	refreshW := httptest.NewRecorder()
	renewed, ok := c.Refresh(refreshW, requestWithSetCookies(w))

	require.True(t, ok)
	assert.Equal(t, original.CustomerID, renewed.CustomerID)
	assert.Equal(t, original.Email, renewed.Email)
	assert.Equal(t, original.IssuedAt, renewed.IssuedAt)
	assert.Equal(t, clk.now.Add(7*24*time.Hour), renewed.ExpiresAt)
	assert.True(t, renewed.ExpiresAt.After(original.ExpiresAt))

	// The refreshed cookie outlives the original one.
	clk.Advance(6 * 24 * time.Hour)
	_, ok = c.FromRequest(requestWithSetCookies(w))
	assert.False(t, ok, "original cookie has expired")
	s, ok := c.FromRequest(requestWithSetCookies(refreshW))
	require.True(t, ok)
	assert.Equal(t, id, s.CustomerID)
}

func TestRefresh_NoSessionLeavesResponseUntouched(t *testing.T) {
	c := newCodec(t, newClock())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/customer/refresh", nil)

	s, ok := c.Refresh(w, req)

	assert.False(t, ok)
	assert.Nil(t, s)
	assert.Empty(t, w.Header().Values("Set-Cookie"))
}

func TestRefresh_ExpiredSessionLeavesResponseUntouched(t *testing.T) {
	clk := newClock()
	c := newCodec(t, clk)
	w := httptest.NewRecorder()
	_, err := c.Issue(w, uuid.New(), "jane@example.com")
	require.NoError(t, err)

	clk.Advance(8 * 24 * time.Hour)
	refreshW := httptest.NewRecorder()
	_, ok := c.Refresh(refreshW, requestWithSetCookies(w))

	assert.False(t, ok)
	assert.Empty(t, refreshW.Header().Values("Set-Cookie"))
}

func TestClear_ThenVerifyYieldsNoSession(t *testing.T) {
	clk := newClock()
	c := newCodec(t, clk)
	w := httptest.NewRecorder()
	_, err := c.Issue(w, uuid.New(), "jane@example.com")
	require.NoError(t, err)

	clearW := httptest.NewRecorder()
	c.Clear(clearW)

	cookie := sessionCookie(t, clearW)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)

	_, ok := c.FromRequest(requestWithSetCookies(clearW))
	assert.False(t, ok)
}

func TestClear_IsIdempotent(t *testing.T) {
	c := newCodec(t, newClock())

	assert.NotPanics(t, func() {
		w := httptest.NewRecorder()
		c.Clear(w)
		c.Clear(w)
	})
}
