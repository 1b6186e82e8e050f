package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emporium-commerce/emporium/internal/api/handler"
	"github.com/emporium-commerce/emporium/internal/customer"
	"github.com/emporium-commerce/emporium/internal/featureflag"
	"github.com/emporium-commerce/emporium/internal/newsletter"
	"github.com/emporium-commerce/emporium/internal/session"
)

// fakeSubscribers implements newsletter.Repository for testing.
type fakeSubscribers struct {
	calls      int
	email      string
	customerID *uuid.UUID
	err        error
}

func (f *fakeSubscribers) Subscribe(_ context.Context, email string, customerID *uuid.UUID) (*newsletter.Subscriber, error) {
	f.calls++
	f.email, f.customerID = email, customerID
	if f.err != nil {
		return nil, f.err
	}
	return &newsletter.Subscriber{ID: uuid.New(), Email: email, CustomerID: customerID, SubscribedAt: time.Now()}, nil
}

// fakeConsent implements handler.ConsentRecorder for testing.
type fakeConsent struct {
	calls  int
	fields customer.ProfileFields
	err    error
}

func (f *fakeConsent) UpdateProfile(_ context.Context, id uuid.UUID, fields customer.ProfileFields) (*customer.Customer, error) {
	f.calls++
	f.fields = fields
	if f.err != nil {
		return nil, f.err
	}
	return &customer.Customer{ID: id}, nil
}

func marketingOn() *mockFlagGate {
	return &mockFlagGate{enabled: map[string]bool{featureflag.EmailMarketing: true}}
}

func TestNewsletterSubscribe_DisabledFlag(t *testing.T) {
	t.Parallel()

	subs := &fakeSubscribers{}
	h := handler.NewNewsletterHandler(&mockFlagGate{}, subs, &fakeConsent{}, nil)
	req, w := makeChiRequest(http.MethodPost, "/api/newsletter/subscribe", []byte(`{"email":"jane@example.com"}`), nil)

	h.Subscribe(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "SERVICE_UNAVAILABLE", errorCode(t, parseEnvelope(t, w)))
	assert.Zero(t, subs.calls)
}

func TestNewsletterSubscribe_Anonymous(t *testing.T) {
	t.Parallel()

	subs := &fakeSubscribers{}
	consent := &fakeConsent{}
	h := handler.NewNewsletterHandler(marketingOn(), subs, consent, nil)
	req, w := makeChiRequest(http.MethodPost, "/api/newsletter/subscribe", []byte(`{"email":" Jane@Example.com "}`), nil)

	h.Subscribe(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jane@example.com", subs.email)
	assert.Nil(t, subs.customerID)
	assert.Zero(t, consent.calls)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["subscribed"])
	assert.Equal(t, false, data["linked"])
}

func TestNewsletterSubscribe_SignedInOwnEmail(t *testing.T) {
	t.Parallel()

	subs := &fakeSubscribers{}
	consent := &fakeConsent{}
	h := handler.NewNewsletterHandler(marketingOn(), subs, consent, nil)
	s := &session.Session{CustomerID: uuid.New(), Email: "jane@example.com"}
	req, w := makeChiRequest(http.MethodPost, "/api/newsletter/subscribe", []byte(`{"email":"JANE@example.com"}`), nil)
	req = withSession(req, s)

	h.Subscribe(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, subs.customerID)
	assert.Equal(t, s.CustomerID, *subs.customerID)
	assert.Equal(t, 1, consent.calls)
	require.NotNil(t, consent.fields.AcceptsMarketing)
	assert.True(t, *consent.fields.AcceptsMarketing)
}

func TestNewsletterSubscribe_ReadsSessionCookie(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)
	issued := httptest.NewRecorder()
	s, err := codec.Issue(issued, uuid.New(), "jane@example.com")
	require.NoError(t, err)

	subs := &fakeSubscribers{}
	consent := &fakeConsent{}
	h := handler.NewNewsletterHandler(marketingOn(), subs, consent, codec)
	req, w := makeChiRequest(http.MethodPost, "/api/newsletter/subscribe", []byte(`{"email":"jane@example.com"}`), nil)
	for _, c := range issued.Result().Cookies() {
		req.AddCookie(c)
	}

	h.Subscribe(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, subs.customerID)
	assert.Equal(t, s.CustomerID, *subs.customerID)
	assert.Equal(t, 1, consent.calls)
	assert.Equal(t, true, parseEnvelope(t, w)["data"].(map[string]interface{})["linked"])
}

func TestNewsletterSubscribe_TamperedCookieIsAnonymous(t *testing.T) {
	t.Parallel()

	subs := &fakeSubscribers{}
	h := handler.NewNewsletterHandler(marketingOn(), subs, &fakeConsent{}, newTestCodec(t))
	req, w := makeChiRequest(http.MethodPost, "/api/newsletter/subscribe", []byte(`{"email":"jane@example.com"}`), nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "not-a-token"})

	h.Subscribe(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, subs.customerID)
	assert.Equal(t, false, parseEnvelope(t, w)["data"].(map[string]interface{})["linked"])
}

func TestNewsletterSubscribe_SignedInOtherEmail(t *testing.T) {
	t.Parallel()

	subs := &fakeSubscribers{}
	consent := &fakeConsent{}
	h := handler.NewNewsletterHandler(marketingOn(), subs, consent, nil)
	req, w := makeChiRequest(http.MethodPost, "/api/newsletter/subscribe", []byte(`{"email":"friend@example.com"}`), nil)
	req = withSession(req, &session.Session{CustomerID: uuid.New(), Email: "jane@example.com"})

	h.Subscribe(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, subs.customerID)
	assert.Zero(t, consent.calls)
}

func TestNewsletterSubscribe_ConsentFailureStillSucceeds(t *testing.T) {
	t.Parallel()

	h := handler.NewNewsletterHandler(marketingOn(), &fakeSubscribers{}, &fakeConsent{err: errors.New("timeout")}, nil)
	req, w := makeChiRequest(http.MethodPost, "/api/newsletter/subscribe", []byte(`{"email":"jane@example.com"}`), nil)
	req = withSession(req, &session.Session{CustomerID: uuid.New(), Email: "jane@example.com"})

	h.Subscribe(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewsletterSubscribe_Errors(t *testing.T) {
	t.Parallel()

	h := handler.NewNewsletterHandler(marketingOn(), &fakeSubscribers{}, &fakeConsent{}, nil)
	req, w := makeChiRequest(http.MethodPost, "/api/newsletter/subscribe", []byte(`{"email":"not-an-email"}`), nil)
	h.Subscribe(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, parseEnvelope(t, w)))

	h = handler.NewNewsletterHandler(marketingOn(), &fakeSubscribers{err: errors.New("db down")}, &fakeConsent{}, nil)
	req, w = makeChiRequest(http.MethodPost, "/api/newsletter/subscribe", []byte(`{"email":"jane@example.com"}`), nil)
	h.Subscribe(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
