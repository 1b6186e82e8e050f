package identity

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultCookieName is the cookie the identity provider's browser SDK writes
// the staff access token to.
const DefaultCookieName = "sb-access-token"

// ErrMissingSecret is returned when a verifier is built without a signing secret.
var ErrMissingSecret = errors.New("identity provider secret is required")

// Provider resolves the identity provider subject behind a request.
//
// An empty subject with a nil error means the request carries no valid
// credential. A non-nil error means the provider could not be consulted;
// callers treat it the same as no credential after logging it.
type Provider interface {
	Subject(ctx context.Context, r *http.Request) (string, error)
}

// JWTCookieProvider verifies the provider's HS256 access-token cookie with the
// shared project secret.
type JWTCookieProvider struct {
	secret     []byte
	cookieName string
	issuer     string
	now        func() time.Time
}

// JWTCookieOption configures a JWTCookieProvider.
type JWTCookieOption func(*JWTCookieProvider)

// WithCookieName overrides the cookie holding the access token.
func WithCookieName(name string) JWTCookieOption {
	return func(p *JWTCookieProvider) {
		if name != "" {
			p.cookieName = name
		}
	}
}

// WithIssuer requires the token's iss claim to equal issuer.
func WithIssuer(issuer string) JWTCookieOption {
	return func(p *JWTCookieProvider) {
		p.issuer = issuer
	}
}

// WithClock replaces the time source used for expiry checks.
func WithClock(now func() time.Time) JWTCookieOption {
	return func(p *JWTCookieProvider) {
		if now != nil {
			p.now = now
		}
	}
}

// NewJWTCookieProvider creates a provider verifying tokens signed with secret.
func NewJWTCookieProvider(secret string, opts ...JWTCookieOption) (*JWTCookieProvider, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	p := &JWTCookieProvider{
		secret:     []byte(secret),
		cookieName: DefaultCookieName,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Subject returns the verified sub claim of the access-token cookie. Missing,
// malformed, expired, or forged tokens all yield an empty subject.
func (p *JWTCookieProvider) Subject(_ context.Context, r *http.Request) (string, error) {
	cookie, err := r.Cookie(p.cookieName)
	if err != nil || cookie.Value == "" {
		return "", nil
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	}
	if p.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(p.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(cookie.Value, claims, func(_ *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, parserOpts...)
	if err != nil || !tok.Valid {
		slog.Debug("rejected identity provider token", "error", err)
		return "", nil
	}

	return claims.Subject, nil
}
