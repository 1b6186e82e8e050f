package session

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// DefaultTTL is how long a customer session stays valid after issue or refresh.
	DefaultTTL = 7 * 24 * time.Hour

	// DefaultCookieName is the cookie carrying the signed customer session.
	DefaultCookieName = "customer_session"

	minSecretLen = 32
	tokenIssuer  = "emporium-storefront"
)

var (
	// ErrMissingSecret is returned when the signing secret is absent.
	ErrMissingSecret = errors.New("session secret is required")

	// ErrWeakSecret is returned when the signing secret is shorter than 32 bytes.
	ErrWeakSecret = fmt.Errorf("session secret must be at least %d bytes", minSecretLen)
)

// Session is the verified payload of a customer session cookie.
type Session struct {
	CustomerID uuid.UUID
	Email      string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Options configures a Codec.
type Options struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
	Now        func() time.Time
}

// Codec issues and verifies customer session cookies. Tokens are HS256 JWTs;
// nothing is stored server-side, so a token stays valid until it expires.
type Codec struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	now        func() time.Time
}

// NewCodec validates opts and returns a Codec.
func NewCodec(opts Options) (*Codec, error) {
	if opts.Secret == "" {
		return nil, ErrMissingSecret
	}
	if len(opts.Secret) < minSecretLen {
		return nil, ErrWeakSecret
	}

	c := &Codec{
		secret:     []byte(opts.Secret),
		ttl:        opts.TTL,
		cookieName: opts.CookieName,
		secure:     opts.Secure,
		now:        opts.Now,
	}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	if c.cookieName == "" {
		c.cookieName = DefaultCookieName
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// TTL returns the session lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// CookieName returns the name of the session cookie.
func (c *Codec) CookieName() string {
	return c.cookieName
}

// Encode signs s into a token string.
func (c *Codec) Encode(s Session) (string, error) {
	claims := sessionClaims{
		Email: s.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   s.CustomerID.String(),
			IssuedAt:  jwt.NewNumericDate(s.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// Issue creates a session for the customer and attaches it to w as a cookie.
// The email is normalized to lowercase.
func (c *Codec) Issue(w http.ResponseWriter, customerID uuid.UUID, email string) (*Session, error) {
	now := c.now().UTC().Truncate(time.Second)
	return c.write(w, Session{
		CustomerID: customerID,
		Email:      strings.ToLower(strings.TrimSpace(email)),
		IssuedAt:   now,
		ExpiresAt:  now.Add(c.ttl),
	})
}

func (c *Codec) write(w http.ResponseWriter, s Session) (*Session, error) {
	token, err := c.Encode(s)
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return &s, nil
}

// Verify parses token and returns its session. Bad signatures, malformed
// payloads, and tokens at or past their expiry all return false; the reason is
// deliberately not reported.
func (c *Codec) Verify(token string) (*Session, bool) {
	if token == "" {
		return nil, false
	}

	claims := &sessionClaims{}
	tok, err := jwt.ParseWithClaims(token, claims, func(_ *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !tok.Valid {
		return nil, false
	}

	customerID, err := uuid.Parse(claims.Subject)
	if err != nil || claims.Email == "" || claims.IssuedAt == nil {
		return nil, false
	}

	return &Session{
		CustomerID: customerID,
		Email:      claims.Email,
		IssuedAt:   claims.IssuedAt.UTC(),
		ExpiresAt:  claims.ExpiresAt.UTC(),
	}, true
}

// FromRequest verifies the session cookie on r, if any.
func (c *Codec) FromRequest(r *http.Request) (*Session, bool) {
	cookie, err := r.Cookie(c.cookieName)
	if err != nil {
		return nil, false
	}
	return c.Verify(cookie.Value)
}

// Refresh reissues the session on r with a new expiry. Identity and issue
// time are carried over unchanged.
// When r has no valid session it returns false and leaves w untouched.
func (c *Codec) Refresh(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	current, ok := c.FromRequest(r)
	if !ok {
		return nil, false
	}

	renewed := *current
	renewed.ExpiresAt = c.now().UTC().Truncate(time.Second).Add(c.ttl)
	out, err := c.write(w, renewed)
	if err != nil {
		return nil, false
	}
	return out, true
}

// Clear expires the session cookie. Clearing an absent cookie is harmless.
func (c *Codec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
