// Package session implements the signed session token binding a request
// to an authenticated user. Sessions are stateless claims: there is no
// server-side session table, only an HMAC-signed token held by the client.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// CookieName is the HTTP cookie carrying the session token.
const CookieName = "coinboard_session"

// Revoker is an optional server-side denylist for logged-out tokens.
// When absent, logout is purely a client-side cookie deletion.
type Revoker interface {
	DenySession(ctx context.Context, jti string, ttl time.Duration) error
	SessionDenied(ctx context.Context, jti string) (bool, error)
}

// Manager issues and resolves session tokens. The signing key is fixed at
// construction and never rotated mid-session.
type Manager struct {
	secret  []byte
	ttl     time.Duration
	revoker Revoker
	now     func() time.Time
}

type claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"uid"`
}

// NewManager creates a session Manager. revoker may be nil, in which case
// resolved tokens are trusted until expiry.
func NewManager(secret []byte, ttl time.Duration, revoker Revoker) *Manager {
	return &Manager{
		secret:  secret,
		ttl:     ttl,
		revoker: revoker,
		now:     time.Now,
	}
}

// Issue produces a tamper-evident token binding the user ID.
// Each token carries a ULID jti so a single session can be revoked.
func (m *Manager) Issue(userID int64) (string, error) {
	now := m.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ulid.Make().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID: userID,
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return signed, nil
}

// Resolve maps a token to the user ID it binds. Any failure - missing
// token, bad signature, expiry, revocation - yields (0, false): an
// anonymous request, which is a normal state rather than an error.
func (m *Manager) Resolve(ctx context.Context, token string) (int64, bool) {
	c, ok := m.parse(token)
	if !ok {
		return 0, false
	}

	if m.revoker != nil {
		denied, err := m.revoker.SessionDenied(ctx, c.ID)
		if err != nil || denied {
			// Fail closed: an unreadable denylist means no identity.
			return 0, false
		}
	}

	return c.UserID, true
}

// Revoke denylists the token's jti until its natural expiry. Without a
// revoker this is a no-op: the client-side cookie deletion is the whole
// effect, and there is no failure mode.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if m.revoker == nil {
		return nil
	}

	c, ok := m.parse(token)
	if !ok || c.ExpiresAt == nil {
		return nil
	}

	remaining := c.ExpiresAt.Sub(m.now())
	if remaining <= 0 {
		return nil
	}

	if err := m.revoker.DenySession(ctx, c.ID, remaining); err != nil {
		return fmt.Errorf("deny session: %w", err)
	}
	return nil
}

func (m *Manager) parse(token string) (*claims, bool) {
	if token == "" {
		return nil, false
	}

	c := &claims{}
	parsed, err := jwt.ParseWithClaims(token, c,
		func(*jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, false
	}

	return c, true
}
