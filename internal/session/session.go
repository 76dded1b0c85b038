// Package session holds the signed-in user's session.
//
// A Session is an explicit value: the CLI loads it once per invocation from
// the Store, hands its token to the API client and its user to whatever
// needs the role. Login saves a new session, logout clears it, and a session
// whose token has expired is treated as absent.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/suratku/suratku/internal/api"
)

// Session errors.
var (
	ErrNotLoggedIn      = errors.New("not logged in: run 'suratku login' first")
	ErrSessionExpired   = errors.New("session expired: run 'suratku login' again")
	ErrForbidden        = errors.New("this command requires a super admin account")
	ErrSessionCorrupted = errors.New("session file corrupted")
)

// Session is an authenticated user and their bearer token.
type Session struct {
	Token     string    `json:"token"`
	User      api.User  `json:"user"`
	BaseURL   string    `json:"base_url"`
	CreatedAt time.Time `json:"created_at"`
}

// New returns a session for a successful login against baseURL.
func New(res api.AuthResult, baseURL string, now time.Time) *Session {
	return &Session{
		Token:     res.Token,
		User:      res.User,
		BaseURL:   baseURL,
		CreatedAt: now.UTC(),
	}
}

// ExpiresAt reads the exp claim of the token. The signature is not checked;
// the server remains the authority on validity. ok is false when the token
// is not a JWT or carries no expiry.
func (s *Session) ExpiresAt() (time.Time, bool) {
	if s == nil || s.Token == "" {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether the token's expiry is at or before now. Tokens
// without a readable expiry never expire client-side.
func (s *Session) Expired(now time.Time) bool {
	exp, ok := s.ExpiresAt()
	return ok && !now.Before(exp)
}

// IsSuperAdmin reports whether the signed-in user is a super admin.
func (s *Session) IsSuperAdmin() bool {
	return s != nil && s.User.IsSuperAdmin()
}

// RequireSuperAdmin returns ErrForbidden unless s belongs to a super admin.
// The server enforces the same rule; checking first saves a round trip.
func (s *Session) RequireSuperAdmin() error {
	if s == nil {
		return ErrNotLoggedIn
	}
	if !s.IsSuperAdmin() {
		return fmt.Errorf("%w (signed in as %s, role %s)", ErrForbidden, s.User.Email, s.User.Role)
	}
	return nil
}

// CompanyScope returns the company a non-super-admin is limited to. ok is
// false for super admins and for users without a company.
func (s *Session) CompanyScope() (int64, bool) {
	if s == nil || s.IsSuperAdmin() || s.User.CompanyID == nil {
		return 0, false
	}
	return *s.User.CompanyID, true
}
