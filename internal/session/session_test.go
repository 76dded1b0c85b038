package session_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suratku/suratku/internal/api"
	"github.com/suratku/suratku/internal/session"
)

func signedToken(t *testing.T, exp *time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "7"}
	if exp != nil {
		claims.ExpiresAt = jwt.NewNumericDate(*exp)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestExpiresAt(t *testing.T) {
	now := time.Date(2025, 10, 5, 9, 0, 0, 0, time.UTC)
	exp := now.Add(time.Hour)

	sess := &session.Session{Token: signedToken(t, &exp)}
	got, ok := sess.ExpiresAt()
	require.True(t, ok)
	assert.True(t, got.Equal(exp))
	assert.False(t, sess.Expired(now))
	assert.True(t, sess.Expired(exp))
	assert.True(t, sess.Expired(exp.Add(time.Minute)))
}

func TestExpiresAt_NoClaim(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "empty"},
		{name: "opaque", token: "abc123"},
		{name: "jwt without exp", token: signedToken(t, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := &session.Session{Token: tt.token}
			_, ok := sess.ExpiresAt()
			assert.False(t, ok)
			assert.False(t, sess.Expired(time.Now()))
		})
	}
}

func TestRequireSuperAdmin(t *testing.T) {
	var nilSession *session.Session
	require.ErrorIs(t, nilSession.RequireSuperAdmin(), session.ErrNotLoggedIn)

	admin := &session.Session{Token: "t", User: api.User{Email: "a@x", Role: api.RoleAdmin}}
	err := admin.RequireSuperAdmin()
	require.ErrorIs(t, err, session.ErrForbidden)
	assert.Contains(t, err.Error(), "role admin")

	super := &session.Session{Token: "t", User: api.User{Role: api.RoleSuperAdmin}}
	require.NoError(t, super.RequireSuperAdmin())
}

func TestCompanyScope(t *testing.T) {
	companyID := int64(4)
	admin := &session.Session{User: api.User{Role: api.RoleAdmin, CompanyID: &companyID}}
	id, ok := admin.CompanyScope()
	assert.True(t, ok)
	assert.Equal(t, int64(4), id)

	super := &session.Session{User: api.User{Role: api.RoleSuperAdmin, CompanyID: &companyID}}
	_, ok = super.CompanyScope()
	assert.False(t, ok)

	_, ok = (&session.Session{User: api.User{Role: api.RoleAdmin}}).CompanyScope()
	assert.False(t, ok)
}

func TestNew(t *testing.T) {
	now := time.Date(2025, 10, 5, 16, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	sess := session.New(api.AuthResult{Token: "tok", User: api.User{ID: 1}}, "http://x/api", now)
	assert.Equal(t, "tok", sess.Token)
	assert.Equal(t, "http://x/api", sess.BaseURL)
	assert.Equal(t, time.UTC, sess.CreatedAt.Location())
}
