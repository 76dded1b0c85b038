package session_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suratku/suratku/internal/api"
	"github.com/suratku/suratku/internal/session"
)

func newStore(t *testing.T) *session.Store {
	t.Helper()
	store, err := session.NewStore(filepath.Join(t.TempDir(), "state", "session.json"))
	require.NoError(t, err)
	return store
}

func TestNewStore_EmptyPath(t *testing.T) {
	_, err := session.NewStore("")
	assert.Error(t, err)
}

func TestStore_RoundTrip(t *testing.T) {
	store := newStore(t)

	_, err := store.Load()
	require.ErrorIs(t, err, session.ErrNotLoggedIn)

	companyID := int64(2)
	sess := &session.Session{
		Token:     "token-1",
		User:      api.User{ID: 2, Name: "Admin", Role: api.RoleAdmin, CompanyID: &companyID},
		BaseURL:   "http://localhost:3000/api",
		CreatedAt: time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(sess))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, sess, loaded)

	require.NoError(t, store.Clear())
	_, err = store.Load()
	require.ErrorIs(t, err, session.ErrNotLoggedIn)
	require.NoError(t, store.Clear(), "clearing twice is fine")

	_, err = os.Stat(store.Path() + ".lock")
	assert.True(t, os.IsNotExist(err), "lock released")
}

func TestStore_SaveRejectsEmpty(t *testing.T) {
	store := newStore(t)
	require.Error(t, store.Save(nil))
	require.Error(t, store.Save(&session.Session{}))
}

func TestStore_Corrupted(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "not json", content: "{oops", wantErr: session.ErrSessionCorrupted},
		{name: "wrong version", content: `{"version": 99, "session": {"token": "t"}}`, wantErr: session.ErrSessionCorrupted},
		{name: "no session", content: `{"version": 1}`, wantErr: session.ErrNotLoggedIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t)
			require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o700))
			require.NoError(t, os.WriteFile(store.Path(), []byte(tt.content), 0o600))

			_, err := store.Load()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStore_Active(t *testing.T) {
	store := newStore(t)
	now := time.Now()

	exp := now.Add(-time.Minute)
	require.NoError(t, store.Save(&session.Session{Token: signedToken(t, &exp)}))
	_, err := store.Active(now)
	require.ErrorIs(t, err, session.ErrSessionExpired)
	_, err = store.Load()
	require.ErrorIs(t, err, session.ErrNotLoggedIn, "expired session removed")

	exp = now.Add(time.Hour)
	require.NoError(t, store.Save(&session.Session{Token: signedToken(t, &exp)}))
	sess, err := store.Active(now)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
}

func TestStore_ConcurrentSaves(t *testing.T) {
	store := newStore(t)

	var wg sync.WaitGroup
	for i := range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Save(&session.Session{Token: "token", User: api.User{ID: int64(i)}}))
		}()
	}
	wg.Wait()

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "token", loaded.Token)
}
