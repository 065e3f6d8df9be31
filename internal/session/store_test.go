package session_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/session"
)

func fullSession() session.Session {
	return session.Session{
		AccessToken: "access",
		IDToken:     "id",
		ExpiresAt:   time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestMemoryStoreSessionRoundTrip(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.SetSession(fullSession()))

	got, err := store.GetSession()
	require.NoError(t, err)
	assert.Equal(t, "access", got.AccessToken)
	assert.Equal(t, "id", got.IDToken)
	assert.True(t, got.ExpiresAt.Equal(fullSession().ExpiresAt))
}

func TestStoreRejectsPartialSession(t *testing.T) {
	store := session.NewMemoryStore()
	err := store.SetSession(session.Session{AccessToken: "only-access"})
	require.Error(t, err)

	_, err = store.GetSession()
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestClearSessionLeavesPreferences(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.Set(session.KeyNotifications, "true"))
	require.NoError(t, store.SetSession(fullSession()))

	require.NoError(t, store.ClearSession())
	require.NoError(t, store.ClearSession())

	_, err := store.GetSession()
	assert.ErrorIs(t, err, session.ErrNoSession)

	pref, err := store.Get(session.KeyNotifications)
	require.NoError(t, err)
	assert.Equal(t, "true", pref)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds", "credentials.json")
	store := session.NewFileStore(path)

	_, err := store.GetSession()
	assert.ErrorIs(t, err, session.ErrNoSession)

	require.NoError(t, store.SetSession(fullSession()))
	require.NoError(t, store.Set(session.KeyNotifications, "false"))

	reopened := session.NewFileStore(path)
	got, err := reopened.GetSession()
	require.NoError(t, err)
	assert.Equal(t, "access", got.AccessToken)
	assert.Equal(t, "id", got.IDToken)
	assert.True(t, got.ExpiresAt.Equal(fullSession().ExpiresAt))

	pref, err := reopened.Get(session.KeyNotifications)
	require.NoError(t, err)
	assert.Equal(t, "false", pref)
}

func TestSessionExpired(t *testing.T) {
	sess := fullSession()
	assert.False(t, sess.Expired(sess.ExpiresAt.Add(-time.Minute)))
	assert.True(t, sess.Expired(sess.ExpiresAt.Add(time.Minute)))
}
