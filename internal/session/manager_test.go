package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/mocks"
	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/session"
)

func TestManagerAccessTokenReadsStore(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.SetSession(fullSession()))

	manager := session.NewManager(store, new(mocks.RefresherMock))
	token, err := manager.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access", token)
}

func TestManagerRefreshUpdatesAccessTokenOnly(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.SetSession(fullSession()))

	newExpiry := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)
	refresher := new(mocks.RefresherMock)
	refresher.On("Refresh", mock.Anything, "id").
		Return(session.Session{AccessToken: "new-access", IDToken: "id", ExpiresAt: newExpiry}, nil).Once()

	manager := session.NewManager(store, refresher)
	token, err := manager.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new-access", token)

	stored, err := store.GetSession()
	require.NoError(t, err)
	assert.Equal(t, "new-access", stored.AccessToken)
	assert.Equal(t, "id", stored.IDToken)
	assert.True(t, stored.ExpiresAt.Equal(newExpiry))
	refresher.AssertExpectations(t)
}

func TestManagerRefreshWithoutSession(t *testing.T) {
	manager := session.NewManager(session.NewMemoryStore(), new(mocks.RefresherMock))
	_, err := manager.Refresh(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestManagerRefreshFailurePropagates(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.SetSession(fullSession()))

	refresher := new(mocks.RefresherMock)
	refresher.On("Refresh", mock.Anything, "id").Return(session.Session{}, assert.AnError).Once()

	manager := session.NewManager(store, refresher)
	_, err := manager.Refresh(context.Background())
	require.Error(t, err)

	stored, err := store.GetSession()
	require.NoError(t, err)
	assert.Equal(t, "access", stored.AccessToken, "failed refresh must not touch the stored session")
}

// Logout must complete even when the push-token unregister call fails.
func TestManagerEndIgnoresUnregisterFailure(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.SetSession(fullSession()))

	manager := session.NewManager(store, new(mocks.RefresherMock))
	err := manager.End(context.Background(), func(context.Context) error {
		return assert.AnError
	})
	require.NoError(t, err)

	_, err = store.GetSession()
	assert.ErrorIs(t, err, session.ErrNoSession)
}
