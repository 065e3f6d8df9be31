package session

import (
	"context"
	"fmt"
	"log"

	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/observability"
)

// Refresher exchanges a stored ID token for a fresh access token.
type Refresher interface {
	Refresh(ctx context.Context, idToken string) (Session, error)
}

// Manager owns the session lifecycle on top of the credential store. It is
// the token source for the authenticated fetch client.
type Manager struct {
	store    CredentialStore
	identity Refresher
}

// NewManager constructs a Manager.
func NewManager(store CredentialStore, identity Refresher) *Manager {
	return &Manager{store: store, identity: identity}
}

// Begin stores a freshly issued session.
func (m *Manager) Begin(sess Session) error {
	return m.store.SetSession(sess)
}

// AccessToken returns the stored access token.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	sess, err := m.store.GetSession()
	if err != nil {
		return "", err
	}
	return sess.AccessToken, nil
}

// Refresh runs the refresh grant and stores the new access token and expiry.
// The ID token is kept as-is.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	current, err := m.store.GetSession()
	if err != nil {
		observability.IncTokenRefresh("no_session")
		return "", err
	}

	refreshed, err := m.identity.Refresh(ctx, current.IDToken)
	if err != nil {
		observability.IncTokenRefresh("failure")
		return "", fmt.Errorf("refresh token: %w", err)
	}

	current.AccessToken = refreshed.AccessToken
	current.ExpiresAt = refreshed.ExpiresAt
	if err := m.store.SetSession(current); err != nil {
		observability.IncTokenRefresh("failure")
		return "", err
	}

	observability.IncTokenRefresh("success")
	return current.AccessToken, nil
}

// End clears the session. Cleanup is best effort and never blocks logout:
// the optional unregister hook's failure is logged and ignored.
func (m *Manager) End(ctx context.Context, unregister func(context.Context) error) error {
	if unregister != nil {
		if err := unregister(ctx); err != nil {
			log.Printf("push token unregister failed, continuing logout: %v", err)
		}
	}
	return m.store.ClearSession()
}
