package session

import (
	"fmt"
	"time"
)

const expiresAtLayout = time.RFC3339

func parseExpiresAt(raw string) (time.Time, error) {
	parsed, err := time.Parse(expiresAtLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse expires_at: %w", err)
	}
	return parsed, nil
}

// Session holds the tokens issued by the identity provider. A session is
// either fully present (all three values set) or absent; partial states are
// not written to the credential store.
type Session struct {
	AccessToken string    `json:"access_token"`
	IDToken     string    `json:"id_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Valid reports whether the session is fully present.
func (s Session) Valid() bool {
	return s.AccessToken != "" && s.IDToken != "" && !s.ExpiresAt.IsZero()
}

// Expired reports whether the access token is past its expiry.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
