package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityClient talks to the identity provider's /oauth/token endpoint.
// It issues tokens via a password grant and refreshes the access token via a
// refresh grant keyed on the ID token.
type IdentityClient struct {
	baseURL  string
	clientID string
	http     *http.Client
	now      func() time.Time
}

// NewIdentityClient constructs an IdentityClient.
func NewIdentityClient(baseURL, clientID string, httpClient *http.Client) *IdentityClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &IdentityClient{baseURL: baseURL, clientID: clientID, http: httpClient, now: time.Now}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Login performs the password grant and returns a full session.
func (c *IdentityClient) Login(ctx context.Context, username, password string) (Session, error) {
	return c.token(ctx, map[string]string{
		"grant_type": "password",
		"client_id":  c.clientID,
		"username":   username,
		"password":   password,
		"scope":      "openid",
	})
}

// Refresh performs the refresh grant. Only the access token and expiry
// change; the caller keeps its existing ID token.
func (c *IdentityClient) Refresh(ctx context.Context, idToken string) (Session, error) {
	sess, err := c.token(ctx, map[string]string{
		"grant_type": "refresh_token",
		"client_id":  c.clientID,
		"id_token":   idToken,
	})
	if err != nil {
		return Session{}, err
	}
	if sess.IDToken == "" {
		sess.IDToken = idToken
	}
	return sess, nil
}

func (c *IdentityClient) token(ctx context.Context, form map[string]string) (Session, error) {
	body, err := json.Marshal(form)
	if err != nil {
		return Session{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/token", bytes.NewReader(body))
	if err != nil {
		return Session{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Session{}, fmt.Errorf("token request failed: status %d", resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return Session{}, fmt.Errorf("decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return Session{}, fmt.Errorf("token response missing access_token")
	}

	return Session{
		AccessToken: tok.AccessToken,
		IDToken:     tok.IDToken,
		ExpiresAt:   c.expiry(tok),
	}, nil
}

// expiry prefers the exp claim embedded in the access token and falls back to
// the advertised expires_in. The token is not verified here; the client only
// needs the timestamp, the backend does the real validation.
func (c *IdentityClient) expiry(tok tokenResponse) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok.AccessToken, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	if tok.ExpiresIn > 0 {
		return c.now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	return c.now().Add(time.Hour)
}
