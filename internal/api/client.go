package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/observability"
)

// TokenSource supplies the bearer token for outbound calls and knows how to
// refresh it after a 401.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

// Client performs authenticated calls against the backend. Every call gets
// the bearer token injected and at most one automatic retry after a token
// refresh; a 401 that survives the retry (or a failed refresh) is an auth
// error and fires the registered auth-failure callback once.
type Client struct {
	baseURL       string
	http          *http.Client
	tokens        TokenSource
	onAuthFailure func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithAuthFailureCallback registers the callback fired when a call chain ends
// in an unrecoverable auth failure. The UI layer uses it to force logout.
func WithAuthFailureCallback(fn func()) Option {
	return func(c *Client) { c.onAuthFailure = fn }
}

// NewClient constructs a Client for the given backend base URL.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do issues method path with an optional JSON body and decodes a 2xx JSON
// response into out (out may be nil). Caller headers are merged in after the
// bearer token, so they may override Authorization.
func (c *Client) Do(ctx context.Context, method, path string, body any, out any, headers map[string]string) error {
	ctx, span := otel.Tracer("school-app/api").Start(ctx, "api.request")
	defer span.End()
	span.SetAttributes(attribute.String("http.method", method), attribute.String("endpoint", path))

	start := time.Now()
	err := c.do(ctx, method, path, body, out, headers)
	outcome := "success"
	if err != nil {
		outcome = string(KindOf(err))
		span.RecordError(err)
	}
	observability.ObserveAPIRequest(method, path, outcome, time.Since(start))
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any, headers map[string]string) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindRequest, Endpoint: path, Err: fmt.Errorf("encode request body: %w", err)}
		}
		payload = data
	}

	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return &Error{Kind: KindAuth, Endpoint: path, Err: err}
	}

	resp, err := c.send(ctx, method, path, payload, token, headers)
	if err != nil {
		return &Error{Kind: KindTransport, Endpoint: path, Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)

		newToken, refreshErr := c.tokens.Refresh(ctx)
		if refreshErr != nil {
			c.notifyAuthFailure()
			return &Error{Kind: KindAuth, Endpoint: path, Err: fmt.Errorf("token refresh: %w", refreshErr)}
		}

		// Exactly one retry per logical call.
		resp, err = c.send(ctx, method, path, payload, newToken, headers)
		if err != nil {
			return &Error{Kind: KindTransport, Endpoint: path, Err: err}
		}
		if resp.StatusCode == http.StatusUnauthorized {
			drain(resp)
			c.notifyAuthFailure()
			return &Error{Kind: KindAuth, Status: resp.StatusCode, Endpoint: path}
		}
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Kind: KindRequest, Status: resp.StatusCode, Endpoint: path}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return &Error{Kind: KindRequest, Endpoint: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, token string, headers map[string]string) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return c.http.Do(req)
}

func (c *Client) notifyAuthFailure() {
	if c.onAuthFailure != nil {
		c.onAuthFailure()
	}
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
