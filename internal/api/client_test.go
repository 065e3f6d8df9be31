package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/api"
	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/mocks"
)

func TestRequestRetriesOnceAfterRefresh(t *testing.T) {
	var calls int32
	var retriedAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		retriedAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	tokens := new(mocks.TokenSourceMock)
	tokens.On("AccessToken", mock.Anything).Return("stale", nil).Once()
	tokens.On("Refresh", mock.Anything).Return("fresh", nil).Once()

	client := api.NewClient(server.URL, tokens)
	var out map[string]bool
	err := client.Do(context.Background(), http.MethodGet, "/mobile/chat", nil, &out, nil)

	require.NoError(t, err)
	require.EqualValues(t, 2, atomic.LoadInt32(&calls))
	assert.Equal(t, "Bearer fresh", retriedAuth)
	assert.True(t, out["ok"])
	tokens.AssertExpectations(t)
}

func TestNoThirdRequestAfterRetried401(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	tokens := new(mocks.TokenSourceMock)
	tokens.On("AccessToken", mock.Anything).Return("stale", nil).Once()
	tokens.On("Refresh", mock.Anything).Return("fresh", nil).Once()

	var authFailures int
	client := api.NewClient(server.URL, tokens,
		api.WithAuthFailureCallback(func() { authFailures++ }),
	)

	err := client.Do(context.Background(), http.MethodGet, "/mobile/chat", nil, nil, nil)

	require.Error(t, err)
	assert.True(t, api.IsAuthError(err))
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
	assert.Equal(t, 1, authFailures)
	tokens.AssertExpectations(t)
}

func TestRefreshFailureSurfacesAuthError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	tokens := new(mocks.TokenSourceMock)
	tokens.On("AccessToken", mock.Anything).Return("stale", nil).Once()
	tokens.On("Refresh", mock.Anything).Return("", assert.AnError).Once()

	var authFailures int
	client := api.NewClient(server.URL, tokens,
		api.WithAuthFailureCallback(func() { authFailures++ }),
	)

	err := client.Do(context.Background(), http.MethodGet, "/mobile/chat", nil, nil, nil)

	require.Error(t, err)
	assert.True(t, api.IsAuthError(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	assert.Equal(t, 1, authFailures)
	tokens.AssertExpectations(t)
}

func TestNon2xxIsRequestErrorWithoutRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	tokens := new(mocks.TokenSourceMock)
	tokens.On("AccessToken", mock.Anything).Return("token", nil).Once()

	client := api.NewClient(server.URL, tokens)
	err := client.Do(context.Background(), http.MethodGet, "/mobile/posts", nil, nil, nil)

	require.Error(t, err)
	assert.True(t, api.IsRequestError(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	tokens.AssertExpectations(t)
}

func TestConnectionFailureIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	tokens := new(mocks.TokenSourceMock)
	tokens.On("AccessToken", mock.Anything).Return("token", nil).Once()

	client := api.NewClient(server.URL, tokens)
	err := client.Do(context.Background(), http.MethodGet, "/mobile/chat", nil, nil, nil)

	require.Error(t, err)
	assert.True(t, api.IsTransportError(err))
	tokens.AssertExpectations(t)
}

func TestCallerHeadersOverrideAuthorization(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	tokens := new(mocks.TokenSourceMock)
	tokens.On("AccessToken", mock.Anything).Return("stored", nil).Once()

	client := api.NewClient(server.URL, tokens)
	err := client.Do(context.Background(), http.MethodGet, "/mobile/chat", nil, nil,
		map[string]string{"Authorization": "Bearer override"})

	require.NoError(t, err)
	assert.Equal(t, "Bearer override", gotAuth)
	tokens.AssertExpectations(t)
}
