package rsc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuastenhouse/rscreporting-go/internal/core/domain"
)

func testCredential() *domain.Credential {
	return &domain.Credential{ClientID: "abc123", ClientSecret: "secret"}
}

// newTokenServer serves the client token endpoint with the given handler.
func newTokenServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(TokenPath, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestAuthenticateSuccess(t *testing.T) {
	var posts atomic.Int32
	server := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		posts.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "client|abc123", body["client_id"], "wire prefix applied exactly once")
		assert.Equal(t, "secret", body["client_secret"])

		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1"})
	})

	client := NewClient(server.URL)
	client.SetRetryDelay(0)

	session, err := client.Authenticate(context.Background(), testCredential())
	require.NoError(t, err)
	assert.Equal(t, int32(1), posts.Load())
	assert.Equal(t, domain.StatusConnected, session.Status)
	assert.Equal(t, "Bearer tok-1", session.AuthHeader)
	assert.Equal(t, server.URL+GraphQLPath, session.GraphQLURL)
	assert.Equal(t, server.URL+TokenPath, session.TokenURL)
	assert.NotEmpty(t, session.Instance)
	assert.NoError(t, client.RequireSession())
}

func TestAuthenticateRetriesOnce(t *testing.T) {
	var posts atomic.Int32
	server := newTokenServer(t, func(w http.ResponseWriter, _ *http.Request) {
		if posts.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-2"})
	})

	client := NewClient(server.URL)
	client.SetRetryDelay(0)

	session, err := client.Authenticate(context.Background(), testCredential())
	require.NoError(t, err)
	assert.Equal(t, int32(2), posts.Load(), "exactly one retry")
	assert.Equal(t, domain.StatusConnected, session.Status)
}

func TestAuthenticateGivesUpAfterRetry(t *testing.T) {
	var posts atomic.Int32
	server := newTokenServer(t, func(w http.ResponseWriter, _ *http.Request) {
		posts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	client := NewClient(server.URL)
	client.SetRetryDelay(0)

	_, err := client.Authenticate(context.Background(), testCredential())
	require.Error(t, err)
	assert.Equal(t, int32(2), posts.Load())

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Error(t, client.RequireSession())
}

func TestAuthenticatePermissionDeniedRewritten(t *testing.T) {
	server := newTokenServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]string{
				{"message": "PERMISSION_DENIED: the caller does not have permission"},
			},
		})
	})

	client := NewClient(server.URL)
	client.SetRetryDelay(0)

	_, err := client.Authenticate(context.Background(), testCredential())
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Message, "Invalid client_id")
	assert.Contains(t, authErr.Raw, "PERMISSION_DENIED")
	assert.True(t, IsAuthError(err))
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
}

func TestAuthenticateAllowListRewritten(t *testing.T) {
	server := newTokenServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "UNAUTHENTICATED: IP address is not allowed",
		})
	})

	client := NewClient(server.URL)
	client.SetRetryDelay(0)

	_, err := client.Authenticate(context.Background(), testCredential())
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Message, "allowed IP list")
}

func TestAuthenticateUnknownMessagePassesThrough(t *testing.T) {
	server := newTokenServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "some new backend failure",
		})
	})

	client := NewClient(server.URL)
	client.SetRetryDelay(0)

	_, err := client.Authenticate(context.Background(), testCredential())
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "some new backend failure", authErr.Message, "unknown messages pass through verbatim")
}

func TestAuthenticateInvalidCredential(t *testing.T) {
	client := NewClient("https://acme.my.rubrik.com")
	_, err := client.Authenticate(context.Background(), &domain.Credential{})
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)
}

func TestNewClientNormalizesURL(t *testing.T) {
	client := NewClient("https://acme.my.rubrik.com/api/graphql")
	assert.Equal(t, "https://acme.my.rubrik.com", client.BaseURL())
}
