package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	config "github.com/lumicart/storefront-cache/configs"
	"github.com/lumicart/storefront-cache/internal/core/ports"
	"github.com/lumicart/storefront-cache/internal/infrastructure/httpapi"
)

func newTestClient(baseURL string, token string) *httpapi.Client {
	cfg := &config.APIConfig{BaseURL: baseURL, Timeout: 2 * time.Second, UserAgent: "test-agent"}
	return httpapi.New(cfg, func() string { return token }, nil)
}

func TestClientGetUnwrapsEnvelopeAndSendsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products", r.URL.Path)
		require.Equal(t, "mugs", r.URL.Query().Get("category"))
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		require.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"products":["p1"]}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "tok-123")
	raw, err := client.Get(context.Background(), "/products", map[string]string{"category": "mugs"})
	require.NoError(t, err)
	require.JSONEq(t, `{"products":["p1"]}`, string(raw))
}

func TestClientAnonymousOmitsAuthorization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "")
	_, err := client.Get(context.Background(), "/products", nil)
	require.NoError(t, err)
}

func TestClientPostPassesBodyThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "ada@example.com", body["email"])
		// Login-style responses carry no data envelope.
		w.Write([]byte(`{"token":"tok","user":{"email":"ada@example.com"}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "")
	raw, err := client.Post(context.Background(), "/auth/login", map[string]string{"email": "ada@example.com"})
	require.NoError(t, err)
	require.JSONEq(t, `{"token":"tok","user":{"email":"ada@example.com"}}`, string(raw))
}

func TestClientClassifiesAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "stale-token")
	_, err := client.Get(context.Background(), "/users/me", nil)
	require.Error(t, err)
	require.True(t, ports.IsAuthFailure(err))
	require.Contains(t, err.Error(), "token expired")
}

func TestClientServerErrorIsNotAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "tok")
	_, err := client.Get(context.Background(), "/products", nil)
	require.Error(t, err)
	require.False(t, ports.IsAuthFailure(err))
}

func TestClientConnectivityFailureIsNotAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	client := newTestClient(srv.URL, "tok")
	_, err := client.Get(context.Background(), "/products", nil)
	require.Error(t, err)
	require.False(t, ports.IsAuthFailure(err))
}
