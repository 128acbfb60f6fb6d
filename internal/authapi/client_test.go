package authapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestReset_Success(t *testing.T) {
	var gotMethod, gotPath, gotContentType string
	var gotBody resetRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	err := c.RequestReset(context.Background(), "user@example.com", srv.URL+ResetCompletePath)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/v1/auth/password-reset", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "user@example.com", gotBody.Email)
	assert.Equal(t, srv.URL+ResetCompletePath, gotBody.RedirectURL)
}

func TestRequestReset_ServerMessagePreserved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limit exceeded"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	err := c.RequestReset(context.Background(), "user@example.com", "https://jobs.example.com/reset-password/complete")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "rate limit exceeded", apiErr.Message)
	assert.Equal(t, "rate limit exceeded", err.Error())
}

func TestRequestReset_EmptyBodyDefaults(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   string
	}{
		{"rate limited", http.StatusTooManyRequests, "rate limit exceeded"},
		{"unknown account", http.StatusNotFound, "account not found"},
		{"server error", http.StatusInternalServerError, "auth service returned status 500"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, 5*time.Second)
			err := c.RequestReset(context.Background(), "user@example.com", "https://jobs.example.com/reset-password/complete")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, tc.want, apiErr.Message)
		})
	}
}

func TestRequestReset_PlainTextBodySurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("malformed email address"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	err := c.RequestReset(context.Background(), "user@example.com", "https://jobs.example.com/reset-password/complete")
	require.Error(t, err)
	assert.Equal(t, "malformed email address", err.Error())
}

func TestRequestReset_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, 5*time.Second)
	err := c.RequestReset(ctx, "user@example.com", "https://jobs.example.com/reset-password/complete")
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "transport errors must not be APIErrors")
}

func TestResetRedirectURL(t *testing.T) {
	assert.Equal(t, "https://jobs.example.com/reset-password/complete",
		ResetRedirectURL("https://jobs.example.com"))
	assert.Equal(t, "https://jobs.example.com/reset-password/complete",
		ResetRedirectURL("https://jobs.example.com/"))
}
