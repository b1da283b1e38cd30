package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"med-reminder/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, verifyPath, r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerify_OK(t *testing.T) {
	srv := newServer(t, http.StatusOK, map[string]string{"user_id": "u1", "email": "Ana@Example.com"})

	v, err := New(Config{BaseURL: srv.URL, APIKey: "secret"})
	require.NoError(t, err)

	claims, err := v.Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Identity())
}

func TestVerify_Rejected(t *testing.T) {
	srv := newServer(t, http.StatusUnauthorized, map[string]string{"error": "bad token"})

	v, err := New(Config{BaseURL: srv.URL, APIKey: "secret"})
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestVerify_UpstreamError(t *testing.T) {
	srv := newServer(t, http.StatusBadGateway, map[string]string{})

	v, err := New(Config{BaseURL: srv.URL, APIKey: "secret"})
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestVerify_MissingIdentity(t *testing.T) {
	srv := newServer(t, http.StatusOK, map[string]string{})

	v, err := New(Config{BaseURL: srv.URL, APIKey: "secret"})
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
