package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accountd/internal/apperr"
)

func TestClientGetUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user_management/users/ext-1", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"email": "jane@example.com",
			"first_name": "Jane",
			"last_name": "Doe",
			"email_verified": true,
			"profile_picture_url": "https://cdn.example.com/jane.png",
			"last_sign_in_at": "2026-08-27T10:30:00Z"
		}`))
	}))
	defer srv.Close()

	profile, err := NewClient(srv.URL, "test-key").GetUser(context.Background(), "ext-1")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", profile.Email)
	assert.Equal(t, "Jane", profile.FirstName)
	assert.True(t, profile.EmailVerified)
	assert.Equal(t, "2026-08-27T10:30:00Z", profile.LastSignInAt)
}

func TestClientGetUserProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"user not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "test-key").GetUser(context.Background(), "ext-unknown")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeIdentityLookupFailed))
}

func TestClientGetUserNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	_, err := NewClient(srv.URL, "test-key").GetUser(context.Background(), "ext-1")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeIdentityLookupFailed))
}
