package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/invite", r.URL.Path)
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "tutor@example.com", body["email"])

		_ = json.NewEncoder(w).Encode(map[string]string{"id": "user-1", "email": "tutor@example.com"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", "service-key", 0)
	user, err := client.InviteUser(context.Background(), "tutor@example.com", map[string]interface{}{"role": "TUTOR"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
}

func TestInviteUserProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"msg":"A user with this email address has already been registered"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "service-key", 0).InviteUser(context.Background(), "dup@example.com", nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Contains(t, apiErr.Message, "already been registered")
}

func TestDeleteUser(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL, "service-key", 0).DeleteUser(context.Background(), "user-1"))
	assert.Equal(t, "/auth/v1/admin/users/user-1", path)
}

func TestClientNotConfigured(t *testing.T) {
	_, err := NewClient("", "", 0).InviteUser(context.Background(), "a@example.com", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
