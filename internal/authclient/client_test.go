package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProviderServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["email"] == "alice@example.com" && body["password"] == "secret" {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "prov-token-1"})
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid login credentials"})
	})
	mux.HandleFunc("/signup", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email string            `json:"email"`
			Data  map[string]string `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":            "id-42",
			"email":         body.Email,
			"user_metadata": map[string]string{"name": body.Data["name"]},
		})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer prov-token-1" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"msg": "invalid token"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":            "id-42",
			"email":         "alice@example.com",
			"user_metadata": map[string]string{"name": "Alice"},
		})
	})
	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return httptest.NewServer(mux)
}

func TestSignInWithPassword(t *testing.T) {
	srv := newProviderServer(t)
	defer srv.Close()
	c := NewHTTPClient(srv.URL, "test-key")

	token, err := c.SignInWithPassword(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "prov-token-1", token)
}

func TestSignInWithPasswordSurfacesProviderMessage(t *testing.T) {
	srv := newProviderServer(t)
	defer srv.Close()
	c := NewHTTPClient(srv.URL, "test-key")

	_, err := c.SignInWithPassword(context.Background(), "alice@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid login credentials", err.Error())
}

func TestSignUpAndGetUser(t *testing.T) {
	srv := newProviderServer(t)
	defer srv.Close()
	c := NewHTTPClient(srv.URL, "test-key")

	id, err := c.SignUp(context.Background(), "alice@example.com", "secret", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "id-42", id.ID)
	assert.Equal(t, "Alice", id.Name)

	got, err := c.GetUser(context.Background(), "prov-token-1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)

	_, err = c.GetUser(context.Background(), "bogus")
	require.Error(t, err)
	assert.Equal(t, "invalid token", err.Error())
}

func TestSignOut(t *testing.T) {
	srv := newProviderServer(t)
	defer srv.Close()
	c := NewHTTPClient(srv.URL, "test-key")

	assert.NoError(t, c.SignOut(context.Background(), "prov-token-1"))
}
