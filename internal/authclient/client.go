package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Identity is the provider's view of an authenticated user.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Client is the handle to the hosted email/password auth provider. The
// provider owns credential storage, hashing and its own session tokens; this
// service only exchanges credentials for identities. Injected into the auth
// handler so tests can substitute a fake.
type Client interface {
	// SignInWithPassword exchanges credentials for a provider access token.
	SignInWithPassword(ctx context.Context, email, password string) (string, error)
	// SignUp registers a new identity; name travels as profile metadata.
	SignUp(ctx context.Context, email, password, name string) (*Identity, error)
	// SignOut revokes the provider session behind the given token.
	SignOut(ctx context.Context, token string) error
	// GetUser resolves the identity behind a provider access token.
	GetUser(ctx context.Context, token string) (*Identity, error)
}

// HTTPClient talks to a GoTrue-style REST auth provider.
type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type userResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		Name string `json:"name"`
	} `json:"user_metadata"`
}

func (u *userResponse) identity() *Identity {
	return &Identity{ID: u.ID, Email: u.Email, Name: u.UserMetadata.Name}
}

func (c *HTTPClient) SignInWithPassword(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var tr tokenResponse
	if err := c.do(ctx, "POST", "/token?grant_type=password", "", body, &tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", errors.New("auth provider returned no access token")
	}
	return tr.AccessToken, nil
}

func (c *HTTPClient) SignUp(ctx context.Context, email, password, name string) (*Identity, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
		"data":     map[string]string{"name": name},
	}
	var ur userResponse
	if err := c.do(ctx, "POST", "/signup", "", body, &ur); err != nil {
		return nil, err
	}
	return ur.identity(), nil
}

func (c *HTTPClient) SignOut(ctx context.Context, token string) error {
	return c.do(ctx, "POST", "/logout", token, nil, nil)
}

func (c *HTTPClient) GetUser(ctx context.Context, token string) (*Identity, error) {
	var ur userResponse
	if err := c.do(ctx, "GET", "/user", token, nil, &ur); err != nil {
		return nil, err
	}
	return ur.identity(), nil
}

// do performs one provider request, decoding a JSON response into out when
// non-nil. Provider failures surface their message verbatim.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New(providerError(resp))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// providerError extracts the provider's own message so callers can surface it
// verbatim; falls back to the raw body or status code.
func providerError(resp *http.Response) string {
	b, _ := io.ReadAll(resp.Body)
	var payload struct {
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
		Error            string `json:"error"`
	}
	if err := json.Unmarshal(b, &payload); err == nil {
		switch {
		case payload.ErrorDescription != "":
			return payload.ErrorDescription
		case payload.Msg != "":
			return payload.Msg
		case payload.Error != "":
			return payload.Error
		}
	}
	if s := strings.TrimSpace(string(b)); s != "" {
		return s
	}
	return fmt.Sprintf("auth provider returned %d", resp.StatusCode)
}
