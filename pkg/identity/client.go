// Package identity talks to the admin API of the identity provider that owns user accounts.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotConfigured is returned when no provider URL or service key was supplied.
var ErrNotConfigured = errors.New("identity provider not configured")

// User is the subset of the provider's user object the service needs.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// APIError is a non-2xx answer from the provider.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity provider returned %d: %s", e.Status, e.Message)
}

// Client calls the provider admin endpoints with the service key.
type Client struct {
	baseURL    string
	serviceKey string
	http       *http.Client
}

// NewClient constructs a client. A zero timeout uses 20 seconds.
func NewClient(baseURL, serviceKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		http:       &http.Client{Timeout: timeout},
	}
}

// InviteUser creates the account and sends the setup email. Metadata is stored on the user.
func (c *Client) InviteUser(ctx context.Context, email string, metadata map[string]interface{}) (*User, error) {
	body := map[string]interface{}{"email": email, "data": metadata}
	var user User
	if err := c.do(ctx, http.MethodPost, "/auth/v1/invite", body, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, errors.New("identity provider returned a user without id")
	}
	return &user, nil
}

// DeleteUser removes an account, used to undo an invite whose profile could not be created.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/auth/v1/admin/users/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, dest interface{}) error {
	if c == nil || c.baseURL == "" || c.serviceKey == "" {
		return ErrNotConfigured
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode identity request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("identity request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read identity response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	if dest == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode identity response: %w", err)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var payload struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		for _, candidate := range []string{payload.Msg, payload.Message, payload.ErrorDescription, payload.Error} {
			if candidate != "" {
				return candidate
			}
		}
	}
	return strings.TrimSpace(string(raw))
}
