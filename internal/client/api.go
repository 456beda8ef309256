package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrUnauthorized is returned when the server rejects the session token.
// Callers drop the stored session and ask the user to log in again.
var ErrUnauthorized = errors.New("session expired or invalid, please log in again")

// User mirrors the safe projection the server returns. It never carries a
// password field.
type User struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenResponse is the payload of register and login calls.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        User   `json:"user"`
}

// UserRequest is the body of create and update calls. Empty fields are
// omitted so the server leaves them untouched on update.
type UserRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client talks to the userbase server over HTTP+JSON.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// New creates a Client for the given server. token may be empty for
// unauthenticated calls.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Register creates an account and returns the fresh session token.
func (c *Client) Register(ctx context.Context, name, email, password string) (*TokenResponse, error) {
	var out TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", UserRequest{Name: name, Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	var out TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", UserRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsers fetches every user's projection.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.do(ctx, http.MethodGet, "/auth/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUser fetches a single user by id.
func (c *Client) GetUser(ctx context.Context, id uint) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/auth/users/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUser creates a user on behalf of the logged-in operator.
func (c *Client) CreateUser(ctx context.Context, req UserRequest) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodPost, "/auth/users", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser applies a partial update to a user.
func (c *Client) UpdateUser(ctx context.Context, id uint, req UserRequest) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/auth/users/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes a user and returns its last known state.
func (c *Client) DeleteUser(ctx context.Context, id uint) (*User, error) {
	var out struct {
		Message string `json:"message"`
		User    User   `json:"user"`
	}
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/auth/users/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// do performs a request against the server, attaching the bearer token when
// present and decoding either the expected payload or the error envelope.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Buffer = bytes.NewBuffer(nil)
	if body != nil {
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("%s", apiErr.Message)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
