package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Credentials is the payload of /auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the payload of /auth/register.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by Login and Register.
type AuthResult struct {
	Token string
	User  User
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResult, error) {
	return c.authenticate(ctx, "/auth/login", creds)
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, reg Registration) (AuthResult, error) {
	return c.authenticate(ctx, "/auth/register", reg)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (AuthResult, error) {
	env, err := c.do(ctx, http.MethodPost, path, nil, body, nil)
	if err != nil {
		return AuthResult{}, err
	}
	if env.Token == "" {
		return AuthResult{}, fmt.Errorf("%w: %s returned no token", ErrInvalidResponse, path)
	}

	var user User
	if len(env.User) > 0 {
		if err = json.Unmarshal(env.User, &user); err != nil {
			return AuthResult{}, fmt.Errorf("%w: decoding user: %w", ErrInvalidResponse, err)
		}
	}
	return AuthResult{Token: env.Token, User: user}, nil
}

// Logout ends the session on the server.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	return err
}

// Profile returns the signed-in user.
func (c *Client) Profile(ctx context.Context) (User, error) {
	var u User
	_, err := c.do(ctx, http.MethodGet, "/auth/profile", nil, nil, &u)
	return u, err
}

// UpdateProfile changes the signed-in user's name and email.
func (c *Client) UpdateProfile(ctx context.Context, in ProfileInput) (User, error) {
	var u User
	_, err := c.do(ctx, http.MethodPut, "/auth/profile", nil, in, &u)
	return u, err
}

// ChangePassword changes the signed-in user's password. It returns the
// server's confirmation message.
func (c *Client) ChangePassword(ctx context.Context, in PasswordChange) (string, error) {
	env, err := c.do(ctx, http.MethodPut, "/auth/change-password", nil, in, nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
