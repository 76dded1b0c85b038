package api

import (
	"context"
	"fmt"
	"net/http"
)

// ListUsers returns all users. Super admin only.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	_, err := c.do(ctx, http.MethodGet, "/users", nil, nil, &users)
	return users, err
}

// GetUser returns one user.
func (c *Client) GetUser(ctx context.Context, id int64) (User, error) {
	var u User
	_, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, nil, &u)
	return u, err
}

// CreateUser creates a user.
func (c *Client) CreateUser(ctx context.Context, in UserInput) (User, error) {
	var u User
	_, err := c.do(ctx, http.MethodPost, "/users", nil, in, &u)
	return u, err
}

// UpdateUser changes the non-empty fields of in.
func (c *Client) UpdateUser(ctx context.Context, id int64, in UserInput) (User, error) {
	var u User
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), nil, in, &u)
	return u, err
}

// DeleteUser deletes a user.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil, nil)
	return err
}

// ResetPassword sets a new password for another user.
func (c *Client) ResetPassword(ctx context.Context, id int64, newPassword string) error {
	body := struct {
		NewPassword string `json:"newPassword"`
	}{NewPassword: newPassword}
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d/reset-password", id), nil, body, nil)
	return err
}
