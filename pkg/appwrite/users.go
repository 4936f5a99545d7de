package appwrite

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// User is the subset of the Appwrite user record the bridge cares about.
type User struct {
	ID            string `json:"$id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	EmailVerified bool   `json:"emailVerification"`
}

type userList struct {
	Total int    `json:"total"`
	Users []User `json:"users"`
}

// GetUser fetches a user by its Appwrite id. Requires an API key.
// Returns an error wrapping ErrNotFound when no such user exists.
func (c *Client) GetUser(ctx context.Context, id string) (User, error) {
	var user User
	err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &user, nil)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// SearchUserByEmail finds the user whose email matches the given address.
// The Appwrite search endpoint returns fuzzy matches, so the exact match is
// selected client-side with a case-insensitive comparison. Requires an API
// key. Returns an error wrapping ErrNotFound when no exact match exists.
func (c *Client) SearchUserByEmail(ctx context.Context, email string) (User, error) {
	var list userList
	err := c.do(ctx, http.MethodGet, "/users?search="+url.QueryEscape(email), nil, &list, nil)
	if err != nil {
		return User{}, err
	}

	for _, u := range list.Users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, fmt.Errorf("%w: no user with email %s", ErrNotFound, email)
}

// CreateUser creates a user with the given email and password, using the
// email as the display name. Requires an API key. When the user already
// exists the returned error wraps ErrAlreadyExists; callers treat that as
// non-fatal.
func (c *Client) CreateUser(ctx context.Context, email, password string) (string, error) {
	body := map[string]any{
		"userId":   uuid.NewString(),
		"email":    email,
		"password": password,
		"name":     email,
	}
	var user User
	if err := c.do(ctx, http.MethodPost, "/users", body, &user, nil); err != nil {
		return "", err
	}
	return user.ID, nil
}

// UpdatePassword sets a new password on the user. Requires an API key.
func (c *Client) UpdatePassword(ctx context.Context, id, password string) error {
	body := map[string]any{"password": password}
	return c.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(id)+"/password", body, nil, nil)
}

// UpdateEmailVerification flips the email-verification flag on the user.
// Requires an API key.
func (c *Client) UpdateEmailVerification(ctx context.Context, id string, verified bool) error {
	body := map[string]any{"emailVerification": verified}
	return c.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(id)+"/verification", body, nil, nil)
}
