package api

import (
	"context"
	"net/url"

	"github.com/google/uuid"
)

// Token is the response of the login endpoint.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// User is the authenticated user's profile, replaced wholesale on every
// fetch and never merged field-by-field.
type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
}

// UserUpdate is a partial update of the current user's profile.
type UserUpdate struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
	FullName *string `json:"full_name,omitempty"`
}

// Login exchanges credentials for an access token. The endpoint is OAuth2
// password-flow compatible, so credentials go form-encoded under
// username/password.
func (c *Client) Login(ctx context.Context, email, password string) (*Token, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var token Token
	if err := c.postForm(ctx, "/auth/login", form, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}
	var user User
	if err := c.do(ctx, "POST", "/auth/register", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Me fetches the profile of the user owning the current token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateMe updates the current user's profile.
func (c *Client) UpdateMe(ctx context.Context, req UserUpdate) (*User, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}
	var user User
	if err := c.do(ctx, "PUT", "/auth/me", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
