package transport

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tasktrack/tasktrack/internal/core/ports"
)

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type profileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

var _ ports.AuthGateway = (*Client)(nil)

// Login posts the credentials; the session cookie lands in the jar.
func (c *Client) Login(ctx context.Context, usernameOrEmail, password string) (*ports.AuthReply, error) {
	return c.auth(ctx, http.MethodPost, loginRequest{UsernameOrEmail: usernameOrEmail, Password: password}, "auth", "login")
}

// Register creates an account. The server opens a session for it.
func (c *Client) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthReply, error) {
	body := registerRequest{
		Username:  in.Username,
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	return c.auth(ctx, http.MethodPost, body, "auth", "register")
}

// Logout ends the server session. Only transport failures are reported.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodPost, nil, "auth", "logout"); err != nil {
		return err
	}
	return nil
}

// CurrentSession asks the server who the cookie belongs to.
func (c *Client) CurrentSession(ctx context.Context) (*ports.AuthReply, error) {
	return c.auth(ctx, http.MethodGet, nil, "auth", "me")
}

// UpdateProfile replaces the editable profile fields.
func (c *Client) UpdateProfile(ctx context.Context, in ports.ProfileInput) (*ports.AuthReply, error) {
	body := profileRequest{FirstName: in.FirstName, LastName: in.LastName, Email: in.Email}
	return c.auth(ctx, http.MethodPut, body, "auth", "profile")
}

// ChangePassword verifies current and replaces it with next.
func (c *Client) ChangePassword(ctx context.Context, current, next string) (*ports.AuthReply, error) {
	body := changePasswordRequest{CurrentPassword: current, NewPassword: next}
	return c.auth(ctx, http.MethodPut, body, "auth", "change-password")
}

// CheckUsername reports whether username is free.
func (c *Client) CheckUsername(ctx context.Context, username string) (bool, error) {
	return c.available(ctx, "check-username", username)
}

// CheckEmail reports whether email is free.
func (c *Client) CheckEmail(ctx context.Context, email string) (bool, error) {
	return c.available(ctx, "check-email", email)
}

func (c *Client) auth(ctx context.Context, method string, body any, segments ...string) (*ports.AuthReply, error) {
	r, err := c.do(ctx, method, body, segments...)
	if err != nil {
		return nil, err
	}
	return &ports.AuthReply{
		StatusCode: r.status,
		Success:    r.env.Success != nil && *r.env.Success,
		Message:    r.env.message(),
		User:       r.env.User,
	}, nil
}

func (c *Client) available(ctx context.Context, endpoint, value string) (bool, error) {
	r, err := c.do(ctx, http.MethodGet, nil, "auth", endpoint, url.PathEscape(value))
	if err != nil {
		return false, err
	}
	if !r.ok() {
		return false, statusErr(r)
	}
	if r.env.Available == nil {
		return false, fmt.Errorf("%s: response has no availability flag", endpoint)
	}
	return *r.env.Available, nil
}
