package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidUser        = errors.New("invalid user data")
)

// User is an account as persisted by the server.
type User struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins the first and last name, skipping empty parts.
func (u *User) FullName() string {
	return strings.TrimSpace(strings.Join([]string{u.FirstName, u.LastName}, " "))
}

// Profile returns the public view of u.
func (u *User) Profile() *UserProfile {
	return &UserProfile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		IsActive:  u.Active,
		CreatedAt: u.CreatedAt,
	}
}

// UserProfile is the identity carried by a client session. It is replaced
// wholesale, never patched.
type UserProfile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	FullName  string    `json:"fullName,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// DisplayName prefers the full name and falls back to the username.
func (p *UserProfile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.FullName != "" {
		return p.FullName
	}
	return p.Username
}
