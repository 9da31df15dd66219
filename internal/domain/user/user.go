// Package user holds administrative account records and credential checks.
package user

import (
	"context"

	"github.com/go-faster/errors"
)

// Sentinel errors for account operations.
var (
	ErrNotFound           = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMissingCredentials = errors.New("username and password are required")
)

// User is an account. Only accounts with IsAdmin set may call the admin
// order routes. PasswordHash is a bcrypt hash, never the plaintext.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	IsAdmin      bool
}

// Repository defines persistence operations for users.
type Repository interface {
	// Create persists a new user and fills in its assigned ID. Returns
	// ErrUsernameTaken when the username is already in use.
	Create(ctx context.Context, u *User) error
	// GetByUsername returns the user with the given username, or ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*User, error)
	// GetByID returns the user with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*User, error)
}
