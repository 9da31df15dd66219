package user

import (
	"context"

	"github.com/go-faster/errors"
	"golang.org/x/crypto/bcrypt"
)

// Service handles account registration and credential verification.
type Service struct {
	users Repository
}

// NewService creates a user Service over the given repository.
func NewService(users Repository) *Service {
	return &Service{users: users}
}

// Register creates a non-admin account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (*User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	u := &User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, errors.Wrap(err, "create user")
	}

	return u, nil
}

// Authenticate verifies a username/password pair. A missing user and a
// wrong password both report ErrInvalidCredentials so the response does not
// leak which usernames exist.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "lookup user")
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}
