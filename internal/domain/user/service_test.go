package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	byName map[string]*User
	nextID int64
}

func newMemRepo() *memRepo {
	return &memRepo{byName: make(map[string]*User)}
}

func (m *memRepo) Create(_ context.Context, u *User) error {
	if _, ok := m.byName[u.Username]; ok {
		return ErrUsernameTaken
	}
	m.nextID++
	u.ID = m.nextID
	clone := *u
	m.byName[u.Username] = &clone
	return nil
}

func (m *memRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	u, ok := m.byName[username]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *memRepo) GetByID(_ context.Context, id int64) (*User, error) {
	for _, u := range m.byName {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a non-admin account with a hashed password", func(t *testing.T) {
		svc := NewService(newMemRepo())

		u, err := svc.Register(ctx, "alice", "s3cret")
		require.NoError(t, err)

		assert.EqualValues(t, 1, u.ID)
		assert.False(t, u.IsAdmin)
		assert.NotEqual(t, "s3cret", u.PasswordHash, "password must not be stored in plaintext")
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		svc := NewService(newMemRepo())

		_, err := svc.Register(ctx, "alice", "s3cret")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "alice", "other")
		require.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("blank credentials are rejected", func(t *testing.T) {
		svc := NewService(newMemRepo())

		_, err := svc.Register(ctx, "", "s3cret")
		require.ErrorIs(t, err, ErrMissingCredentials)

		_, err = svc.Register(ctx, "alice", "")
		require.ErrorIs(t, err, ErrMissingCredentials)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo())

	_, err := svc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)

	t.Run("valid credentials return the user", func(t *testing.T) {
		u, err := svc.Authenticate(ctx, "alice", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username)
	})

	t.Run("wrong password and unknown user fail the same way", func(t *testing.T) {
		_, wrongPass := svc.Authenticate(ctx, "alice", "nope")
		_, unknown := svc.Authenticate(ctx, "bob", "s3cret")

		require.ErrorIs(t, wrongPass, ErrInvalidCredentials)
		require.ErrorIs(t, unknown, ErrInvalidCredentials)
	})
}
