package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cardhaus/preorder-api/internal/domain/user"
)

const createUserSQL = `INSERT INTO users (username, password_hash, is_admin)
	VALUES ($1, $2, $3)
	RETURNING id`

const getUserByUsernameSQL = `SELECT id, username, password_hash, is_admin
	FROM users WHERE username = $1`

const getUserByIDSQL = `SELECT id, username, password_hash, is_admin
	FROM users WHERE id = $1`

// uniqueViolation is the PostgreSQL error code for unique constraint breaches.
const uniqueViolation = "23505"

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create persists a new user. A unique violation on the username column is
// mapped to user.ErrUsernameTaken.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	err := r.pool.QueryRow(ctx, createUserSQL, u.Username, u.PasswordHash, u.IsAdmin).Scan(&u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrUsernameTaken
		}
		return fmt.Errorf("creating user %q: %w", u.Username, err)
	}
	return nil
}

// GetByUsername returns the user with the given username, mapping
// pgx.ErrNoRows to user.ErrNotFound.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, getUserByUsernameSQL, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("getting user %q: %w", username, err)
	}
	return u, nil
}

// GetByID returns the user with the given id, mapping pgx.ErrNoRows to
// user.ErrNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, getUserByIDSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("getting user %d: %w", id, err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin); err != nil {
		return nil, err
	}
	return &u, nil
}
