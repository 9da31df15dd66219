// Command seed-db runs migrations and provisions the admin account used by
// the order dashboard.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/cardhaus/preorder-api/internal/storage/postgres"
)

func main() {
	var (
		databaseURL   string
		adminUsername string
		adminPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&adminUsername, "admin-username", "admin", "admin account username")
	flag.StringVar(&adminPassword, "admin-password", "", "admin account password (or PREORDER_ADMIN_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminPassword == "" {
		adminPassword = os.Getenv("PREORDER_ADMIN_PASSWORD")
	}
	if adminPassword == "" {
		slog.Error("admin password is required: set --admin-password or PREORDER_ADMIN_PASSWORD")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, adminUsername, adminPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, username, password string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedAdmin(ctx, pool, username, password); err != nil {
		return errors.Wrap(err, "seed admin")
	}

	return nil
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool, username, password string) error {
	slog.Info("upserting admin account", slog.String("username", username))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}

	const upsertAdminSQL = `
INSERT INTO users (username, password_hash, is_admin)
VALUES ($1, $2, TRUE)
ON CONFLICT (username) DO UPDATE
SET password_hash = EXCLUDED.password_hash, is_admin = TRUE`

	if _, err := pool.Exec(ctx, upsertAdminSQL, username, string(hash)); err != nil {
		return errors.Wrap(err, "upsert admin user")
	}

	slog.Info("upserted admin account", slog.String("username", username))

	return nil
}
