package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/momotired/servo-msg-demo/internal/config"
)

// EnsureDatabase creates the target database when it does not exist yet.
// It connects through the postgres maintenance database because the target
// may not be there on a fresh deployment.
func EnsureDatabase(ctx context.Context, cfg config.PostgresConfig) error {
	admin, err := sql.Open("pgx", cfg.MaintenanceDSN())
	if err != nil {
		return err
	}
	defer admin.Close()

	var exists bool
	err = admin.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBName).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check database %s: %w", cfg.DBName, err)
	}
	if exists {
		return nil
	}

	// CREATE DATABASE cannot be parameterized and must run outside a
	// transaction.
	stmt := fmt.Sprintf("CREATE DATABASE %s", pgx.Identifier{cfg.DBName}.Sanitize())
	if _, err := admin.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create database %s: %w", cfg.DBName, err)
	}
	return nil
}

// Connect initializes a sql.DB connection pool using pgx. Requests beyond
// the pool bound wait for a free connection rather than fail.
func Connect(cfg config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
