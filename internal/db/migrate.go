package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// A migration is one idempotent schema step. Versions are applied in order
// and recorded in schema_migrations, so re-running the list against an
// already migrated database is a no-op.
type migration struct {
	version int
	name    string
	apply   func(ctx context.Context, tx *sql.Tx) error
}

var migrations = []migration{
	{
		version: 1,
		name:    "create messages table",
		apply: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS messages (
            id BIGSERIAL PRIMARY KEY,
            "user" VARCHAR(50) NOT NULL,
            content TEXT NOT NULL,
            "time" TIMESTAMPTZ NOT NULL,
            is_visible BOOLEAN NOT NULL DEFAULT TRUE
        )`)
			return err
		},
	},
	{
		// Tables created before moderation existed lack is_visible.
		// Checked by introspection so in-place upgrades need no manual
		// step; pre-existing rows stay visible.
		version: 2,
		name:    "add is_visible column",
		apply: func(ctx context.Context, tx *sql.Tx) error {
			var exists bool
			err := tx.QueryRowContext(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM information_schema.columns
            WHERE table_schema = current_schema()
              AND table_name = 'messages'
              AND column_name = 'is_visible'
        )`).Scan(&exists)
			if err != nil {
				return err
			}
			if exists {
				return nil
			}
			_, err = tx.ExecContext(ctx, `ALTER TABLE messages ADD COLUMN is_visible BOOLEAN NOT NULL DEFAULT TRUE`)
			return err
		},
	},
}

// RunMigrations applies the migration list sequentially.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	return runMigrations(ctx, database, migrations)
}

func runMigrations(ctx context.Context, database *sql.DB, list []migration) error {
	if err := ensureMigrationTable(ctx, database); err != nil {
		return err
	}

	for _, m := range list {
		applied, err := isApplied(ctx, database, m.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		if err := applyMigration(ctx, database, m); err != nil {
			return fmt.Errorf("apply migration %d (%s): %w", m.version, m.name, err)
		}
	}

	return nil
}

// The bookkeeping table carries no defaults; applied_at is always written
// explicitly by applyMigration.
func ensureMigrationTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS schema_migrations (
            version BIGINT PRIMARY KEY,
            applied_at TIMESTAMPTZ NOT NULL
        )`)
	return err
}

func isApplied(ctx context.Context, db *sql.DB, version int) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version=$1)", version).Scan(&exists)
	return exists, err
}

func applyMigration(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	if err := m.apply(ctx, tx); err != nil {
		tx.Rollback()
		return err
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations(version, applied_at) VALUES($1, $2)", m.version, time.Now().UTC()); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
