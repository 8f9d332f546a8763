package db

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/parakeetlabs/skillet/pkg/logger"
)

// Migration is a single forward-only schema migration.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// RunMigrations applies the given migrations to the database in
// version order, skipping those already recorded. Each migration runs
// in its own transaction.
func RunMigrations(ctx context.Context, database *sqlx.DB, migrations []Migration) error {
	_, err := database.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return errors.Wrap(err, "failed to create schema_migrations table")
	}

	for _, migration := range migrations {
		var count int
		if err := database.GetContext(ctx, &count,
			"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", migration.Version); err != nil {
			return errors.Wrapf(err, "failed to check migration %d", migration.Version)
		}
		if count > 0 {
			continue
		}

		tx, err := database.BeginTxx(ctx, nil)
		if err != nil {
			return errors.Wrapf(err, "failed to begin migration %d", migration.Version)
		}

		if _, err := tx.ExecContext(ctx, migration.SQL); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "failed to apply migration %d (%s)", migration.Version, migration.Name)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			migration.Version, migration.Name); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "failed to record migration %d", migration.Version)
		}

		if err := tx.Commit(); err != nil {
			return errors.Wrapf(err, "failed to commit migration %d", migration.Version)
		}

		logger.G(ctx).WithField("version", migration.Version).
			WithField("name", migration.Name).
			Debug("applied migration")
	}

	return nil
}
