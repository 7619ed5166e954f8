package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/platform/migrate"
	"github.com/phrazzld/scry-study/internal/platform/postgres"
	"github.com/phrazzld/scry-study/internal/platform/sqlite"
	"github.com/phrazzld/scry-study/internal/platform/sqlstore"
)

// database bundles an open connection pool with the engine specifics the
// stores and the migration runner need.
type database struct {
	db      *sql.DB
	dialect sqlstore.Dialect
	cfg     config.DatabaseConfig
	logger  *slog.Logger
}

// openDatabase connects to the engine selected by cfg.Driver.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*database, error) {
	var (
		db      *sql.DB
		dialect sqlstore.Dialect
		err     error
	)

	switch cfg.Driver {
	case "postgres":
		db, err = postgres.Open(ctx, cfg.URL, cfg.MaxOpenConns, logger)
		dialect = postgres.Dialect{}
	case "sqlite":
		db, err = sqlite.Open(ctx, cfg.URL, cfg.MaxOpenConns, logger)
		dialect = sqlite.Dialect{}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	return &database{db: db, dialect: dialect, cfg: cfg, logger: logger}, nil
}

// migrator returns a migration runner for the embedded migrations of the
// connected engine.
func (d *database) migrator() (*migrate.Runner, error) {
	switch d.cfg.Driver {
	case "postgres":
		return migrate.New(d.db, postgres.GooseDialect, postgres.Migrations(), d.logger)
	default:
		return migrate.New(d.db, sqlite.GooseDialect, sqlite.Migrations(), d.logger)
	}
}

// migrateUp applies pending migrations.
func (d *database) migrateUp(ctx context.Context) error {
	runner, err := d.migrator()
	if err != nil {
		return err
	}
	if err := runner.Up(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func (d *database) close() {
	if err := d.db.Close(); err != nil {
		d.logger.Error("error closing database connection", slog.String("error", err.Error()))
	}
}
