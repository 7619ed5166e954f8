// Package migrate applies the embedded goose migrations of a database engine
// and reports what it did through slog.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

// TableName is the name of the table used by goose to track migrations.
const TableName = "schema_migrations"

// Commands lists the operations Run accepts.
var Commands = []string{"up", "down", "status", "version"}

// ErrUnknownCommand is returned by Run for a command outside Commands.
var ErrUnknownCommand = errors.New("unknown migration command")

// Status describes one migration file and whether it has been applied.
type Status struct {
	Version   int64
	Path      string
	Applied   bool
	AppliedAt time.Time
}

// Runner applies one engine's migrations to a database.
type Runner struct {
	provider *goose.Provider
	logger   *slog.Logger
}

// New creates a Runner for db. dialect names the goose dialect and fsys holds
// the migration files at its root.
func New(db *sql.DB, dialect goose.Dialect, fsys fs.FS, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}

	versions, err := database.NewStore(dialect, TableName)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration store: %w", err)
	}

	provider, err := goose.NewProvider("", db, fsys, goose.WithStore(versions))
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	return &Runner{
		provider: provider,
		logger: logger.With(
			slog.String("component", "migrations"),
			slog.String("correlation_id", uuid.New().String()),
			slog.String("dialect", string(dialect)),
		),
	}, nil
}

// Up applies every pending migration.
func (r *Runner) Up(ctx context.Context) error {
	start := time.Now()
	results, err := r.provider.Up(ctx)
	for _, res := range results {
		r.logResult(res)
	}
	if err != nil {
		r.logger.Error("migration up failed",
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		return fmt.Errorf("migration command 'up' failed: %w", err)
	}

	r.logger.Info("migrations applied",
		slog.Int("count", len(results)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}

// Down rolls back the most recent migration.
func (r *Runner) Down(ctx context.Context) error {
	res, err := r.provider.Down(ctx)
	if res != nil {
		r.logResult(res)
	}
	if err != nil {
		r.logger.Error("migration down failed", slog.String("error", err.Error()))
		return fmt.Errorf("migration command 'down' failed: %w", err)
	}
	return nil
}

// Status lists every known migration in version order.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	statuses, err := r.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("migration command 'status' failed: %w", err)
	}

	out := make([]Status, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, Status{
			Version:   s.Source.Version,
			Path:      s.Source.Path,
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		})
	}
	return out, nil
}

// Version returns the highest applied migration version, 0 on a clean database.
func (r *Runner) Version(ctx context.Context) (int64, error) {
	v, err := r.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("migration command 'version' failed: %w", err)
	}
	return v, nil
}

// Run dispatches a command by name and logs status and version output.
func (r *Runner) Run(ctx context.Context, command string) error {
	switch command {
	case "up":
		return r.Up(ctx)
	case "down":
		return r.Down(ctx)
	case "status":
		statuses, err := r.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			r.logger.Info("migration status",
				slog.Int64("version", s.Version),
				slog.String("file", s.Path),
				slog.Bool("applied", s.Applied))
		}
		return nil
	case "version":
		v, err := r.Version(ctx)
		if err != nil {
			return err
		}
		r.logger.Info("current database migration version", slog.Int64("version", v))
		return nil
	default:
		return fmt.Errorf("%w: %s (expected one of %v)", ErrUnknownCommand, command, Commands)
	}
}

func (r *Runner) logResult(res *goose.MigrationResult) {
	attrs := []any{
		slog.String("direction", res.Direction),
		slog.Int64("duration_ms", res.Duration.Milliseconds()),
	}
	if res.Source != nil {
		attrs = append(attrs,
			slog.Int64("version", res.Source.Version),
			slog.String("file", res.Source.Path))
	}
	if res.Error != nil {
		r.logger.Error("migration failed", append(attrs, slog.String("error", res.Error.Error()))...)
		return
	}
	r.logger.Info("migration applied", attrs...)
}
