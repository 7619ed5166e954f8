package testdb

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/phrazzld/scry-study/internal/platform/migrate"
	"github.com/phrazzld/scry-study/internal/platform/postgres"
	"github.com/phrazzld/scry-study/internal/platform/sqlite"
	"github.com/phrazzld/scry-study/internal/platform/sqlstore"
	"github.com/stretchr/testify/require"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 5 * time.Second

// PostgresURLEnv names the variable holding the integration database URL.
const PostgresURLEnv = "SCRY_TEST_DATABASE_URL"

// quietLogger discards setup logs so test output stays readable.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Open returns a migrated in-memory SQLite database that is closed when the
// test ends.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := sqlite.Open(ctx, ":memory:", 1, quietLogger())
	require.NoError(t, err, "Failed to open in-memory database")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
	})

	runner, err := migrate.New(db, sqlite.GooseDialect, sqlite.Migrations(), quietLogger())
	require.NoError(t, err, "Failed to create migration runner")
	require.NoError(t, runner.Up(ctx), "Failed to run migrations")

	return db
}

// Dialect returns the dialect matching databases from Open.
func Dialect() sqlstore.Dialect {
	return sqlite.Dialect{}
}

// OpenPostgres returns a migrated connection to the integration database, or
// skips the test when PostgresURLEnv is unset.
func OpenPostgres(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv(PostgresURLEnv)
	if url == "" {
		t.Skipf("%s not set - skipping integration test", PostgresURLEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := postgres.Open(ctx, url, 4, quietLogger())
	require.NoError(t, err, "Failed to connect to integration database")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
	})

	runner, err := migrate.New(db, postgres.GooseDialect, postgres.Migrations(), quietLogger())
	require.NoError(t, err, "Failed to create migration runner")
	require.NoError(t, runner.Up(ctx), "Failed to run migrations")

	return db
}

// WithTx runs fn inside a transaction that is rolled back afterwards, so
// tests sharing the integration database leave no rows behind.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		err := tx.Rollback()
		// sql.ErrTxDone is expected if tx is already committed or rolled back
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}
