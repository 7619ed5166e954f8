package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// GooseDialect is the goose dialect for the embedded migrations.
const GooseDialect = goose.DialectSQLite3

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the embedded migration files rooted at the migrations directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// connPragmas are applied to every connection the pool opens. Foreign keys
// are off by default in SQLite and the cascade deletes depend on them.
var connPragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

// DSN appends the per-connection pragmas to a path or file: URI. File
// databases additionally run in WAL mode. Timestamps are written in SQLite's
// own text format rather than time.Time.String.
func DSN(url string) string {
	pragmas := connPragmas
	if !IsMemory(url) {
		pragmas = append(pragmas[:len(pragmas):len(pragmas)], "journal_mode(WAL)")
	}

	parts := make([]string, 0, len(pragmas))
	for _, p := range pragmas {
		parts = append(parts, "_pragma="+p)
	}

	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + strings.Join(parts, "&") + "&_time_format=sqlite"
}

// IsMemory reports whether url names an in-memory database.
func IsMemory(url string) bool {
	return strings.Contains(url, ":memory:") || strings.Contains(url, "mode=memory")
}

// Open opens or creates a SQLite database at url and verifies the connection.
// In-memory databases are private to a connection, so the pool is pinned to
// a single connection for them.
func Open(ctx context.Context, url string, maxOpenConns int, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open(DriverName, DSN(url))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if IsMemory(url) {
		maxOpenConns = 1
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	} else {
		db.SetConnMaxLifetime(30 * time.Minute)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxOpenConns)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("database connection established",
		slog.String("driver", "sqlite"),
		slog.Bool("in_memory", IsMemory(url)),
		slog.Int("max_open_conns", maxOpenConns))
	return db, nil
}
