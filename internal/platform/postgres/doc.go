// Package postgres provides the PostgreSQL side of the SQL stores in
// internal/platform/sqlstore: opening a pgx-backed *sql.DB, the Dialect that
// maps pgx errors onto store errors, and the embedded goose migrations.
package postgres
