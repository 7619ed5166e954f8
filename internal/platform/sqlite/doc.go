// Package sqlite provides the SQLite side of the SQL stores in
// internal/platform/sqlstore, backed by the pure-Go modernc.org/sqlite driver.
// It is the default engine and the one the store tests run against.
package sqlite
