// Package sqlstore implements the internal/store interfaces on database/sql.
//
// Queries are written once with "?" placeholders and portable SQL
// (RETURNING, RANDOM(), NULLS FIRST). Engine differences go through a Dialect:
// internal/platform/postgres and internal/platform/sqlite each provide one,
// covering placeholder syntax, how calendar dates are bound, and how driver
// errors map onto store errors.
package sqlstore
