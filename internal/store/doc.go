// Package store declares the persistence contracts used by the services:
// cards, SRS state, reviews, stats queries, content and settings. The SQL
// implementation in internal/platform/sqlstore serves both database engines.
package store
