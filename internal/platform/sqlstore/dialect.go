package sqlstore

import (
	"strconv"
	"strings"
	"time"
)

// Dialect captures the per-engine differences the stores need.
type Dialect interface {
	// Name identifies the engine, e.g. "postgres" or "sqlite".
	Name() string

	// Rebind rewrites "?" placeholders into the engine's syntax.
	Rebind(query string) string

	// DateValue converts a calendar date into a bind argument for a due_at column.
	DateValue(t time.Time) any

	// Lower wraps a SQL expression in a case fold that handles non-ASCII text.
	Lower(expr string) string

	// MapError translates driver errors into store errors, wrapping the original.
	MapError(err error) error
}

// RebindDollar rewrites "?" placeholders into "$1", "$2", ... Question marks
// inside single-quoted literals are left alone.
func RebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case ch == '\'':
			inQuote = !inQuote
			b.WriteByte(ch)
		case ch == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// placeholders returns "?, ?, ?" with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
