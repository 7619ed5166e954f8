package sqlite

import (
	"database/sql/driver"
	"strings"

	sqlitedriver "modernc.org/sqlite"
)

// LowerFunc is a Unicode-aware replacement for SQLite's LOWER, which only
// folds ASCII letters.
const LowerFunc = "unicode_lower"

func init() {
	sqlitedriver.MustRegisterDeterministicScalarFunction(LowerFunc, 1, unicodeLower)
}

// unicodeLower passes NULL and non-text values through unchanged.
func unicodeLower(_ *sqlitedriver.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}
