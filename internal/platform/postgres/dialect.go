package postgres

import (
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/sqlstore"
)

// Dialect adapts the SQL stores to PostgreSQL.
type Dialect struct{}

// Ensure Dialect implements sqlstore.Dialect interface
var _ sqlstore.Dialect = Dialect{}

// Name implements sqlstore.Dialect.Name
func (Dialect) Name() string { return "postgres" }

// Rebind implements sqlstore.Dialect.Rebind using $n placeholders.
func (Dialect) Rebind(query string) string { return sqlstore.RebindDollar(query) }

// DateValue implements sqlstore.Dialect.DateValue. due_at is a DATE column
// and pgx encodes time.Time into it directly.
func (Dialect) DateValue(t time.Time) any { return domain.DateOf(t) }

// Lower implements sqlstore.Dialect.Lower
func (Dialect) Lower(expr string) string { return "LOWER(" + expr + ")" }

// MapError implements sqlstore.Dialect.MapError
func (Dialect) MapError(err error) error { return MapError(err) }
