package sqlite

import (
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/sqlstore"
)

// Dialect adapts the SQL stores to SQLite.
type Dialect struct{}

// Ensure Dialect implements sqlstore.Dialect interface
var _ sqlstore.Dialect = Dialect{}

// Name implements sqlstore.Dialect.Name
func (Dialect) Name() string { return "sqlite" }

// Rebind implements sqlstore.Dialect.Rebind. SQLite takes "?" as is.
func (Dialect) Rebind(query string) string { return query }

// DateValue implements sqlstore.Dialect.DateValue. due_at is stored as
// YYYY-MM-DD text so that comparisons order lexically by date.
func (Dialect) DateValue(t time.Time) any { return domain.FormatDate(t) }

// Lower implements sqlstore.Dialect.Lower with the registered Unicode fold.
func (Dialect) Lower(expr string) string { return LowerFunc + "(" + expr + ")" }

// MapError implements sqlstore.Dialect.MapError
func (Dialect) MapError(err error) error { return MapError(err) }
