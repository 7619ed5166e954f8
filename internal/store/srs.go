package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/scry-study/internal/domain"
)

// SRSStore defines the interface for per-card Leitner state persistence.
type SRSStore interface {
	// Create inserts the SRS row for a card.
	// Returns ErrCardNotFound if the card does not exist.
	Create(ctx context.Context, state *domain.SRSState) error

	// Get retrieves the SRS row of a card.
	// Returns ErrSRSStateNotFound if the row does not exist.
	Get(ctx context.Context, cardID int64) (*domain.SRSState, error)

	// Update overwrites box, due date, last review time and streak.
	// Returns ErrSRSStateNotFound if the row does not exist.
	Update(ctx context.Context, state *domain.SRSState) error

	// WithTx returns a new SRSStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) SRSStore
}
