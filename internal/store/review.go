package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/scry-study/internal/domain"
)

// ReviewStore defines the interface for the append-only review log.
type ReviewStore interface {
	// Create appends a review and assigns review.ID.
	// Returns ErrCardNotFound if the card does not exist.
	Create(ctx context.Context, review *domain.Review) error

	// WithTx returns a new ReviewStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ReviewStore
}
