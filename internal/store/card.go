package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
)

// DefaultListLimit is the number of cards ListCards returns when no limit is given.
const DefaultListLimit = 200

// CardFilter narrows a card listing.
type CardFilter struct {
	// Query is matched case-insensitively as a substring of question or answer.
	// An empty query matches every card.
	Query string

	// DocumentID restricts the listing to one document when set.
	DocumentID *int64

	// Limit caps the number of rows. Zero or negative means DefaultListLimit.
	Limit int
}

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create inserts a card and assigns card.ID from the database.
	// It does not create the SRS row; callers pair it with SRSStore.Create
	// inside one transaction.
	//
	// Usage example:
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       id, err := cardStore.WithTx(tx).Create(ctx, card)
	//       ...
	//       return srsStore.WithTx(tx).Create(ctx, state)
	//   })
	Create(ctx context.Context, card *domain.Card) (int64, error)

	// FindID returns the id of the card with the exact dedup key.
	// A key without a document only matches cards whose document_id is NULL.
	// Returns ErrCardNotFound if no card matches.
	FindID(ctx context.Context, key domain.DedupKey) (int64, error)

	// ExistingKeys returns the dedup keys of every card stored under any of the
	// given document ids in a single query. A nil entry selects the
	// document-less partition.
	ExistingKeys(ctx context.Context, documentIDs []*int64) (map[domain.DedupKey]struct{}, error)

	// Update overwrites question, answer and document id of a card.
	// Returns ErrCardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Card) error

	// Delete removes a card. SRS state and reviews go with it through
	// ON DELETE CASCADE.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id int64) error

	// GetByID retrieves a card joined with its document title and schedule.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id int64) (*domain.CardWithSchedule, error)

	// List returns cards ordered by due date ascending, box ascending, then id
	// descending.
	List(ctx context.Context, filter CardFilter) ([]domain.CardWithSchedule, error)

	// GetNextDue returns the card due on or before today, ordered by due date
	// ascending, box ascending, then id ascending.
	// Returns ErrCardNotFound if nothing is due.
	GetNextDue(ctx context.Context, documentID *int64, today time.Time) (*domain.CardWithSchedule, error)

	// GetRandom returns a uniformly random card from the scope.
	// Returns ErrCardNotFound if the scope holds no cards.
	GetRandom(ctx context.Context, documentID *int64) (*domain.CardWithSchedule, error)

	// RandomAnswers returns up to limit answers of random cards other than
	// excludeID, restricted to one document when documentID is set.
	RandomAnswers(ctx context.Context, excludeID int64, documentID *int64, limit int) ([]string, error)

	// WithTx returns a new CardStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CardStore
}
