package service

import (
	"context"
	"errors"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/store"
)

// DedupIndex answers whether a (document, question, answer) triple is
// already stored. A nil document id is its own partition.
type DedupIndex struct {
	cards store.CardStore
}

// NewDedupIndex creates a DedupIndex over cards.
func NewDedupIndex(cards store.CardStore) *DedupIndex {
	if cards == nil {
		panic("cards cannot be nil")
	}
	return &DedupIndex{cards: cards}
}

// Exists reports whether a card with exactly this triple exists. The text is
// trimmed before matching.
func (d *DedupIndex) Exists(ctx context.Context, documentID *int64, question, answer string) (bool, error) {
	_, err := d.Lookup(ctx, domain.NewDedupKey(documentID, question, answer))
	if errors.Is(err, store.ErrCardNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Lookup returns the id of the card matching key, or store.ErrCardNotFound.
func (d *DedupIndex) Lookup(ctx context.Context, key domain.DedupKey) (int64, error) {
	return d.cards.FindID(ctx, key)
}

// ExistingKeys returns every stored key under the given document ids in one
// query. A nil entry includes the document-less partition.
func (d *DedupIndex) ExistingKeys(ctx context.Context, documentIDs []*int64) (map[domain.DedupKey]struct{}, error) {
	return d.cards.ExistingKeys(ctx, documentIDs)
}
