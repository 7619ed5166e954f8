package domain

import "strings"

// DedupKey identifies a card by its (document, question, answer) triple.
//
// A card without a document lives in its own partition: HasDocument is false
// and DocumentID is zero, so two document-less cards with identical text share
// a key while never colliding with a card that carries a concrete document id.
// The struct is comparable and can be used directly as a map key.
type DedupKey struct {
	HasDocument bool
	DocumentID  int64
	Question    string
	Answer      string
}

// NewDedupKey builds a key from an optional document id and trimmed text.
func NewDedupKey(documentID *int64, question, answer string) DedupKey {
	key := DedupKey{
		Question: strings.TrimSpace(question),
		Answer:   strings.TrimSpace(answer),
	}
	if documentID != nil {
		key.HasDocument = true
		key.DocumentID = *documentID
	}
	return key
}

// DocumentRef returns the key's document id as a pointer, nil for the
// document-less partition.
func (k DedupKey) DocumentRef() *int64 {
	if !k.HasDocument {
		return nil
	}
	id := k.DocumentID
	return &id
}
