package store

import (
	"context"

	"github.com/phrazzld/scry-study/internal/domain"
)

// NoteStore defines the interface for note persistence.
type NoteStore interface {
	// Create inserts a note and assigns note.ID.
	Create(ctx context.Context, note *domain.Note) error

	// GetByID retrieves a note.
	// Returns ErrNoteNotFound if the note does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Note, error)

	// List returns up to limit notes, newest first, restricted to one document
	// when documentID is set.
	List(ctx context.Context, documentID *int64, limit int) ([]domain.Note, error)
}

// DocumentStore defines the interface for document persistence.
type DocumentStore interface {
	// Create inserts a document and assigns doc.ID.
	Create(ctx context.Context, doc *domain.Document) error

	// GetByID retrieves a document.
	// Returns ErrDocumentNotFound if the document does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Document, error)

	// List returns up to limit documents, newest first.
	List(ctx context.Context, limit int) ([]domain.Document, error)
}
