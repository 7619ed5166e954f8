package domain

import (
	"fmt"
	"strings"
	"time"
)

// Common validation errors for notes and documents
var (
	ErrEmptyNoteTitle     = fmt.Errorf("%w: note title cannot be empty", ErrInvalidInput)
	ErrEmptyDocumentTitle = fmt.Errorf("%w: document title cannot be empty", ErrInvalidInput)
)

// Note is a free-text note, optionally attached to a document. Its body is
// one of the sources preview generation extracts cards from.
type Note struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	DocumentID *int64    `json:"document_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewNote creates a Note with a trimmed title.
func NewNote(title, body string, documentID *int64) (*Note, error) {
	note := &Note{
		Title:      strings.TrimSpace(title),
		Body:       body,
		DocumentID: documentID,
		CreatedAt:  time.Now().UTC(),
	}

	if err := note.Validate(); err != nil {
		return nil, err
	}

	return note, nil
}

// Validate checks if the Note has valid data.
func (n *Note) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrEmptyNoteTitle
	}
	return nil
}

// Document is an uploaded source document. SearchText holds the plain text
// extracted from it; it is empty for scanned PDFs without a text layer.
type Document struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	OriginalName string    `json:"original_name"`
	StoredName   string    `json:"stored_name"`
	Language     string    `json:"language"`
	Pages        int       `json:"pages"`
	DocType      string    `json:"doc_type"`
	SearchText   string    `json:"search_text"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewDocument creates a Document, filling defaults for language and type.
func NewDocument(title, originalName, searchText string, pages int) (*Document, error) {
	doc := &Document{
		Title:        strings.TrimSpace(title),
		OriginalName: originalName,
		StoredName:   originalName,
		Language:     "auto",
		Pages:        pages,
		DocType:      "pdf",
		SearchText:   searchText,
		CreatedAt:    time.Now().UTC(),
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return doc, nil
}

// Validate checks if the Document has valid data.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyDocumentTitle
	}
	return nil
}
