package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

// NoteStore implements the store.NoteStore interface on database/sql.
type NoteStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewNoteStore creates a new SQL implementation of the NoteStore interface.
func NewNoteStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *NoteStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if dialect == nil {
		panic("dialect cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &NoteStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "note_store")),
	}
}

// Ensure NoteStore implements store.NoteStore interface
var _ store.NoteStore = (*NoteStore)(nil)

// Create implements store.NoteStore.Create
func (s *NoteStore) Create(ctx context.Context, note *domain.Note) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := note.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO notes (title, body, document_id, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		s.dialect.Rebind(query),
		note.Title,
		note.Body,
		note.DocumentID,
		note.CreatedAt.UTC(),
	).Scan(&note.ID)
	if err != nil {
		log.Error("failed to create note", slog.String("error", err.Error()))
		return store.NewStoreError("note", "create", s.dialect.MapError(err))
	}

	log.Debug("note created", slog.Int64("note_id", note.ID))
	return nil
}

// GetByID implements store.NoteStore.GetByID
func (s *NoteStore) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT id, title, body, document_id, created_at FROM notes WHERE id = ?`
	note, err := scanNote(s.db.QueryRowContext(ctx, s.dialect.Rebind(query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoteNotFound
		}
		log.Error("failed to get note", slog.String("error", err.Error()), slog.Int64("note_id", id))
		return nil, s.dialect.MapError(err)
	}
	return note, nil
}

// List implements store.NoteStore.List
func (s *NoteStore) List(ctx context.Context, documentID *int64, limit int) ([]domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	notes := make([]domain.Note, 0)
	if limit <= 0 {
		return notes, nil
	}

	query := `SELECT id, title, body, document_id, created_at FROM notes`
	var args []any
	if documentID != nil {
		query += ` WHERE document_id = ?`
		args = append(args, *documentID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		log.Error("failed to list notes", slog.String("error", err.Error()))
		return nil, s.dialect.MapError(err)
	}
	defer closeRows(log, rows)

	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, s.dialect.MapError(err)
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, s.dialect.MapError(err)
	}
	return notes, nil
}

func scanNote(row rowScanner) (*domain.Note, error) {
	var (
		note       domain.Note
		documentID sql.NullInt64
		createdAt  any
	)
	if err := row.Scan(&note.ID, &note.Title, &note.Body, &documentID, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if note.CreatedAt, err = toTime(createdAt); err != nil {
		return nil, fmt.Errorf("note %d created_at: %w", note.ID, err)
	}
	note.DocumentID = int64Ptr(documentID)
	return &note, nil
}

// DocumentStore implements the store.DocumentStore interface on database/sql.
type DocumentStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewDocumentStore creates a new SQL implementation of the DocumentStore interface.
func NewDocumentStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *DocumentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if dialect == nil {
		panic("dialect cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DocumentStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "document_store")),
	}
}

// Ensure DocumentStore implements store.DocumentStore interface
var _ store.DocumentStore = (*DocumentStore)(nil)

const documentColumns = `id, title, original_name, stored_name, language, pages, doc_type, search_text, created_at`

// Create implements store.DocumentStore.Create
func (s *DocumentStore) Create(ctx context.Context, doc *domain.Document) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := doc.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO documents (title, original_name, stored_name, language, pages, doc_type, search_text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		s.dialect.Rebind(query),
		doc.Title,
		doc.OriginalName,
		doc.StoredName,
		doc.Language,
		doc.Pages,
		doc.DocType,
		doc.SearchText,
		doc.CreatedAt.UTC(),
	).Scan(&doc.ID)
	if err != nil {
		log.Error("failed to create document", slog.String("error", err.Error()))
		return store.NewStoreError("document", "create", s.dialect.MapError(err))
	}

	log.Info("document created",
		slog.Int64("document_id", doc.ID),
		slog.Int("pages", doc.Pages),
		slog.Int("text_length", len(doc.SearchText)))
	return nil
}

// GetByID implements store.DocumentStore.GetByID
func (s *DocumentStore) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = ?`
	doc, err := scanDocument(s.db.QueryRowContext(ctx, s.dialect.Rebind(query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDocumentNotFound
		}
		log.Error("failed to get document", slog.String("error", err.Error()), slog.Int64("document_id", id))
		return nil, s.dialect.MapError(err)
	}
	return doc, nil
}

// List implements store.DocumentStore.List
func (s *DocumentStore) List(ctx context.Context, limit int) ([]domain.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	docs := make([]domain.Document, 0)
	if limit <= 0 {
		return docs, nil
	}

	query := `SELECT ` + documentColumns + ` FROM documents ORDER BY id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), limit)
	if err != nil {
		log.Error("failed to list documents", slog.String("error", err.Error()))
		return nil, s.dialect.MapError(err)
	}
	defer closeRows(log, rows)

	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, s.dialect.MapError(err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, s.dialect.MapError(err)
	}
	return docs, nil
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var (
		doc       domain.Document
		createdAt any
	)
	err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.OriginalName,
		&doc.StoredName,
		&doc.Language,
		&doc.Pages,
		&doc.DocType,
		&doc.SearchText,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	if doc.CreatedAt, err = toTime(createdAt); err != nil {
		return nil, fmt.Errorf("document %d created_at: %w", doc.ID, err)
	}
	return &doc, nil
}
