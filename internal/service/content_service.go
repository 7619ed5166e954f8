package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

// DefaultContentListLimit is used when a note or document listing gives no limit.
const DefaultContentListLimit = 100

// ErrNoTextExtractor is returned by ImportDocument when the service was built
// without a TextExtractor.
var ErrNoTextExtractor = errors.New("document import is not configured")

// TextExtractor turns an uploaded file into plain text.
type TextExtractor interface {
	// ExtractText returns the text of the file and its page count.
	ExtractText(r io.ReaderAt, size int64) (text string, pages int, err error)
}

// ContentService manages the notes and documents cards are generated from.
type ContentService interface {
	CreateNote(ctx context.Context, title, body string, documentID *int64) (*domain.Note, error)
	GetNote(ctx context.Context, id int64) (*domain.Note, error)
	ListNotes(ctx context.Context, documentID *int64, limit int) ([]domain.Note, error)

	CreateDocument(ctx context.Context, title, originalName, text string, pages int) (*domain.Document, error)
	GetDocument(ctx context.Context, id int64) (*domain.Document, error)
	ListDocuments(ctx context.Context, limit int) ([]domain.Document, error)

	// ImportDocument extracts the text of an uploaded file and stores it as a
	// new document titled after the file name.
	ImportDocument(ctx context.Context, fileName string, r io.ReaderAt, size int64) (*domain.Document, error)

	// GetNoteText returns the body of a note.
	// Returns store.ErrNoteNotFound if the note does not exist.
	GetNoteText(ctx context.Context, id int64) (string, error)

	// GetDocumentText returns the extracted text of a document.
	// Returns store.ErrDocumentNotFound if the document does not exist.
	GetDocumentText(ctx context.Context, id int64) (string, error)
}

type contentServiceImpl struct {
	notes     store.NoteStore
	documents store.DocumentStore
	extractor TextExtractor
	logger    *slog.Logger
}

// NewContentService creates a new ContentService. extractor may be nil, in
// which case ImportDocument returns ErrNoTextExtractor.
func NewContentService(
	notes store.NoteStore,
	documents store.DocumentStore,
	extractor TextExtractor,
	logger *slog.Logger,
) ContentService {
	if notes == nil {
		panic("notes cannot be nil")
	}
	if documents == nil {
		panic("documents cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &contentServiceImpl{
		notes:     notes,
		documents: documents,
		extractor: extractor,
		logger:    logger.With(slog.String("component", "content_service")),
	}
}

func (s *contentServiceImpl) CreateNote(ctx context.Context, title, body string, documentID *int64) (*domain.Note, error) {
	note, err := domain.NewNote(title, body, documentID)
	if err != nil {
		return nil, err
	}
	if err := s.notes.Create(ctx, note); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create note",
			slog.String("error", err.Error()))
		return nil, NewServiceError("create_note", "failed to save note", err)
	}
	return note, nil
}

func (s *contentServiceImpl) GetNote(ctx context.Context, id int64) (*domain.Note, error) {
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrNoteNotFound
		}
		return nil, NewServiceError("get_note", "failed to retrieve note", err)
	}
	return note, nil
}

func (s *contentServiceImpl) ListNotes(ctx context.Context, documentID *int64, limit int) ([]domain.Note, error) {
	if limit <= 0 {
		limit = DefaultContentListLimit
	}
	notes, err := s.notes.List(ctx, documentID, limit)
	if err != nil {
		return nil, NewServiceError("list_notes", "failed to list notes", err)
	}
	return notes, nil
}

func (s *contentServiceImpl) CreateDocument(
	ctx context.Context,
	title, originalName, text string,
	pages int,
) (*domain.Document, error) {
	doc, err := domain.NewDocument(title, originalName, text, pages)
	if err != nil {
		return nil, err
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create document",
			slog.String("error", err.Error()))
		return nil, NewServiceError("create_document", "failed to save document", err)
	}
	return doc, nil
}

func (s *contentServiceImpl) GetDocument(ctx context.Context, id int64) (*domain.Document, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrDocumentNotFound
		}
		return nil, NewServiceError("get_document", "failed to retrieve document", err)
	}
	return doc, nil
}

func (s *contentServiceImpl) ListDocuments(ctx context.Context, limit int) ([]domain.Document, error) {
	if limit <= 0 {
		limit = DefaultContentListLimit
	}
	docs, err := s.documents.List(ctx, limit)
	if err != nil {
		return nil, NewServiceError("list_documents", "failed to list documents", err)
	}
	return docs, nil
}

func (s *contentServiceImpl) ImportDocument(
	ctx context.Context,
	fileName string,
	r io.ReaderAt,
	size int64,
) (*domain.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if s.extractor == nil {
		return nil, ErrNoTextExtractor
	}

	text, pages, err := s.extractor.ExtractText(r, size)
	if err != nil {
		log.Warn("failed to extract document text",
			slog.String("file", fileName),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: unreadable document: %w", domain.ErrInvalidInput, err)
	}

	base := filepath.Base(fileName)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	if strings.TrimSpace(title) == "" {
		title = base
	}

	doc, err := s.CreateDocument(ctx, title, base, text, pages)
	if err != nil {
		return nil, err
	}
	log.Info("document imported",
		slog.Int64("document_id", doc.ID),
		slog.Int("pages", pages),
		slog.Int("text_length", len(text)))
	return doc, nil
}

func (s *contentServiceImpl) GetNoteText(ctx context.Context, id int64) (string, error) {
	note, err := s.GetNote(ctx, id)
	if err != nil {
		return "", err
	}
	return note.Body, nil
}

func (s *contentServiceImpl) GetDocumentText(ctx context.Context, id int64) (string, error) {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return "", err
	}
	return doc.SearchText, nil
}
