package mocks

import (
	"context"
	"io"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/service"
)

var (
	_ service.ContentService  = (*MockContentService)(nil)
	_ service.SettingsService = (*MockSettingsService)(nil)
)

// MockContentService implements service.ContentService for testing
type MockContentService struct {
	CreateNoteFn     func(ctx context.Context, title, body string, documentID *int64) (*domain.Note, error)
	GetNoteFn        func(ctx context.Context, id int64) (*domain.Note, error)
	ListNotesFn      func(ctx context.Context, documentID *int64, limit int) ([]domain.Note, error)
	CreateDocumentFn func(ctx context.Context, title, originalName, text string, pages int) (*domain.Document, error)
	GetDocumentFn    func(ctx context.Context, id int64) (*domain.Document, error)
	ListDocumentsFn  func(ctx context.Context, limit int) ([]domain.Document, error)
	ImportDocumentFn func(ctx context.Context, fileName string, r io.ReaderAt, size int64) (*domain.Document, error)

	Note         *domain.Note
	Notes        []domain.Note
	Document     *domain.Document
	Documents    []domain.Document
	DefaultError error
}

// CreateNote implements the ContentService.CreateNote method
func (m *MockContentService) CreateNote(ctx context.Context, title, body string, documentID *int64) (*domain.Note, error) {
	if m.CreateNoteFn != nil {
		return m.CreateNoteFn(ctx, title, body, documentID)
	}
	return m.Note, m.DefaultError
}

// GetNote implements the ContentService.GetNote method
func (m *MockContentService) GetNote(ctx context.Context, id int64) (*domain.Note, error) {
	if m.GetNoteFn != nil {
		return m.GetNoteFn(ctx, id)
	}
	return m.Note, m.DefaultError
}

// ListNotes implements the ContentService.ListNotes method
func (m *MockContentService) ListNotes(ctx context.Context, documentID *int64, limit int) ([]domain.Note, error) {
	if m.ListNotesFn != nil {
		return m.ListNotesFn(ctx, documentID, limit)
	}
	return m.Notes, m.DefaultError
}

// CreateDocument implements the ContentService.CreateDocument method
func (m *MockContentService) CreateDocument(
	ctx context.Context,
	title, originalName, text string,
	pages int,
) (*domain.Document, error) {
	if m.CreateDocumentFn != nil {
		return m.CreateDocumentFn(ctx, title, originalName, text, pages)
	}
	return m.Document, m.DefaultError
}

// GetDocument implements the ContentService.GetDocument method
func (m *MockContentService) GetDocument(ctx context.Context, id int64) (*domain.Document, error) {
	if m.GetDocumentFn != nil {
		return m.GetDocumentFn(ctx, id)
	}
	return m.Document, m.DefaultError
}

// ListDocuments implements the ContentService.ListDocuments method
func (m *MockContentService) ListDocuments(ctx context.Context, limit int) ([]domain.Document, error) {
	if m.ListDocumentsFn != nil {
		return m.ListDocumentsFn(ctx, limit)
	}
	return m.Documents, m.DefaultError
}

// ImportDocument implements the ContentService.ImportDocument method
func (m *MockContentService) ImportDocument(
	ctx context.Context,
	fileName string,
	r io.ReaderAt,
	size int64,
) (*domain.Document, error) {
	if m.ImportDocumentFn != nil {
		return m.ImportDocumentFn(ctx, fileName, r, size)
	}
	return m.Document, m.DefaultError
}

// GetNoteText implements the ContentService.GetNoteText method
func (m *MockContentService) GetNoteText(ctx context.Context, id int64) (string, error) {
	note, err := m.GetNote(ctx, id)
	if err != nil || note == nil {
		return "", err
	}
	return note.Body, nil
}

// GetDocumentText implements the ContentService.GetDocumentText method
func (m *MockContentService) GetDocumentText(ctx context.Context, id int64) (string, error) {
	doc, err := m.GetDocument(ctx, id)
	if err != nil || doc == nil {
		return "", err
	}
	return doc.SearchText, nil
}

// MockSettingsService implements service.SettingsService for testing
type MockSettingsService struct {
	GetAllFn func(ctx context.Context) (map[string]string, error)
	SetFn    func(ctx context.Context, key, value string) error

	Settings     map[string]string
	DefaultError error
}

// GetAll implements the SettingsService.GetAll method
func (m *MockSettingsService) GetAll(ctx context.Context) (map[string]string, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(ctx)
	}
	return m.Settings, m.DefaultError
}

// Set implements the SettingsService.Set method
func (m *MockSettingsService) Set(ctx context.Context, key, value string) error {
	if m.SetFn != nil {
		return m.SetFn(ctx, key, value)
	}
	if m.DefaultError != nil {
		return m.DefaultError
	}
	if m.Settings == nil {
		m.Settings = make(map[string]string)
	}
	m.Settings[key] = value
	return nil
}

// EnsureDefaults implements the SettingsService.EnsureDefaults method
func (m *MockSettingsService) EnsureDefaults(ctx context.Context) error {
	return m.DefaultError
}
