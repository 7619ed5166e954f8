package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/platform/pdf"
	"github.com/phrazzld/scry-study/internal/redact"
	"github.com/phrazzld/scry-study/internal/service"
)

// MaxUploadBytes caps the size of an uploaded document.
const MaxUploadBytes = 64 << 20

// ContentHandler handles note and document requests
type ContentHandler struct {
	contentService service.ContentService
	logger         *slog.Logger
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(contentService service.ContentService, logger *slog.Logger) *ContentHandler {
	if contentService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("contentService cannot be nil for ContentHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ContentHandler")
	}

	return &ContentHandler{
		contentService: contentService,
		logger:         logger.With(slog.String("component", "content_handler")),
	}
}

// CreateNote handles POST /api/notes requests
func (h *ContentHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req NoteRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	note, err := h.contentService.CreateNote(r.Context(), req.Title, req.Body, req.DocumentID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create note")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, note)
}

// GetNote handles GET /api/notes/{id} requests
func (h *ContentHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathID(w, r, "id", log)
	if !ok {
		return
	}

	note, err := h.contentService.GetNote(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get note")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, note)
}

// ListNotes handles GET /api/notes?doc=&limit= requests
func (h *ContentHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.contentService.ListNotes(r.Context(), queryID(r, "doc"), queryInt(r, "limit", 0))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list notes")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, notes)
}

// CreateDocument handles POST /api/documents requests with already
// extracted text.
func (h *ContentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req DocumentRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	originalName := req.OriginalName
	if originalName == "" {
		originalName = req.Title
	}

	doc, err := h.contentService.CreateDocument(r.Context(), req.Title, originalName, req.Text, req.Pages)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create document")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, doc)
}

// GetDocument handles GET /api/documents/{id} requests
func (h *ContentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathID(w, r, "id", log)
	if !ok {
		return
	}

	doc, err := h.contentService.GetDocument(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get document")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, doc)
}

// ListDocuments handles GET /api/documents?limit= requests
func (h *ContentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.contentService.ListDocuments(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list documents")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, docs)
}

// ImportDocument handles POST /api/documents/import multipart uploads.
// The PDF in the "file" field becomes a document holding its text.
func (h *ContentHandler) ImportDocument(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			shared.RespondWithError(w, r, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		log.Warn("invalid upload", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing file")
		return
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			log.Warn("failed to close upload", slog.String("error", cerr.Error()))
		}
	}()

	name := pdf.SafeFileName(header.Filename)
	doc, err := h.contentService.ImportDocument(r.Context(), name, file, header.Size)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to import document")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, doc)
}
