package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/service/preview"
)

// PreviewService is the generate/commit workflow the handler drives.
// *preview.Service satisfies it.
type PreviewService interface {
	Generate(ctx context.Context, req preview.GenerateRequest) (*preview.GenerateResult, error)
	Commit(ctx context.Context, token string, picks []int) (*preview.CommitResult, error)
}

// PreviewHandler handles card generation preview and commit requests
type PreviewHandler struct {
	previewService PreviewService
	logger         *slog.Logger
}

// NewPreviewHandler creates a new PreviewHandler
func NewPreviewHandler(previewService PreviewService, logger *slog.Logger) *PreviewHandler {
	if previewService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("previewService cannot be nil for PreviewHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for PreviewHandler")
	}

	return &PreviewHandler{
		previewService: previewService,
		logger:         logger.With(slog.String("component", "preview_handler")),
	}
}

// Generate handles POST /api/study/preview requests.
// Sources that yielded no text are reported in the counts, not as an error.
func (h *PreviewHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req preview.GenerateRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	result, err := h.previewService.Generate(r.Context(), req)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate preview")
		return
	}

	log.Info("preview generated",
		slog.Int("total", result.Total),
		slog.Int("new", result.NewCount),
		slog.Int("dup", result.DupCount))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// Commit handles POST /api/study/preview/commit requests.
// A token can be committed once; any later attempt answers 410.
func (h *PreviewHandler) Commit(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CommitRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	result, err := h.previewService.Commit(r.Context(), req.Token, req.Picks)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to commit preview")
		return
	}

	log.Info("preview committed",
		slog.Int("created", result.Created),
		slog.Int("skipped_dup", result.SkippedDup),
		slog.Int("selected", result.Selected))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
