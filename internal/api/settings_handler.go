package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/service"
)

// SettingsHandler handles key-value settings requests
type SettingsHandler struct {
	settingsService service.SettingsService
	logger          *slog.Logger
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService service.SettingsService, logger *slog.Logger) *SettingsHandler {
	if settingsService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("settingsService cannot be nil for SettingsHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SettingsHandler")
	}

	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger.With(slog.String("component", "settings_handler")),
	}
}

// GetSettings handles GET /api/settings requests
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.GetAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to read settings")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, settings)
}

// PutSetting handles PUT /api/settings requests and answers with every
// setting after the change.
func (h *SettingsHandler) PutSetting(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SettingRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	if err := h.settingsService.Set(r.Context(), req.Key, req.Value); err != nil {
		HandleAPIError(w, r, err, "Failed to store setting")
		return
	}
	log.Debug("setting stored", slog.String("key", req.Key))

	h.GetSettings(w, r)
}

// Health handles GET /health requests
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}
