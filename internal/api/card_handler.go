package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/store"
)

// CardHandler handles card management HTTP requests
type CardHandler struct {
	cardService service.CardService
	logger      *slog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cardService service.CardService, logger *slog.Logger) *CardHandler {
	if cardService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardService cannot be nil for CardHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}

	return &CardHandler{
		cardService: cardService,
		logger:      logger.With(slog.String("component", "card_handler")),
	}
}

// CreateCard handles POST /api/cards requests.
// It answers 201 for a new card and 200 with the existing id when an
// identical card is already stored.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CardRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	id, created, err := h.cardService.CreateCard(r.Context(), req.Question, req.Answer, req.DocumentID, req.NoteID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create card")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	log.Debug("card create handled",
		slog.Int64("card_id", id),
		slog.Bool("created", created))
	shared.RespondWithJSON(w, r, status, CreateCardResponse{ID: id, Created: created})
}

// ListCards handles GET /api/cards?q=&doc=&limit= requests
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	filter := store.CardFilter{
		Query:      r.URL.Query().Get("q"),
		DocumentID: queryID(r, "doc"),
		Limit:      queryInt(r, "limit", store.DefaultListLimit),
	}

	cards, err := h.cardService.ListCards(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list cards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// GetCard handles GET /api/cards/{id} requests
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathID(w, r, "id", log)
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// UpdateCard handles PUT /api/cards/{id} requests.
// Updating an id that does not exist is accepted and changes nothing.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathID(w, r, "id", log)
	if !ok {
		return
	}

	var req CardRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	if err := h.cardService.UpdateCard(r.Context(), id, req.Question, req.Answer, req.DocumentID); err != nil {
		HandleAPIError(w, r, err, "Failed to update card")
		return
	}

	log.Debug("card updated", slog.Int64("card_id", id))
	shared.RespondNoContent(w)
}

// DeleteCard handles DELETE /api/cards/{id} requests
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete card")
		return
	}

	log.Debug("card deleted", slog.Int64("card_id", id))
	shared.RespondNoContent(w)
}
