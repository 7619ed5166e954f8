package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/service/card_review"
	"github.com/phrazzld/scry-study/internal/store"
)

// ExportLimit caps the number of cards written by the CSV export.
const ExportLimit = 5000

// StudyHandler handles study session, quiz, statistics and export requests
type StudyHandler struct {
	reviewService card_review.CardReviewService
	statsService  service.StatsService
	cardService   service.CardService
	logger        *slog.Logger
}

// NewStudyHandler creates a new StudyHandler
func NewStudyHandler(
	reviewService card_review.CardReviewService,
	statsService service.StatsService,
	cardService service.CardService,
	logger *slog.Logger,
) *StudyHandler {
	if reviewService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("reviewService cannot be nil for StudyHandler")
	}
	if statsService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("statsService cannot be nil for StudyHandler")
	}
	if cardService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardService cannot be nil for StudyHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StudyHandler")
	}

	return &StudyHandler{
		reviewService: reviewService,
		statsService:  statsService,
		cardService:   cardService,
		logger:        logger.With(slog.String("component", "study_handler")),
	}
}

// GetCounts handles GET /api/study/counts?doc= requests
func (h *StudyHandler) GetCounts(w http.ResponseWriter, r *http.Request) {
	total, due, err := h.reviewService.GetCounts(r.Context(), queryID(r, "doc"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to count cards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CountsResponse{Total: total, Due: due})
}

// GetSessionCard handles GET /api/study/session?doc= requests.
// It answers with the next due card, or a random card flagged as practice
// when nothing is due, and 204 when the scope holds no cards.
func (h *StudyHandler) GetSessionCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	card, err := h.reviewService.NextSessionCard(r.Context(), queryID(r, "doc"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get next card")
		return
	}

	log.Debug("session card selected",
		slog.Int64("card_id", card.ID),
		slog.Bool("practice", card.Practice))
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// SubmitReview handles POST /api/study/review requests
func (h *StudyHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ReviewRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	state, err := h.reviewService.ReviewCard(r.Context(), req.CardID, *req.Correct, string(domain.ReviewSourceSession))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record review")
		return
	}

	log.Debug("review recorded",
		slog.Int64("card_id", req.CardID),
		slog.Bool("correct", *req.Correct),
		slog.Int("box", state.Box))
	shared.RespondWithJSON(w, r, http.StatusOK, stateToResponse(state))
}

// GetQuizQuestion handles GET /api/study/quiz?doc= requests
func (h *StudyHandler) GetQuizQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := h.reviewService.NextQuizQuestion(r.Context(), queryID(r, "doc"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build quiz question")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, question)
}

// SubmitQuizAnswer handles POST /api/study/quiz/answer requests
func (h *StudyHandler) SubmitQuizAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req QuizAnswerRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	result, err := h.reviewService.AnswerQuiz(r.Context(), req.CardID, req.Answer)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record quiz answer")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, QuizAnswerResponse{
		Correct:       result.Correct,
		CorrectAnswer: result.CorrectAnswer,
		State:         stateToResponse(result.State),
	})
}

// GetStats handles GET /api/study/stats?doc= requests
func (h *StudyHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.Stats(r.Context(), queryID(r, "doc"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute statistics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// GetStatsByDocument handles GET /api/study/stats/documents requests
func (h *StudyHandler) GetStatsByDocument(w http.ResponseWriter, r *http.Request) {
	rows, err := h.statsService.StatsByDocument(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute statistics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, rows)
}

// ExportCSV handles GET /api/study/export.csv?doc= requests
func (h *StudyHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	documentID := queryID(r, "doc")

	cards, err := h.cardService.ListCards(r.Context(), store.CardFilter{
		DocumentID: documentID,
		Limit:      ExportLimit,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export cards")
		return
	}

	fileName := "study_cards.csv"
	if documentID != nil {
		fileName = fmt.Sprintf("study_cards_doc_%d.csv", *documentID)
	}

	shared.RespondWithCSV(w, r, fileName, exportRows(cards))
}

// exportRows renders cards as CSV rows with a header row first.
func exportRows(cards []domain.CardWithSchedule) [][]string {
	rows := make([][]string, 0, len(cards)+1)
	rows = append(rows, []string{"card_id", "document", "box", "due_at", "question", "answer"})
	for _, c := range cards {
		var document, box, due string
		if c.DocumentTitle != nil {
			document = *c.DocumentTitle
		}
		if c.Box != nil {
			box = strconv.Itoa(*c.Box)
		}
		if c.DueAt != nil {
			due = domain.FormatDate(*c.DueAt)
		}
		rows = append(rows, []string{
			strconv.FormatInt(c.ID, 10),
			document,
			box,
			due,
			c.Question,
			c.Answer,
		})
	}
	return rows
}
