package api

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/mocks"
	"github.com/phrazzld/scry-study/internal/service/card_review"
	"github.com/phrazzld/scry-study/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type studyDeps struct {
	review *mocks.MockCardReviewService
	stats  *mocks.MockStatsService
	cards  *mocks.MockCardService
}

func newStudyRouter(d studyDeps) http.Handler {
	if d.review == nil {
		d.review = mocks.NewMockCardReviewService()
	}
	if d.stats == nil {
		d.stats = &mocks.MockStatsService{}
	}
	if d.cards == nil {
		d.cards = &mocks.MockCardService{}
	}
	h := NewStudyHandler(d.review, d.stats, d.cards, slog.Default())
	r := chi.NewRouter()
	r.Get("/api/study/counts", h.GetCounts)
	r.Get("/api/study/session", h.GetSessionCard)
	r.Post("/api/study/review", h.SubmitReview)
	r.Get("/api/study/quiz", h.GetQuizQuestion)
	r.Post("/api/study/quiz/answer", h.SubmitQuizAnswer)
	r.Get("/api/study/stats", h.GetStats)
	r.Get("/api/study/stats/documents", h.GetStatsByDocument)
	r.Get("/api/study/export.csv", h.ExportCSV)
	return r
}

func TestGetCounts(t *testing.T) {
	var gotDoc *int64
	review := mocks.NewMockCardReviewService()
	review.GetCountsFn = func(_ context.Context, doc *int64) (int, int, error) {
		gotDoc = doc
		return 10, 4, nil
	}

	rr := doRequest(t, newStudyRouter(studyDeps{review: review}), http.MethodGet, "/api/study/counts?doc=2", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp CountsResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, CountsResponse{Total: 10, Due: 4}, resp)
	require.NotNil(t, gotDoc)
	assert.Equal(t, int64(2), *gotDoc)
}

func TestGetSessionCard(t *testing.T) {
	tests := []struct {
		name           string
		card           *card_review.SessionCard
		err            error
		expectedStatus int
	}{
		{
			name:           "due card",
			card:           &card_review.SessionCard{CardWithSchedule: domain.CardWithSchedule{Card: domain.Card{ID: 1, Question: "Q"}}},
			expectedStatus: http.StatusOK,
		},
		{
			name: "practice card",
			card: &card_review.SessionCard{
				CardWithSchedule: domain.CardWithSchedule{Card: domain.Card{ID: 2, Question: "Q"}},
				Practice:         true,
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "no cards",
			err:            card_review.ErrNoCards,
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "storage failure",
			err:            card_review.NewGetNextCardError("failed", errors.New("locked")),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			review := mocks.NewMockCardReviewService(mocks.WithSessionCard(tc.card), mocks.WithError(tc.err))

			rr := doRequest(t, newStudyRouter(studyDeps{review: review}), http.MethodGet, "/api/study/session", nil)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedStatus == http.StatusOK {
				var got card_review.SessionCard
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
				assert.Equal(t, tc.card.ID, got.ID)
				assert.Equal(t, tc.card.Practice, got.Practice)
			}
		})
	}
}

func TestSubmitReview(t *testing.T) {
	due := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	t.Run("records a session review", func(t *testing.T) {
		review := mocks.NewMockCardReviewService(mocks.WithState(&domain.SRSState{
			CardID: 5, Box: 2, DueAt: due, LastReviewAt: &now, CorrectStreak: 1,
		}))

		rr := doRequest(t, newStudyRouter(studyDeps{review: review}), http.MethodPost, "/api/study/review",
			map[string]interface{}{"card_id": 5, "correct": true})

		require.Equal(t, http.StatusOK, rr.Code)
		var resp ReviewResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, 2, resp.Box)
		assert.Equal(t, "2026-02-02", resp.DueAt)

		calls := review.ReviewCalls()
		require.Len(t, calls, 1)
		assert.Equal(t, mocks.ReviewCall{CardID: 5, Correct: true, Source: "session"}, calls[0])
	})

	t.Run("false verdict is accepted", func(t *testing.T) {
		review := mocks.NewMockCardReviewService(mocks.WithState(&domain.SRSState{CardID: 5, Box: 1, DueAt: due}))

		rr := doRequest(t, newStudyRouter(studyDeps{review: review}), http.MethodPost, "/api/study/review",
			map[string]interface{}{"card_id": 5, "correct": false})

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, review.ReviewCalls()[0].Correct)
	})

	t.Run("missing verdict", func(t *testing.T) {
		review := mocks.NewMockCardReviewService()

		rr := doRequest(t, newStudyRouter(studyDeps{review: review}), http.MethodPost, "/api/study/review",
			map[string]interface{}{"card_id": 5})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, review.ReviewCalls())
	})

	t.Run("unknown card", func(t *testing.T) {
		review := mocks.NewMockCardReviewService(mocks.WithError(store.ErrCardNotFound))

		rr := doRequest(t, newStudyRouter(studyDeps{review: review}), http.MethodPost, "/api/study/review",
			map[string]interface{}{"card_id": 99, "correct": true})

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestQuizFlow(t *testing.T) {
	due := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	review := mocks.NewMockCardReviewService()
	review.QuizQuestion = &card_review.QuizQuestion{
		CardID:   4,
		Question: "Capital of France?",
		Options:  []string{"Berlin", "Paris", "Rome", "Madrid"},
	}
	review.AnswerQuizFn = func(_ context.Context, cardID int64, answer string) (*card_review.QuizResult, error) {
		return &card_review.QuizResult{
			Correct:       answer == "Paris",
			CorrectAnswer: "Paris",
			State:         &domain.SRSState{CardID: cardID, Box: 1, DueAt: due},
		}, nil
	}
	router := newStudyRouter(studyDeps{review: review})

	rr := doRequest(t, router, http.MethodGet, "/api/study/quiz", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var q card_review.QuizQuestion
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&q))
	assert.Len(t, q.Options, 4)

	rr = doRequest(t, router, http.MethodPost, "/api/study/quiz/answer", QuizAnswerRequest{CardID: 4, Answer: "Rome"})
	require.Equal(t, http.StatusOK, rr.Code)
	var resp QuizAnswerResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.False(t, resp.Correct)
	assert.Equal(t, "Paris", resp.CorrectAnswer)
	assert.Equal(t, "2026-02-01", resp.State.DueAt)
}

func TestGetStats(t *testing.T) {
	stats := &mocks.MockStatsService{
		Stats: &domain.StudyStats{
			Total: 3,
			Due:   1,
			Dist:  domain.NewBoxDistribution(),
			Acc:   domain.NewAccuracy(nil),
			Weak:  []domain.CardWithLastResult{},
		},
	}

	rr := doRequest(t, newStudyRouter(studyDeps{stats: stats}), http.MethodGet, "/api/study/stats", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var got struct {
		Total int               `json:"total"`
		Dist  map[string]int    `json:"dist"`
		Acc   domain.Accuracy   `json:"acc"`
		Weak  []json.RawMessage `json:"weak"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, 3, got.Total)
	assert.Len(t, got.Dist, 5)
	assert.Equal(t, domain.Accuracy{}, got.Acc)
	assert.NotNil(t, got.Weak)
}

func TestGetStatsByDocument(t *testing.T) {
	id := int64(1)
	title := "Biology"
	stats := &mocks.MockStatsService{ByDocument: []domain.DocumentStats{
		{DocumentID: &id, Title: &title, Total: 2, Due: 1},
		{Total: 1, Due: 0},
	}}

	rr := doRequest(t, newStudyRouter(studyDeps{stats: stats}), http.MethodGet, "/api/study/stats/documents", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var rows []domain.DocumentStats
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&rows))
	require.Len(t, rows, 2)
	assert.Nil(t, rows[1].DocumentID)
}

func TestExportCSV(t *testing.T) {
	title := "Geo"
	box := 3
	due := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	cards := &mocks.MockCardService{Cards: []domain.CardWithSchedule{
		{Card: domain.Card{ID: 1, Question: "Capital, France?", Answer: "Paris"}, DocumentTitle: &title, Box: &box, DueAt: &due},
		{Card: domain.Card{ID: 2, Question: "Q", Answer: "A"}},
	}}

	t.Run("whole collection", func(t *testing.T) {
		rr := doRequest(t, newStudyRouter(studyDeps{cards: cards}), http.MethodGet, "/api/study/export.csv", nil)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Disposition"), `"study_cards.csv"`)
		assert.Equal(t, ExportLimit, cards.LastFilter.Limit)

		rows, err := csv.NewReader(rr.Body).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"card_id", "document", "box", "due_at", "question", "answer"}, rows[0])
		assert.Equal(t, []string{"1", "Geo", "3", "2026-06-01", "Capital, France?", "Paris"}, rows[1])
		assert.Equal(t, []string{"2", "", "", "", "Q", "A"}, rows[2])
	})

	t.Run("one document", func(t *testing.T) {
		rr := doRequest(t, newStudyRouter(studyDeps{cards: cards}), http.MethodGet, "/api/study/export.csv?doc=7", nil)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Disposition"), `"study_cards_doc_7.csv"`)
		require.NotNil(t, cards.LastFilter.DocumentID)
		assert.Equal(t, int64(7), *cards.LastFilter.DocumentID)
	})
}
