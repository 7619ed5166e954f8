package api

import (
	"github.com/phrazzld/scry-study/internal/domain"
)

// Common request/response structures

// CardRequest defines the payload for creating or updating a card.
// Blank question or answer text is rejected by the card service after trimming.
type CardRequest struct {
	Question   string `json:"question"    validate:"required,max=4000"`
	Answer     string `json:"answer"      validate:"required,max=4000"`
	DocumentID *int64 `json:"document_id" validate:"omitempty,gt=0"`
	NoteID     *int64 `json:"note_id"     validate:"omitempty,gt=0"`
}

// CreateCardResponse is returned by POST /api/cards.
type CreateCardResponse struct {
	ID      int64 `json:"id"`
	Created bool  `json:"created"`
}

// CountsResponse is returned by GET /api/study/counts.
type CountsResponse struct {
	Total int `json:"total"`
	Due   int `json:"due"`
}

// ReviewRequest defines the payload for POST /api/study/review.
type ReviewRequest struct {
	CardID  int64 `json:"card_id" validate:"required,gt=0"`
	Correct *bool `json:"correct" validate:"required"`
}

// ReviewResponse is the schedule a card has after a review.
type ReviewResponse struct {
	CardID        int64   `json:"card_id"`
	Box           int     `json:"box"`
	DueAt         string  `json:"due_at"`
	CorrectStreak int     `json:"correct_streak"`
	LastReviewAt  *string `json:"last_review_at"`
}

// QuizAnswerRequest defines the payload for POST /api/study/quiz/answer.
type QuizAnswerRequest struct {
	CardID int64  `json:"card_id" validate:"required,gt=0"`
	Answer string `json:"answer"`
}

// QuizAnswerResponse is the verdict on a quiz answer.
type QuizAnswerResponse struct {
	Correct       bool           `json:"correct"`
	CorrectAnswer string         `json:"correct_answer"`
	State         ReviewResponse `json:"state"`
}

// CommitRequest defines the payload for POST /api/study/preview/commit.
// Picks are indexes into the batch items; out-of-range entries are ignored.
type CommitRequest struct {
	Token string `json:"token" validate:"required"`
	Picks []int  `json:"picks"`
}

// NoteRequest defines the payload for POST /api/notes.
type NoteRequest struct {
	Title      string `json:"title"       validate:"required,max=500"`
	Body       string `json:"body"`
	DocumentID *int64 `json:"document_id" validate:"omitempty,gt=0"`
}

// DocumentRequest defines the payload for POST /api/documents.
type DocumentRequest struct {
	Title        string `json:"title"         validate:"required,max=500"`
	OriginalName string `json:"original_name" validate:"max=500"`
	Text         string `json:"text"`
	Pages        int    `json:"pages"         validate:"gte=0"`
}

// SettingRequest defines the payload for PUT /api/settings.
type SettingRequest struct {
	Key   string `json:"key"   validate:"required,max=100"`
	Value string `json:"value" validate:"max=10000"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// stateToResponse converts a domain.SRSState to a ReviewResponse
func stateToResponse(state *domain.SRSState) ReviewResponse {
	resp := ReviewResponse{
		CardID:        state.CardID,
		Box:           state.Box,
		DueAt:         domain.FormatDate(state.DueAt),
		CorrectStreak: state.CorrectStreak,
	}
	if state.LastReviewAt != nil {
		ts := state.LastReviewAt.UTC().Format("2006-01-02T15:04:05Z")
		resp.LastReviewAt = &ts
	}
	return resp
}
