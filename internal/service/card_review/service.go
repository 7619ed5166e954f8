// Package card_review implements the study loop: picking the next card,
// recording review verdicts through the Leitner scheduler, and the quiz mode
// built on top of it.
package card_review

import (
	"context"
	"errors"
	"fmt"

	"github.com/phrazzld/scry-study/internal/domain"
)

// SessionCard is a card offered in a study session. Practice is set when no
// card was due and a random card was picked instead.
type SessionCard struct {
	domain.CardWithSchedule
	Practice bool `json:"practice"`
}

// QuizQuestion is a multiple choice question built from a card. Options
// contains the card's answer and its distractors in random order.
type QuizQuestion struct {
	CardID     int64    `json:"card_id"`
	Question   string   `json:"question"`
	DocumentID *int64   `json:"document_id"`
	Options    []string `json:"options"`
	Practice   bool     `json:"practice"`
}

// QuizResult is the verdict on a quiz answer together with the schedule it
// produced.
type QuizResult struct {
	Correct       bool             `json:"correct"`
	CorrectAnswer string           `json:"correct_answer"`
	State         *domain.SRSState `json:"state"`
}

// DistractorPicker supplies wrong answers for quiz questions.
type DistractorPicker interface {
	PickDistractors(ctx context.Context, excludeCardID int64, documentID *int64, k int) ([]string, error)
}

// CardReviewService provides methods for reviewing flashcards
// using the Leitner box system.
type CardReviewService interface {
	// ReviewCard records a verdict for a card and reschedules it.
	//
	// This method performs several operations within a single transaction:
	// 1. Loads the card's SRS state, creating the default row if it is missing
	// 2. Applies the Leitner transition for the verdict
	// 3. Persists the new state and appends a review log entry tagged with source
	//
	// Returns:
	//   - (*domain.SRSState, nil): The state after the review
	//   - (nil, store.ErrCardNotFound): If the card does not exist
	//   - (nil, error wrapping domain.ErrInvalidInput): If source is unknown
	//
	// An empty source is recorded as domain.ReviewSourceSession.
	ReviewCard(ctx context.Context, cardID int64, correct bool, source string) (*domain.SRSState, error)

	// GetNextDueCard returns the card due on or before today, ordered by due
	// date, then box, then oldest first.
	//
	// Returns:
	//   - (nil, ErrNoCardsDue): If nothing is due in the scope
	//
	// This method does not modify any data.
	GetNextDueCard(ctx context.Context, documentID *int64) (*domain.CardWithSchedule, error)

	// GetRandomCard returns a uniformly random card from the scope.
	// Returns ErrNoCards when the scope holds no cards.
	GetRandomCard(ctx context.Context, documentID *int64) (*domain.CardWithSchedule, error)

	// GetCounts returns the number of cards and the number due today.
	GetCounts(ctx context.Context, documentID *int64) (total int, due int, err error)

	// NextSessionCard returns the next due card, falling back to a random card
	// flagged as practice. Returns ErrNoCards when the scope holds no cards.
	NextSessionCard(ctx context.Context, documentID *int64) (*SessionCard, error)

	// NextQuizQuestion builds a quiz question from the next session card.
	// Returns ErrNoCards when the scope holds no cards.
	NextQuizQuestion(ctx context.Context, documentID *int64) (*QuizQuestion, error)

	// AnswerQuiz checks answer against the card's answer after trimming both
	// and records the verdict with the quiz source tag.
	// Returns store.ErrCardNotFound if the card does not exist.
	AnswerQuiz(ctx context.Context, cardID int64, answer string) (*QuizResult, error)
}

// Common error types for CardReviewService
var (
	// ErrNoCardsDue indicates that no card is due for review in the scope.
	ErrNoCardsDue = errors.New("no cards due for review")

	// ErrNoCards indicates that the scope holds no cards at all.
	ErrNoCards = errors.New("no cards available")
)

// ServiceError wraps errors from the card review service with additional context.
// This allows consumers to differentiate between different types of service errors
// using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "review_card", "get_next_due_card")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewReviewCardError returns a new ServiceError for the review_card operation.
func NewReviewCardError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "review_card",
		Message:   message,
		Err:       err,
	}
}

// NewGetNextCardError returns a new ServiceError for the get_next_due_card operation.
func NewGetNextCardError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "get_next_due_card",
		Message:   message,
		Err:       err,
	}
}

// NewQuizError returns a new ServiceError for the quiz operations.
func NewQuizError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "quiz",
		Message:   message,
		Err:       err,
	}
}
