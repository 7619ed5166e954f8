package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/service/card_review"
)

var _ card_review.CardReviewService = (*MockCardReviewService)(nil)

// ReviewCall records the arguments of one ReviewCard call.
type ReviewCall struct {
	CardID  int64
	Correct bool
	Source  string
}

// MockCardReviewService implements card_review.CardReviewService for testing
type MockCardReviewService struct {
	// Custom behavior functions
	ReviewCardFn       func(ctx context.Context, cardID int64, correct bool, source string) (*domain.SRSState, error)
	GetNextDueCardFn   func(ctx context.Context, documentID *int64) (*domain.CardWithSchedule, error)
	GetRandomCardFn    func(ctx context.Context, documentID *int64) (*domain.CardWithSchedule, error)
	GetCountsFn        func(ctx context.Context, documentID *int64) (int, int, error)
	NextSessionCardFn  func(ctx context.Context, documentID *int64) (*card_review.SessionCard, error)
	NextQuizQuestionFn func(ctx context.Context, documentID *int64) (*card_review.QuizQuestion, error)
	AnswerQuizFn       func(ctx context.Context, cardID int64, answer string) (*card_review.QuizResult, error)

	// Default response values
	Card         *domain.CardWithSchedule
	SessionCard  *card_review.SessionCard
	QuizQuestion *card_review.QuizQuestion
	QuizResult   *card_review.QuizResult
	State        *domain.SRSState
	Total        int
	Due          int
	Err          error

	// Call tracking for verification
	ReviewCardCalls struct {
		mu    sync.Mutex
		Calls []ReviewCall
	}
}

// MockOption configures a MockCardReviewService
type MockOption func(*MockCardReviewService)

// WithSessionCard sets the card returned by NextSessionCard
func WithSessionCard(card *card_review.SessionCard) MockOption {
	return func(m *MockCardReviewService) {
		m.SessionCard = card
	}
}

// WithState sets the state returned by ReviewCard
func WithState(state *domain.SRSState) MockOption {
	return func(m *MockCardReviewService) {
		m.State = state
	}
}

// WithCounts sets the values returned by GetCounts
func WithCounts(total, due int) MockOption {
	return func(m *MockCardReviewService) {
		m.Total = total
		m.Due = due
	}
}

// WithError sets the error returned by every method without a custom function
func WithError(err error) MockOption {
	return func(m *MockCardReviewService) {
		m.Err = err
	}
}

// NewMockCardReviewService creates a MockCardReviewService with the given options
func NewMockCardReviewService(opts ...MockOption) *MockCardReviewService {
	m := &MockCardReviewService{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ReviewCard implements the card_review.CardReviewService interface
func (m *MockCardReviewService) ReviewCard(
	ctx context.Context,
	cardID int64,
	correct bool,
	source string,
) (*domain.SRSState, error) {
	m.ReviewCardCalls.mu.Lock()
	m.ReviewCardCalls.Calls = append(m.ReviewCardCalls.Calls, ReviewCall{CardID: cardID, Correct: correct, Source: source})
	m.ReviewCardCalls.mu.Unlock()

	if m.ReviewCardFn != nil {
		return m.ReviewCardFn(ctx, cardID, correct, source)
	}
	return m.State, m.Err
}

// ReviewCalls returns a copy of the recorded ReviewCard calls
func (m *MockCardReviewService) ReviewCalls() []ReviewCall {
	m.ReviewCardCalls.mu.Lock()
	defer m.ReviewCardCalls.mu.Unlock()
	return append([]ReviewCall(nil), m.ReviewCardCalls.Calls...)
}

// GetNextDueCard implements the card_review.CardReviewService interface
func (m *MockCardReviewService) GetNextDueCard(ctx context.Context, documentID *int64) (*domain.CardWithSchedule, error) {
	if m.GetNextDueCardFn != nil {
		return m.GetNextDueCardFn(ctx, documentID)
	}
	return m.Card, m.Err
}

// GetRandomCard implements the card_review.CardReviewService interface
func (m *MockCardReviewService) GetRandomCard(ctx context.Context, documentID *int64) (*domain.CardWithSchedule, error) {
	if m.GetRandomCardFn != nil {
		return m.GetRandomCardFn(ctx, documentID)
	}
	return m.Card, m.Err
}

// GetCounts implements the card_review.CardReviewService interface
func (m *MockCardReviewService) GetCounts(ctx context.Context, documentID *int64) (int, int, error) {
	if m.GetCountsFn != nil {
		return m.GetCountsFn(ctx, documentID)
	}
	return m.Total, m.Due, m.Err
}

// NextSessionCard implements the card_review.CardReviewService interface
func (m *MockCardReviewService) NextSessionCard(ctx context.Context, documentID *int64) (*card_review.SessionCard, error) {
	if m.NextSessionCardFn != nil {
		return m.NextSessionCardFn(ctx, documentID)
	}
	return m.SessionCard, m.Err
}

// NextQuizQuestion implements the card_review.CardReviewService interface
func (m *MockCardReviewService) NextQuizQuestion(ctx context.Context, documentID *int64) (*card_review.QuizQuestion, error) {
	if m.NextQuizQuestionFn != nil {
		return m.NextQuizQuestionFn(ctx, documentID)
	}
	return m.QuizQuestion, m.Err
}

// AnswerQuiz implements the card_review.CardReviewService interface
func (m *MockCardReviewService) AnswerQuiz(ctx context.Context, cardID int64, answer string) (*card_review.QuizResult, error) {
	if m.AnswerQuizFn != nil {
		return m.AnswerQuizFn(ctx, cardID, answer)
	}
	return m.QuizResult, m.Err
}
