package mocks

import (
	"context"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/store"
)

var _ service.CardService = (*MockCardService)(nil)

// MockCardService implements service.CardService for testing
type MockCardService struct {
	// Custom behavior functions
	CreateCardFn func(ctx context.Context, question, answer string, documentID, noteID *int64) (int64, bool, error)
	UpdateCardFn func(ctx context.Context, id int64, question, answer string, documentID *int64) error
	DeleteCardFn func(ctx context.Context, id int64) error
	GetCardFn    func(ctx context.Context, id int64) (*domain.CardWithSchedule, error)
	ListCardsFn  func(ctx context.Context, filter store.CardFilter) ([]domain.CardWithSchedule, error)

	// Default return values
	CardID       int64
	CreatedNew   bool
	Card         *domain.CardWithSchedule
	Cards        []domain.CardWithSchedule
	DefaultError error

	// LastFilter records the filter of the latest ListCards call
	LastFilter store.CardFilter
}

// CreateCard implements the CardService.CreateCard method
func (m *MockCardService) CreateCard(
	ctx context.Context,
	question, answer string,
	documentID, noteID *int64,
) (int64, bool, error) {
	if m.CreateCardFn != nil {
		return m.CreateCardFn(ctx, question, answer, documentID, noteID)
	}
	return m.CardID, m.CreatedNew, m.DefaultError
}

// UpdateCard implements the CardService.UpdateCard method
func (m *MockCardService) UpdateCard(
	ctx context.Context,
	id int64,
	question, answer string,
	documentID *int64,
) error {
	if m.UpdateCardFn != nil {
		return m.UpdateCardFn(ctx, id, question, answer, documentID)
	}
	return m.DefaultError
}

// DeleteCard implements the CardService.DeleteCard method
func (m *MockCardService) DeleteCard(ctx context.Context, id int64) error {
	if m.DeleteCardFn != nil {
		return m.DeleteCardFn(ctx, id)
	}
	return m.DefaultError
}

// GetCard implements the CardService.GetCard method
func (m *MockCardService) GetCard(ctx context.Context, id int64) (*domain.CardWithSchedule, error) {
	if m.GetCardFn != nil {
		return m.GetCardFn(ctx, id)
	}
	return m.Card, m.DefaultError
}

// ListCards implements the CardService.ListCards method
func (m *MockCardService) ListCards(ctx context.Context, filter store.CardFilter) ([]domain.CardWithSchedule, error) {
	m.LastFilter = filter
	if m.ListCardsFn != nil {
		return m.ListCardsFn(ctx, filter)
	}
	return m.Cards, m.DefaultError
}
