package mocks

import (
	"context"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/service"
)

var _ service.StatsService = (*MockStatsService)(nil)

// MockStatsService implements service.StatsService for testing
type MockStatsService struct {
	StatsFn           func(ctx context.Context, documentID *int64) (*domain.StudyStats, error)
	StatsByDocumentFn func(ctx context.Context) ([]domain.DocumentStats, error)

	Stats        *domain.StudyStats
	ByDocument   []domain.DocumentStats
	DefaultError error
}

// Stats implements the StatsService.Stats method
func (m *MockStatsService) Stats(ctx context.Context, documentID *int64) (*domain.StudyStats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx, documentID)
	}
	return m.Stats, m.DefaultError
}

// StatsByDocument implements the StatsService.StatsByDocument method
func (m *MockStatsService) StatsByDocument(ctx context.Context) ([]domain.DocumentStats, error) {
	if m.StatsByDocumentFn != nil {
		return m.StatsByDocumentFn(ctx)
	}
	return m.ByDocument, m.DefaultError
}
