package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

const (
	// AccuracyWindow is the number of most recent reviews accuracy is computed over.
	AccuracyWindow = 50

	// WeakLimit caps the number of weak cards returned by Stats.
	WeakLimit = 12
)

// StatsService aggregates read-only study statistics.
type StatsService interface {
	// Stats returns totals, the box distribution, recent accuracy and weak
	// cards, restricted to one document when documentID is set.
	Stats(ctx context.Context, documentID *int64) (*domain.StudyStats, error)

	// StatsByDocument returns total and due counts for every document that has
	// cards, plus one row for cards without a document.
	StatsByDocument(ctx context.Context) ([]domain.DocumentStats, error)
}

type statsServiceImpl struct {
	stats  store.StatsStore
	clock  domain.Clock
	logger *slog.Logger
}

// NewStatsService creates a new StatsService.
func NewStatsService(stats store.StatsStore, clock domain.Clock, logger *slog.Logger) StatsService {
	if stats == nil {
		panic("stats cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &statsServiceImpl{
		stats:  stats,
		clock:  clock,
		logger: logger.With(slog.String("component", "stats_service")),
	}
}

// Stats implements StatsService.Stats
func (s *statsServiceImpl) Stats(ctx context.Context, documentID *int64) (*domain.StudyStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	total, due, err := s.stats.Counts(ctx, documentID, s.clock.Today())
	if err != nil {
		log.Error("failed to count cards", slog.String("error", err.Error()))
		return nil, NewServiceError("stats", "failed to count cards", err)
	}

	stored, err := s.stats.BoxDistribution(ctx, documentID)
	if err != nil {
		return nil, NewServiceError("stats", "failed to read box distribution", err)
	}
	dist := domain.NewBoxDistribution()
	for box, n := range stored {
		if _, ok := dist[box]; ok {
			dist[box] = n
		}
	}

	results, err := s.stats.RecentResults(ctx, documentID, AccuracyWindow)
	if err != nil {
		return nil, NewServiceError("stats", "failed to read recent reviews", err)
	}

	weak, err := s.stats.WeakCards(ctx, documentID, WeakLimit)
	if err != nil {
		return nil, NewServiceError("stats", "failed to read weak cards", err)
	}

	return &domain.StudyStats{
		Total: total,
		Due:   due,
		Dist:  dist,
		Acc:   domain.NewAccuracy(results),
		Weak:  weak,
	}, nil
}

// StatsByDocument implements StatsService.StatsByDocument
func (s *statsServiceImpl) StatsByDocument(ctx context.Context) ([]domain.DocumentStats, error) {
	rows, err := s.stats.CountsByDocument(ctx, s.clock.Today())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count cards by document",
			slog.String("error", err.Error()))
		return nil, NewServiceError("stats_by_document", "failed to count cards by document", err)
	}
	return rows, nil
}
