package store

import (
	"context"
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
)

// StatsStore defines read-only aggregate queries over cards, schedules and reviews.
// Every method takes an optional document id restricting the scope.
type StatsStore interface {
	// Counts returns the number of cards and the number of SRS rows due on or
	// before today.
	Counts(ctx context.Context, documentID *int64, today time.Time) (total int, due int, err error)

	// BoxDistribution returns the number of SRS rows per box. Boxes without
	// cards are absent from the map.
	BoxDistribution(ctx context.Context, documentID *int64) (map[int]int, error)

	// RecentResults returns the verdicts of the latest limit reviews, newest first.
	RecentResults(ctx context.Context, documentID *int64, limit int) ([]bool, error)

	// WeakCards returns up to limit box-1 cards ordered by due date ascending,
	// then id descending, each with the verdict of its latest review.
	WeakCards(ctx context.Context, documentID *int64, limit int) ([]domain.CardWithLastResult, error)

	// CountsByDocument returns total and due counts grouped by document,
	// including one row for cards without a document.
	CountsByDocument(ctx context.Context, today time.Time) ([]domain.DocumentStats, error)
}
