package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

// StatsStore implements the store.StatsStore interface on database/sql.
type StatsStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewStatsStore creates a new SQL implementation of the StatsStore interface.
// If logger is nil, a default logger will be used.
func NewStatsStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *StatsStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if dialect == nil {
		panic("dialect cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &StatsStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "stats_store")),
	}
}

// Ensure StatsStore implements store.StatsStore interface
var _ store.StatsStore = (*StatsStore)(nil)

// Counts implements store.StatsStore.Counts
func (s *StatsStore) Counts(ctx context.Context, documentID *int64, today time.Time) (int, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := documentScope(documentID, "")
	var total int
	if err := s.db.QueryRowContext(
		ctx,
		s.dialect.Rebind("SELECT COUNT(*) FROM study_cards c"+where),
		args...,
	).Scan(&total); err != nil {
		log.Error("failed to count cards", slog.String("error", err.Error()))
		return 0, 0, s.dialect.MapError(err)
	}

	where, args = documentScope(documentID, "s.due_at <= ?", s.dialect.DateValue(today))
	query := `
		SELECT COUNT(*)
		FROM study_srs s
		JOIN study_cards c ON c.id = s.card_id` + where
	var due int
	if err := s.db.QueryRowContext(ctx, s.dialect.Rebind(query), args...).Scan(&due); err != nil {
		log.Error("failed to count due cards", slog.String("error", err.Error()))
		return 0, 0, s.dialect.MapError(err)
	}

	return total, due, nil
}

// BoxDistribution implements store.StatsStore.BoxDistribution
func (s *StatsStore) BoxDistribution(ctx context.Context, documentID *int64) (map[int]int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := documentScope(documentID, "")
	query := `
		SELECT s.box, COUNT(*)
		FROM study_srs s
		JOIN study_cards c ON c.id = s.card_id` + where + `
		GROUP BY s.box
	`

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		log.Error("failed to query box distribution", slog.String("error", err.Error()))
		return nil, s.dialect.MapError(err)
	}
	defer closeRows(log, rows)

	dist := make(map[int]int)
	for rows.Next() {
		var box, count int
		if err := rows.Scan(&box, &count); err != nil {
			return nil, s.dialect.MapError(err)
		}
		dist[box] = count
	}
	if err := rows.Err(); err != nil {
		return nil, s.dialect.MapError(err)
	}

	return dist, nil
}

// RecentResults implements store.StatsStore.RecentResults
func (s *StatsStore) RecentResults(ctx context.Context, documentID *int64, limit int) ([]bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	results := make([]bool, 0)
	if limit <= 0 {
		return results, nil
	}

	where, args := documentScope(documentID, "")
	query := `
		SELECT r.correct
		FROM study_reviews r
		JOIN study_cards c ON c.id = r.card_id` + where + `
		ORDER BY r.id DESC
		LIMIT ?
	`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		log.Error("failed to query recent reviews", slog.String("error", err.Error()))
		return nil, s.dialect.MapError(err)
	}
	defer closeRows(log, rows)

	for rows.Next() {
		var correct bool
		if err := rows.Scan(&correct); err != nil {
			return nil, s.dialect.MapError(err)
		}
		results = append(results, correct)
	}
	if err := rows.Err(); err != nil {
		return nil, s.dialect.MapError(err)
	}

	return results, nil
}

// WeakCards implements store.StatsStore.WeakCards
func (s *StatsStore) WeakCards(
	ctx context.Context,
	documentID *int64,
	limit int,
) ([]domain.CardWithLastResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	weak := make([]domain.CardWithLastResult, 0)
	if limit <= 0 {
		return weak, nil
	}

	where, args := documentScope(documentID, "s.box = ?", domain.MinBox)
	query := "SELECT" + cardScheduleColumns + `,
		(SELECT r.correct FROM study_reviews r
		 WHERE r.card_id = c.id
		 ORDER BY r.id DESC
		 LIMIT 1) AS last_result` + cardScheduleFrom + where + `
		ORDER BY s.due_at ASC, c.id DESC
		LIMIT ?
	`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		log.Error("failed to query weak cards", slog.String("error", err.Error()))
		return nil, s.dialect.MapError(err)
	}
	defer closeRows(log, rows)

	for rows.Next() {
		var last sql.NullBool
		card, err := scanCardWithSchedule(rows, &last)
		if err != nil {
			return nil, fmt.Errorf("failed to scan weak card: %w", s.dialect.MapError(err))
		}
		entry := domain.CardWithLastResult{CardWithSchedule: *card}
		if last.Valid {
			v := last.Bool
			entry.LastResult = &v
		}
		weak = append(weak, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, s.dialect.MapError(err)
	}

	return weak, nil
}

// CountsByDocument implements store.StatsStore.CountsByDocument
func (s *StatsStore) CountsByDocument(ctx context.Context, today time.Time) ([]domain.DocumentStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT c.document_id, d.title, COUNT(*),
			SUM(CASE WHEN s.due_at <= ? THEN 1 ELSE 0 END)
		FROM study_cards c
		LEFT JOIN documents d ON d.id = c.document_id
		LEFT JOIN study_srs s ON s.card_id = c.id
		GROUP BY c.document_id, d.title
		ORDER BY (c.document_id IS NULL), c.document_id DESC
	`

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), s.dialect.DateValue(today))
	if err != nil {
		log.Error("failed to query per-document counts", slog.String("error", err.Error()))
		return nil, s.dialect.MapError(err)
	}
	defer closeRows(log, rows)

	stats := make([]domain.DocumentStats, 0)
	for rows.Next() {
		var (
			entry      domain.DocumentStats
			documentID sql.NullInt64
			title      sql.NullString
			due        sql.NullInt64
		)
		if err := rows.Scan(&documentID, &title, &entry.Total, &due); err != nil {
			return nil, s.dialect.MapError(err)
		}
		entry.DocumentID = int64Ptr(documentID)
		entry.Title = stringPtr(title)
		entry.Due = int(due.Int64)
		stats = append(stats, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, s.dialect.MapError(err)
	}

	return stats, nil
}

// closeRows closes a result set, logging the error the deferred call would drop.
func closeRows(log *slog.Logger, rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}
