package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

// ReviewStore implements the store.ReviewStore interface on database/sql.
type ReviewStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewReviewStore creates a new SQL implementation of the ReviewStore interface.
// If logger is nil, a default logger will be used.
func NewReviewStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *ReviewStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if dialect == nil {
		panic("dialect cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ReviewStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "review_store")),
	}
}

// Ensure ReviewStore implements store.ReviewStore interface
var _ store.ReviewStore = (*ReviewStore)(nil)

// Create implements store.ReviewStore.Create
func (s *ReviewStore) Create(ctx context.Context, review *domain.Review) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := review.Validate(); err != nil {
		log.Warn("review validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("card_id", review.CardID))
		return err
	}

	query := `
		INSERT INTO study_reviews (card_id, correct, source, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		s.dialect.Rebind(query),
		review.CardID,
		review.Correct,
		string(review.Source),
		review.CreatedAt.UTC(),
	).Scan(&review.ID)
	if err != nil {
		mapped := s.dialect.MapError(err)
		if errors.Is(mapped, store.ErrReferenceViolation) {
			log.Debug("review references missing card", slog.Int64("card_id", review.CardID))
			return store.ErrCardNotFound
		}
		log.Error("failed to create review",
			slog.String("error", err.Error()),
			slog.Int64("card_id", review.CardID))
		return store.NewStoreError("review", "create", mapped)
	}

	log.Debug("review logged",
		slog.Int64("review_id", review.ID),
		slog.Int64("card_id", review.CardID),
		slog.Bool("correct", review.Correct),
		slog.String("source", string(review.Source)))
	return nil
}

// WithTx implements store.ReviewStore.WithTx
func (s *ReviewStore) WithTx(tx *sql.Tx) store.ReviewStore {
	return &ReviewStore{
		db:      tx,
		dialect: s.dialect,
		logger:  s.logger,
	}
}
