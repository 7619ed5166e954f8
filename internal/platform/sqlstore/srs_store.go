package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

// SRSStore implements the store.SRSStore interface on database/sql.
type SRSStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewSRSStore creates a new SQL implementation of the SRSStore interface.
// If logger is nil, a default logger will be used.
func NewSRSStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *SRSStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if dialect == nil {
		panic("dialect cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SRSStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "srs_store")),
	}
}

// Ensure SRSStore implements store.SRSStore interface
var _ store.SRSStore = (*SRSStore)(nil)

// Create implements store.SRSStore.Create
func (s *SRSStore) Create(ctx context.Context, state *domain.SRSState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("srs state validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("card_id", state.CardID))
		return err
	}

	query := `
		INSERT INTO study_srs (card_id, box, due_at, last_review_at, correct_streak)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(
		ctx,
		s.dialect.Rebind(query),
		state.CardID,
		state.Box,
		s.dialect.DateValue(state.DueAt),
		utcPtr(state.LastReviewAt),
		state.CorrectStreak,
	)
	if err != nil {
		mapped := s.dialect.MapError(err)
		if errors.Is(mapped, store.ErrReferenceViolation) {
			log.Debug("srs state references missing card", slog.Int64("card_id", state.CardID))
			return store.ErrCardNotFound
		}
		log.Error("failed to create srs state",
			slog.String("error", err.Error()),
			slog.Int64("card_id", state.CardID))
		return store.NewStoreError("srs state", "create", mapped)
	}

	log.Debug("srs state created",
		slog.Int64("card_id", state.CardID),
		slog.String("due_at", domain.FormatDate(state.DueAt)))
	return nil
}

// Get implements store.SRSStore.Get
func (s *SRSStore) Get(ctx context.Context, cardID int64) (*domain.SRSState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT card_id, box, due_at, last_review_at, correct_streak
		FROM study_srs
		WHERE card_id = ?
	`

	var (
		state        domain.SRSState
		dueAt        any
		lastReviewAt any
	)
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(query), cardID).Scan(
		&state.CardID,
		&state.Box,
		&dueAt,
		&lastReviewAt,
		&state.CorrectStreak,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("srs state not found", slog.Int64("card_id", cardID))
			return nil, store.ErrSRSStateNotFound
		}
		log.Error("failed to get srs state",
			slog.String("error", err.Error()),
			slog.Int64("card_id", cardID))
		return nil, s.dialect.MapError(err)
	}

	if state.DueAt, err = toDate(dueAt); err != nil {
		return nil, fmt.Errorf("srs state %d due_at: %w", cardID, err)
	}
	if state.LastReviewAt, err = toTimePtr(lastReviewAt); err != nil {
		return nil, fmt.Errorf("srs state %d last_review_at: %w", cardID, err)
	}

	return &state, nil
}

// Update implements store.SRSStore.Update
func (s *SRSStore) Update(ctx context.Context, state *domain.SRSState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("srs state validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("card_id", state.CardID))
		return err
	}

	query := `
		UPDATE study_srs
		SET box = ?, due_at = ?, last_review_at = ?, correct_streak = ?
		WHERE card_id = ?
	`
	result, err := s.db.ExecContext(
		ctx,
		s.dialect.Rebind(query),
		state.Box,
		s.dialect.DateValue(state.DueAt),
		utcPtr(state.LastReviewAt),
		state.CorrectStreak,
		state.CardID,
	)
	if err != nil {
		log.Error("failed to update srs state",
			slog.String("error", err.Error()),
			slog.Int64("card_id", state.CardID))
		return store.NewStoreError("srs state", "update", s.dialect.MapError(err))
	}

	if err := checkRowsAffected(result, store.ErrSRSStateNotFound); err != nil {
		return err
	}

	log.Debug("srs state updated",
		slog.Int64("card_id", state.CardID),
		slog.Int("box", state.Box),
		slog.String("due_at", domain.FormatDate(state.DueAt)))
	return nil
}

// WithTx implements store.SRSStore.WithTx
func (s *SRSStore) WithTx(tx *sql.Tx) store.SRSStore {
	return &SRSStore{
		db:      tx,
		dialect: s.dialect,
		logger:  s.logger,
	}
}

// utcPtr normalises an optional timestamp for binding. A nil pointer binds NULL.
func utcPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
