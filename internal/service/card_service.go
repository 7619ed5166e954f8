package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

// CardService provides card-related operations
type CardService interface {
	// CreateCard stores a card with a fresh schedule (box 1, due today) in a
	// single transaction. When an identical card already exists its id is
	// returned with createdNew false and nothing is written.
	// Returns an error wrapping domain.ErrInvalidInput when question or answer
	// is empty after trimming.
	CreateCard(ctx context.Context, question, answer string, documentID, noteID *int64) (id int64, createdNew bool, err error)

	// UpdateCard overwrites question, answer and document id. The schedule and
	// review history are left as they are. Updating a missing card is a no-op.
	UpdateCard(ctx context.Context, id int64, question, answer string, documentID *int64) error

	// DeleteCard removes a card together with its schedule and reviews.
	// Returns store.ErrCardNotFound if the card does not exist.
	DeleteCard(ctx context.Context, id int64) error

	// GetCard retrieves a card with its document title and schedule.
	// Returns store.ErrCardNotFound if the card does not exist.
	GetCard(ctx context.Context, id int64) (*domain.CardWithSchedule, error)

	// ListCards returns cards ordered by due date, box, then newest first.
	ListCards(ctx context.Context, filter store.CardFilter) ([]domain.CardWithSchedule, error)
}

// cardServiceImpl implements the CardService interface
type cardServiceImpl struct {
	db     *sql.DB
	cards  store.CardStore
	srs    store.SRSStore
	clock  domain.Clock
	logger *slog.Logger
}

// NewCardService creates a new CardService.
// db is used to open the transaction that pairs card and schedule writes.
func NewCardService(
	db *sql.DB,
	cards store.CardStore,
	srs store.SRSStore,
	clock domain.Clock,
	logger *slog.Logger,
) CardService {
	if db == nil {
		panic("db cannot be nil")
	}
	if cards == nil {
		panic("cards cannot be nil")
	}
	if srs == nil {
		panic("srs cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &cardServiceImpl{
		db:     db,
		cards:  cards,
		srs:    srs,
		clock:  clock,
		logger: logger.With(slog.String("component", "card_service")),
	}
}

// CreateCard implements CardService.CreateCard
func (s *cardServiceImpl) CreateCard(
	ctx context.Context,
	question, answer string,
	documentID, noteID *int64,
) (int64, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := domain.NewCard(question, answer, documentID, noteID)
	if err != nil {
		log.Debug("rejected card", slog.String("error", err.Error()))
		return 0, false, err
	}
	now := s.clock.Now()
	card.CreatedAt = now.UTC()

	var (
		id         int64
		createdNew bool
	)
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCards := s.cards.WithTx(tx)

		existing, err := NewDedupIndex(txCards).Lookup(ctx, card.Key())
		if err == nil {
			id = existing
			return nil
		}
		if !errors.Is(err, store.ErrCardNotFound) {
			return NewServiceError("create_card", "failed to check for duplicates", err)
		}

		id, err = txCards.Create(ctx, card)
		if err != nil {
			return NewServiceError("create_card", "failed to save card", err)
		}

		state, err := domain.NewSRSState(id, now)
		if err != nil {
			return NewServiceError("create_card", "failed to build schedule", err)
		}
		if err := s.srs.WithTx(tx).Create(ctx, state); err != nil {
			return NewServiceError("create_card", "failed to save schedule", err)
		}

		createdNew = true
		return nil
	})
	if store.IsDuplicateError(err) {
		// A concurrent writer committed the same key after our lookup. The
		// failed transaction is gone, so look again outside it.
		existing, lookupErr := NewDedupIndex(s.cards).Lookup(ctx, card.Key())
		if lookupErr == nil {
			id, createdNew, err = existing, false, nil
		}
	}
	if err != nil {
		log.Error("failed to create card", slog.String("error", err.Error()))
		return 0, false, err
	}

	if createdNew {
		log.Info("card created", slog.Int64("card_id", id))
	} else {
		log.Debug("card already exists", slog.Int64("card_id", id))
	}
	return id, createdNew, nil
}

// UpdateCard implements CardService.UpdateCard
func (s *cardServiceImpl) UpdateCard(
	ctx context.Context,
	id int64,
	question, answer string,
	documentID *int64,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card := &domain.Card{
		ID:         id,
		Question:   strings.TrimSpace(question),
		Answer:     strings.TrimSpace(answer),
		DocumentID: documentID,
	}
	if err := card.Validate(); err != nil {
		return err
	}

	err := s.cards.Update(ctx, card)
	if errors.Is(err, store.ErrCardNotFound) {
		log.Debug("update of missing card ignored", slog.Int64("card_id", id))
		return nil
	}
	if err != nil {
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", id))
		return NewServiceError("update_card", "failed to update card", err)
	}

	return nil
}

// DeleteCard implements CardService.DeleteCard
func (s *cardServiceImpl) DeleteCard(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.cards.Delete(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrCardNotFound
		}
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", id))
		return NewServiceError("delete_card", "failed to delete card", err)
	}
	return nil
}

// GetCard implements CardService.GetCard
func (s *cardServiceImpl) GetCard(ctx context.Context, id int64) (*domain.CardWithSchedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cards.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to retrieve card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", id))
		return nil, NewServiceError("get_card", "failed to retrieve card", err)
	}
	return card, nil
}

// ListCards implements CardService.ListCards
func (s *cardServiceImpl) ListCards(ctx context.Context, filter store.CardFilter) ([]domain.CardWithSchedule, error) {
	cards, err := s.cards.List(ctx, filter)
	if err != nil {
		return nil, NewServiceError("list_cards", "failed to list cards", err)
	}
	return cards, nil
}
