package card_review

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/domain/srs"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

// QuizDistractors is the number of wrong options offered per quiz question.
const QuizDistractors = 3

// Verify interface compliance at compile time
var _ CardReviewService = (*cardReviewServiceImpl)(nil)

// Stores groups the persistence dependencies of the review service.
type Stores struct {
	Cards   store.CardStore
	SRS     store.SRSStore
	Reviews store.ReviewStore
	Stats   store.StatsStore
}

// cardReviewServiceImpl implements the CardReviewService interface.
type cardReviewServiceImpl struct {
	db          *sql.DB
	stores      Stores
	srsService  srs.Service
	distractors DistractorPicker
	clock       domain.Clock
	shuffle     func(n int, swap func(i, j int))
	logger      *slog.Logger
}

// NewCardReviewService creates a new CardReviewService implementation.
func NewCardReviewService(
	db *sql.DB,
	stores Stores,
	srsService srs.Service,
	distractors DistractorPicker,
	clock domain.Clock,
	logger *slog.Logger,
) CardReviewService {
	// Validate inputs
	if db == nil {
		panic("db cannot be nil")
	}
	if stores.Cards == nil || stores.SRS == nil || stores.Reviews == nil || stores.Stats == nil {
		panic("stores cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if distractors == nil {
		panic("distractors cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &cardReviewServiceImpl{
		db:          db,
		stores:      stores,
		srsService:  srsService,
		distractors: distractors,
		clock:       clock,
		shuffle:     rand.Shuffle,
		logger:      logger.With(slog.String("component", "card_review_service")),
	}
}

// ReviewCard implements CardReviewService.ReviewCard.
func (s *cardReviewServiceImpl) ReviewCard(
	ctx context.Context,
	cardID int64,
	correct bool,
	source string,
) (*domain.SRSState, error) {
	// Get logger from context or use default
	log := logger.FromContextOrDefault(ctx, s.logger)

	src, err := domain.ParseReviewSource(strings.TrimSpace(source))
	if err != nil {
		log.Warn("invalid review source",
			slog.Int64("card_id", cardID),
			slog.String("source", source))
		return nil, err
	}

	now := s.clock.Now()
	var updated *domain.SRSState
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		srsStore := s.stores.SRS.WithTx(tx)

		state, err := srsStore.Get(ctx, cardID)
		if errors.Is(err, store.ErrSRSStateNotFound) {
			log.Warn("srs state missing, creating default",
				slog.Int64("card_id", cardID))
			state, err = domain.NewSRSState(cardID, now)
			if err != nil {
				return NewReviewCardError("failed to build default state", err)
			}
			if err := srsStore.Create(ctx, state); err != nil {
				if errors.Is(err, store.ErrCardNotFound) {
					return store.ErrCardNotFound
				}
				return NewReviewCardError("failed to create default state", err)
			}
		} else if err != nil {
			return NewReviewCardError("failed to load state", err)
		}

		next, err := s.srsService.CalculateNextReview(state, correct, now)
		if err != nil {
			return NewReviewCardError("failed to calculate next review", err)
		}
		if err := srsStore.Update(ctx, next); err != nil {
			return NewReviewCardError("failed to update state", err)
		}

		review, err := domain.NewReview(cardID, correct, src, now)
		if err != nil {
			return NewReviewCardError("failed to build review", err)
		}
		if err := s.stores.Reviews.WithTx(tx).Create(ctx, review); err != nil {
			if errors.Is(err, store.ErrCardNotFound) {
				return store.ErrCardNotFound
			}
			return NewReviewCardError("failed to log review", err)
		}

		updated = next
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to review card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", cardID))
		return nil, err
	}

	log.Debug("card reviewed",
		slog.Int64("card_id", cardID),
		slog.Bool("correct", correct),
		slog.String("source", string(src)),
		slog.Int("box", updated.Box),
		slog.String("due_at", domain.FormatDate(updated.DueAt)))
	return updated, nil
}

// GetNextDueCard implements CardReviewService.GetNextDueCard.
func (s *cardReviewServiceImpl) GetNextDueCard(
	ctx context.Context,
	documentID *int64,
) (*domain.CardWithSchedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.stores.Cards.GetNextDue(ctx, documentID, s.clock.Today())
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			log.Debug("no cards due for review")
			return nil, ErrNoCardsDue
		}
		log.Error("failed to get next due card", slog.String("error", err.Error()))
		return nil, NewGetNextCardError("failed to get next due card", err)
	}
	return card, nil
}

// GetRandomCard implements CardReviewService.GetRandomCard.
func (s *cardReviewServiceImpl) GetRandomCard(
	ctx context.Context,
	documentID *int64,
) (*domain.CardWithSchedule, error) {
	card, err := s.stores.Cards.GetRandom(ctx, documentID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, ErrNoCards
		}
		return nil, NewGetNextCardError("failed to get random card", err)
	}
	return card, nil
}

// GetCounts implements CardReviewService.GetCounts.
func (s *cardReviewServiceImpl) GetCounts(ctx context.Context, documentID *int64) (int, int, error) {
	total, due, err := s.stores.Stats.Counts(ctx, documentID, s.clock.Today())
	if err != nil {
		return 0, 0, &ServiceError{Operation: "get_counts", Message: "failed to count cards", Err: err}
	}
	return total, due, nil
}

// NextSessionCard implements CardReviewService.NextSessionCard.
func (s *cardReviewServiceImpl) NextSessionCard(ctx context.Context, documentID *int64) (*SessionCard, error) {
	card, err := s.GetNextDueCard(ctx, documentID)
	if err == nil {
		return &SessionCard{CardWithSchedule: *card}, nil
	}
	if !errors.Is(err, ErrNoCardsDue) {
		return nil, err
	}

	card, err = s.GetRandomCard(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return &SessionCard{CardWithSchedule: *card, Practice: true}, nil
}

// NextQuizQuestion implements CardReviewService.NextQuizQuestion.
func (s *cardReviewServiceImpl) NextQuizQuestion(ctx context.Context, documentID *int64) (*QuizQuestion, error) {
	card, err := s.NextSessionCard(ctx, documentID)
	if err != nil {
		return nil, err
	}

	distractors, err := s.distractors.PickDistractors(ctx, card.ID, card.DocumentID, QuizDistractors)
	if err != nil {
		return nil, NewQuizError("failed to pick distractors", err)
	}

	options := make([]string, 0, len(distractors)+1)
	options = append(options, strings.TrimSpace(card.Answer))
	options = append(options, distractors...)
	s.shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return &QuizQuestion{
		CardID:     card.ID,
		Question:   card.Question,
		DocumentID: card.DocumentID,
		Options:    options,
		Practice:   card.Practice,
	}, nil
}

// AnswerQuiz implements CardReviewService.AnswerQuiz.
func (s *cardReviewServiceImpl) AnswerQuiz(ctx context.Context, cardID int64, answer string) (*QuizResult, error) {
	card, err := s.stores.Cards.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, store.ErrCardNotFound
		}
		return nil, NewQuizError("failed to load card", err)
	}

	expected := strings.TrimSpace(card.Answer)
	correct := strings.TrimSpace(answer) == expected

	state, err := s.ReviewCard(ctx, cardID, correct, string(domain.ReviewSourceQuiz))
	if err != nil {
		return nil, err
	}

	return &QuizResult{
		Correct:       correct,
		CorrectAnswer: expected,
		State:         state,
	}, nil
}
