package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

// DefaultDistractors is the number of wrong options a quiz question carries.
const DefaultDistractors = 3

// DistractorSelector picks plausible wrong answers for a quiz question.
type DistractorSelector struct {
	cards  store.CardStore
	logger *slog.Logger
}

// NewDistractorSelector creates a DistractorSelector over cards.
func NewDistractorSelector(cards store.CardStore, logger *slog.Logger) *DistractorSelector {
	if cards == nil {
		panic("cards cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DistractorSelector{
		cards:  cards,
		logger: logger.With(slog.String("component", "distractor_selector")),
	}
}

// PickDistractors returns up to k distinct answers from cards other than
// excludeCardID. Answers from the same document are preferred; the shortfall
// is topped up from the whole collection. Answers equal to the excluded card's
// own answer are never returned. A k of zero or less means DefaultDistractors.
func (d *DistractorSelector) PickDistractors(
	ctx context.Context,
	excludeCardID int64,
	documentID *int64,
	k int,
) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, d.logger)
	if k <= 0 {
		k = DefaultDistractors
	}

	var correct string
	target, err := d.cards.GetByID(ctx, excludeCardID)
	switch {
	case err == nil:
		correct = strings.TrimSpace(target.Answer)
	case errors.Is(err, store.ErrCardNotFound):
		// Without a target there is nothing to filter against.
	default:
		return nil, NewServiceError("pick_distractors", "failed to load card", err)
	}

	picked := make([]string, 0, k)
	seen := make(map[string]struct{}, k)
	add := func(answers []string) {
		for _, a := range answers {
			if len(picked) == k {
				return
			}
			a = strings.TrimSpace(a)
			if a == "" || (correct != "" && a == correct) {
				continue
			}
			if _, dup := seen[a]; dup {
				continue
			}
			seen[a] = struct{}{}
			picked = append(picked, a)
		}
	}

	if documentID != nil {
		answers, err := d.cards.RandomAnswers(ctx, excludeCardID, documentID, k)
		if err != nil {
			return nil, NewServiceError("pick_distractors", "failed to load document answers", err)
		}
		add(answers)
	}

	if short := k - len(picked); short > 0 {
		answers, err := d.cards.RandomAnswers(ctx, excludeCardID, nil, short)
		if err != nil {
			return nil, NewServiceError("pick_distractors", "failed to load answers", err)
		}
		add(answers)
	}

	log.Debug("picked distractors",
		slog.Int64("card_id", excludeCardID),
		slog.Int("count", len(picked)))
	return picked, nil
}
