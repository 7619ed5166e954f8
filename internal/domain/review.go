package domain

import (
	"errors"
	"fmt"
	"time"
)

// ReviewSource tags where a review verdict came from.
type ReviewSource string

// Possible review source values
const (
	ReviewSourceSession ReviewSource = "session"
	ReviewSourceQuiz    ReviewSource = "quiz"
)

// ErrEmptyReviewCardID is returned when a review does not reference a card.
var ErrEmptyReviewCardID = errors.New("review card ID cannot be empty")

// Review is one entry of the append-only review log.
type Review struct {
	ID        int64        `json:"id"`
	CardID    int64        `json:"card_id"`
	Correct   bool         `json:"correct"`
	Source    ReviewSource `json:"source"`
	CreatedAt time.Time    `json:"created_at"`
}

// ParseReviewSource normalises a source tag. The empty string maps to
// ReviewSourceSession; any other unknown value is rejected.
func ParseReviewSource(s string) (ReviewSource, error) {
	switch ReviewSource(s) {
	case "":
		return ReviewSourceSession, nil
	case ReviewSourceSession, ReviewSourceQuiz:
		return ReviewSource(s), nil
	default:
		return "", fmt.Errorf("%w: %w: %q", ErrInvalidInput, ErrInvalidReviewSource, s)
	}
}

// NewReview creates a review log entry stamped with now.
func NewReview(cardID int64, correct bool, source ReviewSource, now time.Time) (*Review, error) {
	review := &Review{
		CardID:    cardID,
		Correct:   correct,
		Source:    source,
		CreatedAt: now.UTC(),
	}

	if err := review.Validate(); err != nil {
		return nil, err
	}

	return review, nil
}

// Validate checks if the Review has valid data.
func (r *Review) Validate() error {
	if r.CardID <= 0 {
		return ErrEmptyReviewCardID
	}

	if r.Source != ReviewSourceSession && r.Source != ReviewSourceQuiz {
		return ErrInvalidReviewSource
	}

	return nil
}
