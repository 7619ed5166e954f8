package domain

import (
	"errors"
	"time"
)

// Leitner box bounds.
const (
	MinBox = 1
	MaxBox = 5
)

// Common validation errors for SRSState
var (
	ErrEmptySRSCardID = errors.New("srs state card ID cannot be empty")
	ErrNegativeStreak = errors.New("correct streak must be greater than or equal to 0")
	ErrMissingDueDate = errors.New("srs state due date cannot be empty")
)

// SRSState is the per-card Leitner scheduling state. There is exactly one
// row per card; review outcomes are its only mutator after creation.
type SRSState struct {
	CardID        int64      `json:"card_id"`
	Box           int        `json:"box"`            // Leitner box, 1..5
	DueAt         time.Time  `json:"due_at"`         // Calendar date, see DateOf
	LastReviewAt  *time.Time `json:"last_review_at"` // Nil until the first review
	CorrectStreak int        `json:"correct_streak"` // Consecutive correct answers
}

// NewSRSState creates the initial scheduling state for a card: box 1, due on
// the calendar day of now, no reviews yet.
func NewSRSState(cardID int64, now time.Time) (*SRSState, error) {
	state := &SRSState{
		CardID:        cardID,
		Box:           MinBox,
		DueAt:         DateOf(now),
		LastReviewAt:  nil,
		CorrectStreak: 0,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks if the SRSState has valid data.
func (s *SRSState) Validate() error {
	if s.CardID <= 0 {
		return ErrEmptySRSCardID
	}

	if s.Box < MinBox || s.Box > MaxBox {
		return ErrInvalidBox
	}

	if s.CorrectStreak < 0 {
		return ErrNegativeStreak
	}

	if s.DueAt.IsZero() {
		return ErrMissingDueDate
	}

	return nil
}

// IsDue reports whether the card should be reviewed on the given day.
func (s *SRSState) IsDue(today time.Time) bool {
	return !DateOf(s.DueAt).After(DateOf(today))
}
