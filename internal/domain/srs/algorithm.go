package srs

import (
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
)

// calculateNextBox determines the Leitner box a card moves to after a review.
//
// Parameters:
//   - box: The card's current box, 1..5
//   - correct: Whether the card was answered correctly
//
// Returns:
//   - The new box, always within domain.MinBox..domain.MaxBox
//
// Algorithm behavior:
//   - A correct answer promotes the card one box, saturating at the last box
//   - An incorrect answer sends the card back to the first box regardless of
//     where it was
func calculateNextBox(box int, correct bool) int {
	if !correct {
		return domain.MinBox
	}

	next := box + 1
	if next > domain.MaxBox {
		next = domain.MaxBox
	}
	if next < domain.MinBox {
		next = domain.MinBox
	}
	return next
}

// calculateNextStreak updates the consecutive-correct counter.
// A miss resets it to zero.
func calculateNextStreak(streak int, correct bool) int {
	if !correct {
		return 0
	}
	return streak + 1
}

// calculateDueDate determines the calendar day a card is next due.
//
// Parameters:
//   - box: The box the card has just moved into
//   - now: The time of the review; only its calendar day is used
//   - params: Configuration parameters holding the interval table
//
// Returns:
//   - The due date, as midnight UTC of the target calendar day
//
// Box 1 has a zero interval, so a missed card is due again the same day.
func calculateDueDate(box int, now time.Time, params *Params) time.Time {
	return domain.AddDays(now, params.Interval(box))
}

// calculateNextState creates a new SRSState with updated values based on the review outcome.
//
// The input is never modified. The returned state carries the new box, streak
// and due date, and LastReviewAt set to now.
func calculateNextState(
	state *domain.SRSState,
	correct bool,
	now time.Time,
	params *Params,
) *domain.SRSState {
	reviewedAt := now.UTC()
	box := calculateNextBox(state.Box, correct)

	return &domain.SRSState{
		CardID:        state.CardID,
		Box:           box,
		DueAt:         calculateDueDate(box, now, params),
		LastReviewAt:  &reviewedAt,
		CorrectStreak: calculateNextStreak(state.CorrectStreak, correct),
	}
}
