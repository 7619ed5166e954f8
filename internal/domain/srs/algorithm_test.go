package srs

import (
	"testing"
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
)

func TestCalculateNextBox(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		box      int
		correct  bool
		expected int
	}{
		{name: "correct from box 1", box: 1, correct: true, expected: 2},
		{name: "correct from box 2", box: 2, correct: true, expected: 3},
		{name: "correct from box 3", box: 3, correct: true, expected: 4},
		{name: "correct from box 4", box: 4, correct: true, expected: 5},
		{name: "correct saturates at box 5", box: 5, correct: true, expected: 5},
		{name: "incorrect from box 1", box: 1, correct: false, expected: 1},
		{name: "incorrect from box 3", box: 3, correct: false, expected: 1},
		{name: "incorrect from box 5", box: 5, correct: false, expected: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := calculateNextBox(tc.box, tc.correct)
			if result != tc.expected {
				t.Errorf("Expected box %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestCalculateNextStreak(t *testing.T) {
	t.Parallel()

	if got := calculateNextStreak(3, true); got != 4 {
		t.Errorf("Expected streak 4, got %d", got)
	}
	if got := calculateNextStreak(3, false); got != 0 {
		t.Errorf("Expected streak 0, got %d", got)
	}
}

func TestCalculateDueDate(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2024, 1, 30, 23, 59, 0, 0, time.UTC)

	expected := map[int]string{
		1: "2024-01-30",
		2: "2024-01-31",
		3: "2024-02-02",
		4: "2024-02-06",
		5: "2024-02-13",
	}

	for box, want := range expected {
		got := domain.FormatDate(calculateDueDate(box, now, params))
		if got != want {
			t.Errorf("box %d: expected due %s, got %s", box, want, got)
		}
	}
}

// Every box: a correct review lands in min(5, b+1) with the matching interval,
// and an incorrect one lands in box 1, streak 0, due the same day.
func TestCalculateNextStateAllBoxes(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	intervals := map[int]int{1: 0, 2: 1, 3: 3, 4: 7, 5: 14}

	for box := 1; box <= 5; box++ {
		original := &domain.SRSState{
			CardID:        9,
			Box:           box,
			DueAt:         domain.DateOf(now),
			CorrectStreak: 2,
		}

		next := calculateNextState(original, true, now, params)
		wantBox := box + 1
		if wantBox > 5 {
			wantBox = 5
		}
		if next.Box != wantBox {
			t.Errorf("box %d correct: expected box %d, got %d", box, wantBox, next.Box)
		}
		if !next.DueAt.Equal(domain.AddDays(now, intervals[wantBox])) {
			t.Errorf("box %d correct: expected due +%d days, got %v", box, intervals[wantBox], next.DueAt)
		}
		if next.CorrectStreak != 3 {
			t.Errorf("box %d correct: expected streak 3, got %d", box, next.CorrectStreak)
		}
		if next.LastReviewAt == nil || !next.LastReviewAt.Equal(now) {
			t.Errorf("box %d correct: expected last review at %v, got %v", box, now, next.LastReviewAt)
		}

		missed := calculateNextState(original, false, now, params)
		if missed.Box != 1 || missed.CorrectStreak != 0 || !missed.DueAt.Equal(domain.DateOf(now)) {
			t.Errorf("box %d incorrect: expected box 1, streak 0, due today, got %+v", box, missed)
		}

		// Input must stay untouched
		if original.Box != box || original.CorrectStreak != 2 || original.LastReviewAt != nil {
			t.Errorf("box %d: original state was modified: %+v", box, original)
		}
	}
}
