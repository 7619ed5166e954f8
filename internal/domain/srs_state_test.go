package domain

import (
	"testing"
	"time"
)

func TestNewSRSState(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 10, 18, 45, 0, 0, time.UTC)

	state, err := NewSRSState(42, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if state.Box != MinBox {
		t.Errorf("Expected box %d, got %d", MinBox, state.Box)
	}

	if !state.DueAt.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected due date 2024-03-10, got %v", state.DueAt)
	}

	if state.CorrectStreak != 0 {
		t.Errorf("Expected zero streak, got %d", state.CorrectStreak)
	}

	if state.LastReviewAt != nil {
		t.Errorf("Expected nil LastReviewAt, got %v", state.LastReviewAt)
	}

	if _, err := NewSRSState(0, now); err != ErrEmptySRSCardID {
		t.Errorf("Expected error %v, got %v", ErrEmptySRSCardID, err)
	}
}

func TestSRSStateValidate(t *testing.T) {
	t.Parallel()
	today := DateOf(time.Now())

	tests := []struct {
		name  string
		state SRSState
		want  error
	}{
		{"valid", SRSState{CardID: 1, Box: 3, DueAt: today}, nil},
		{"box too low", SRSState{CardID: 1, Box: 0, DueAt: today}, ErrInvalidBox},
		{"box too high", SRSState{CardID: 1, Box: 6, DueAt: today}, ErrInvalidBox},
		{"negative streak", SRSState{CardID: 1, Box: 1, DueAt: today, CorrectStreak: -1}, ErrNegativeStreak},
		{"missing due", SRSState{CardID: 1, Box: 1}, ErrMissingDueDate},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.state.Validate(); err != tc.want {
				t.Errorf("Expected error %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSRSStateIsDue(t *testing.T) {
	t.Parallel()
	today := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	state := SRSState{CardID: 1, Box: 2, DueAt: AddDays(today, 1)}

	if state.IsDue(today) {
		t.Error("card due tomorrow should not be due today")
	}

	if !state.IsDue(today.AddDate(0, 0, 1)) {
		t.Error("card should be due on its due date")
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if FormatDate(d) != "2024-02-29" {
		t.Errorf("Expected round trip, got %s", FormatDate(d))
	}
	if FormatDate(AddDays(d, 14)) != "2024-03-14" {
		t.Errorf("Expected 2024-03-14, got %s", FormatDate(AddDays(d, 14)))
	}

	if _, err := ParseDate("29/02/2024"); err == nil {
		t.Error("Expected an error for a non ISO date")
	}
}
