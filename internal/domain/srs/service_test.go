package srs

import (
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
)

func TestServiceCalculateNextReview(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC)

	state, err := domain.NewSRSState(1, now)
	if err != nil {
		t.Fatalf("Failed to create state: %v", err)
	}

	// Scenario: new card, correct then incorrect
	next, err := svc.CalculateNextReview(state, true, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if next.Box != 2 || domain.FormatDate(next.DueAt) != "2024-05-21" || next.CorrectStreak != 1 {
		t.Errorf("Expected box 2 due 2024-05-21 streak 1, got %+v", next)
	}

	next, err = svc.CalculateNextReview(next, false, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if next.Box != 1 || domain.FormatDate(next.DueAt) != "2024-05-20" || next.CorrectStreak != 0 {
		t.Errorf("Expected box 1 due 2024-05-20 streak 0, got %+v", next)
	}
}

func TestServiceCalculateNextReviewErrors(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Now()

	if _, err := svc.CalculateNextReview(nil, true, now); err != ErrNilState {
		t.Errorf("Expected ErrNilState, got %v", err)
	}

	bad := &domain.SRSState{CardID: 1, Box: 9, DueAt: now}
	if _, err := svc.CalculateNextReview(bad, true, now); !errors.Is(err, domain.ErrInvalidBox) {
		t.Errorf("Expected ErrInvalidBox, got %v", err)
	}
}

func TestNewServiceWithParams(t *testing.T) {
	t.Parallel()
	params := NewParams(ParamsConfig{Box2IntervalDays: 2})
	svc := NewServiceWithParams(params)
	now := time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC)

	next, err := svc.CalculateNextReview(&domain.SRSState{CardID: 1, Box: 1, DueAt: now}, true, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if domain.FormatDate(next.DueAt) != "2024-05-22" {
		t.Errorf("Expected custom interval to apply, got %s", domain.FormatDate(next.DueAt))
	}

	if NewServiceWithParams(nil).Params().Interval(5) != 14 {
		t.Error("nil params should fall back to defaults")
	}
}
