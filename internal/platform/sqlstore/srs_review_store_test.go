package sqlstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSRSStoreRoundTrip(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	id := f.addCard(t, nil, "Q", "A", 1, testToday)

	state, err := f.srs.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Box)
	assert.Equal(t, "2024-05-20", domain.FormatDate(state.DueAt))
	assert.Nil(t, state.LastReviewAt)
	assert.Zero(t, state.CorrectStreak)

	reviewedAt := time.Date(2024, 5, 20, 14, 15, 16, 0, time.UTC)
	state.Box = 3
	state.DueAt = domain.AddDays(reviewedAt, 3)
	state.LastReviewAt = &reviewedAt
	state.CorrectStreak = 2
	require.NoError(t, f.srs.Update(ctx, state))

	got, err := f.srs.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Box)
	assert.Equal(t, "2024-05-23", domain.FormatDate(got.DueAt))
	require.NotNil(t, got.LastReviewAt)
	assert.True(t, reviewedAt.Equal(*got.LastReviewAt), "expected %v, got %v", reviewedAt, *got.LastReviewAt)
	assert.Equal(t, 2, got.CorrectStreak)
}

func TestSRSStoreErrors(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.srs.Get(ctx, 42)
	assert.ErrorIs(t, err, store.ErrSRSStateNotFound)

	err = f.srs.Create(ctx, &domain.SRSState{CardID: 42, Box: 1, DueAt: testToday})
	assert.ErrorIs(t, err, store.ErrCardNotFound)

	err = f.srs.Update(ctx, &domain.SRSState{CardID: 42, Box: 1, DueAt: testToday})
	assert.ErrorIs(t, err, store.ErrSRSStateNotFound)

	err = f.srs.Create(ctx, &domain.SRSState{CardID: 42, Box: 6, DueAt: testToday})
	assert.ErrorIs(t, err, domain.ErrInvalidBox)

	id := f.addCard(t, nil, "Q", "A", 1, testToday)
	err = f.srs.Create(ctx, &domain.SRSState{CardID: id, Box: 1, DueAt: testToday})
	assert.ErrorIs(t, err, store.ErrDuplicate, "one SRS row per card")
}

func TestReviewStoreCreate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	id := f.addCard(t, nil, "Q", "A", 1, testToday)

	first, err := domain.NewReview(id, true, domain.ReviewSourceQuiz, testToday)
	require.NoError(t, err)
	require.NoError(t, f.reviews.Create(ctx, first))
	second, err := domain.NewReview(id, false, domain.ReviewSourceSession, testToday)
	require.NoError(t, err)
	require.NoError(t, f.reviews.Create(ctx, second))

	assert.Greater(t, second.ID, first.ID)

	var (
		correct bool
		source  string
	)
	require.NoError(t, f.db.QueryRow(`SELECT correct, source FROM study_reviews WHERE id = ?`, first.ID).
		Scan(&correct, &source))
	assert.True(t, correct)
	assert.Equal(t, "quiz", source)

	orphan, err := domain.NewReview(999, true, domain.ReviewSourceSession, testToday)
	require.NoError(t, err)
	assert.ErrorIs(t, f.reviews.Create(ctx, orphan), store.ErrCardNotFound)

	assert.Error(t, f.reviews.Create(ctx, &domain.Review{CardID: id, Source: "exam"}))
}
