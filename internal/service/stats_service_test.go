package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsEmpty(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	stats, err := e.stats.Stats(context.Background(), nil)
	require.NoError(t, err)

	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.Due)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}, stats.Dist)
	assert.Equal(t, domain.Accuracy{}, stats.Acc)
	assert.Empty(t, stats.Weak)
}

func TestStats(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	doc := ptr(int64(3))

	a := e.create(t, doc, "A?", "a")
	b := e.create(t, doc, "B?", "b")
	c := e.create(t, nil, "C?", "c")
	e.moveTo(t, b, 4, testNow.AddDate(0, 0, 7))

	e.review(t, a, true)
	e.review(t, a, false)
	e.review(t, b, true)
	e.review(t, c, true)

	stats, err := e.stats.Stats(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Due)
	assert.Equal(t, map[int]int{1: 2, 2: 0, 3: 0, 4: 1, 5: 0}, stats.Dist)
	assert.Equal(t, domain.Accuracy{N: 4, Correct: 3, Wrong: 1, Rate: 75}, stats.Acc)

	require.Len(t, stats.Weak, 2)
	assert.Equal(t, c, stats.Weak[0].ID, "weak cards break due ties newest first")
	assert.Equal(t, a, stats.Weak[1].ID)
	require.NotNil(t, stats.Weak[1].LastResult)
	assert.False(t, *stats.Weak[1].LastResult)

	scoped, err := e.stats.Stats(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 2, scoped.Total)
	assert.Equal(t, 1, scoped.Due)
	// 2 of 3 correct
	assert.Equal(t, domain.Accuracy{N: 3, Correct: 2, Wrong: 1, Rate: 67}, scoped.Acc)
}

func TestStatsLimits(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	first := e.create(t, nil, "Q0", "A0")
	for i := 1; i < service.WeakLimit+3; i++ {
		e.create(t, nil, fmt.Sprintf("Q%d", i), fmt.Sprintf("A%d", i))
	}
	for i := 0; i < service.AccuracyWindow; i++ {
		e.review(t, first, true)
	}
	// Older than the window once these land.
	for i := 0; i < 10; i++ {
		e.review(t, first, false)
	}

	stats, err := e.stats.Stats(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, stats.Weak, service.WeakLimit)
	assert.Equal(t, service.AccuracyWindow, stats.Acc.N)
	assert.Equal(t, 10, stats.Acc.Wrong, "only the latest reviews are counted")
}

func TestStatsByDocument(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	doc, err := e.content.CreateDocument(ctx, "Biology", "bio.pdf", "cells", 1)
	require.NoError(t, err)

	e.create(t, &doc.ID, "Cell?", "unit")
	later := e.create(t, &doc.ID, "DNA?", "helix")
	e.moveTo(t, later, 2, testNow.AddDate(0, 0, 1))
	e.create(t, nil, "Loose?", "card")

	rows, err := e.stats.StatsByDocument(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, &doc.ID, rows[0].DocumentID)
	assert.Equal(t, ptr("Biology"), rows[0].Title)
	assert.Equal(t, 2, rows[0].Total)
	assert.Equal(t, 1, rows[0].Due)

	assert.Nil(t, rows[1].DocumentID)
	assert.Equal(t, 1, rows[1].Total)
}
