package generation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticExtractor(pairs []domain.QAPair, err error) generation.Extractor {
	return generation.ExtractorFunc(func(context.Context, string) ([]domain.QAPair, error) {
		return pairs, err
	})
}

func TestWithFallback(t *testing.T) {
	t.Parallel()
	primaryPairs := []domain.QAPair{{Question: "from", Answer: "primary"}}
	secondaryPairs := []domain.QAPair{{Question: "from", Answer: "secondary"}}

	t.Run("primary succeeds", func(t *testing.T) {
		ex := generation.WithFallback(
			staticExtractor(primaryPairs, nil),
			staticExtractor(secondaryPairs, nil),
			nil,
		)
		got, err := ex.ExtractPairs(context.Background(), "text")
		require.NoError(t, err)
		assert.Equal(t, primaryPairs, got)
	})

	t.Run("primary fails", func(t *testing.T) {
		ex := generation.WithFallback(
			staticExtractor(nil, generation.ErrTransientFailure),
			staticExtractor(secondaryPairs, nil),
			nil,
		)
		got, err := ex.ExtractPairs(context.Background(), "text")
		require.NoError(t, err)
		assert.Equal(t, secondaryPairs, got)
	})

	t.Run("both fail", func(t *testing.T) {
		boom := errors.New("boom")
		ex := generation.WithFallback(
			staticExtractor(nil, generation.ErrContentBlocked),
			staticExtractor(nil, boom),
			nil,
		)
		_, err := ex.ExtractPairs(context.Background(), "text")
		assert.ErrorIs(t, err, boom)
	})
}

func TestWithFallbackPanicsOnNil(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		generation.WithFallback(nil, staticExtractor(nil, nil), nil)
	})
}
