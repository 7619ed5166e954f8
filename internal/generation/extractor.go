package generation

import (
	"context"
	"log/slog"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
)

// Extractor turns free text into question/answer candidates.
type Extractor interface {
	// ExtractPairs returns the candidate pairs found in text, in the order
	// they appear. An empty result with a nil error means nothing was found.
	ExtractPairs(ctx context.Context, text string) ([]domain.QAPair, error)
}

// ExtractorFunc adapts a plain function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, text string) ([]domain.QAPair, error)

// ExtractPairs implements Extractor.
func (f ExtractorFunc) ExtractPairs(ctx context.Context, text string) ([]domain.QAPair, error) {
	return f(ctx, text)
}

// fallbackExtractor tries primary first and answers with secondary when
// primary fails.
type fallbackExtractor struct {
	primary   Extractor
	secondary Extractor
	logger    *slog.Logger
}

// WithFallback returns an Extractor that uses secondary whenever primary
// returns an error. Preview generation uses it so an unavailable LLM degrades
// to heuristic extraction instead of failing the whole batch.
func WithFallback(primary, secondary Extractor, log *slog.Logger) Extractor {
	if primary == nil || secondary == nil {
		panic("extractors cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &fallbackExtractor{
		primary:   primary,
		secondary: secondary,
		logger:    log.With(slog.String("component", "fallback_extractor")),
	}
}

// ExtractPairs implements Extractor.
func (e *fallbackExtractor) ExtractPairs(ctx context.Context, text string) ([]domain.QAPair, error) {
	pairs, err := e.primary.ExtractPairs(ctx, text)
	if err == nil {
		return pairs, nil
	}

	log := logger.FromContextOrDefault(ctx, e.logger)
	log.Warn("primary extractor failed, using fallback",
		slog.String("error", err.Error()),
		slog.Int("text_length", len(text)))

	return e.secondary.ExtractPairs(ctx, text)
}
