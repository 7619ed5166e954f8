package extract

import (
	"context"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/generation"
)

// Heuristic adapts Pairs to the generation.Extractor interface.
type Heuristic struct{}

var _ generation.Extractor = Heuristic{}

// ExtractPairs implements generation.Extractor. It never fails.
func (Heuristic) ExtractPairs(_ context.Context, text string) ([]domain.QAPair, error) {
	return Pairs(text), nil
}
