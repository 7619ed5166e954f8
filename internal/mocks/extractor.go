package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/generation"
)

var _ generation.Extractor = (*MockExtractor)(nil)

// MockExtractor implements generation.Extractor for testing
type MockExtractor struct {
	// ExtractPairsFn allows test cases to mock the ExtractPairs behavior
	ExtractPairsFn func(ctx context.Context, text string) ([]domain.QAPair, error)

	// Default response values
	Pairs []domain.QAPair
	Err   error

	// Call tracking for verification
	ExtractPairsCalls struct {
		// mu protects the call tracking state for concurrent callers
		mu sync.Mutex

		// Count tracks how many times ExtractPairs was called
		Count int

		// Texts contains all texts passed to ExtractPairs calls
		Texts []string
	}
}

// ExtractPairs implements the generation.Extractor interface
func (m *MockExtractor) ExtractPairs(ctx context.Context, text string) ([]domain.QAPair, error) {
	m.ExtractPairsCalls.mu.Lock()
	m.ExtractPairsCalls.Count++
	m.ExtractPairsCalls.Texts = append(m.ExtractPairsCalls.Texts, text)
	m.ExtractPairsCalls.mu.Unlock()

	if m.ExtractPairsFn != nil {
		return m.ExtractPairsFn(ctx, text)
	}
	return m.Pairs, m.Err
}

// CallCount returns the number of ExtractPairs calls so far
func (m *MockExtractor) CallCount() int {
	m.ExtractPairsCalls.mu.Lock()
	defer m.ExtractPairsCalls.mu.Unlock()
	return m.ExtractPairsCalls.Count
}

// NewMockExtractorWithPairs creates a MockExtractor that returns the specified pairs
func NewMockExtractorWithPairs(pairs ...domain.QAPair) *MockExtractor {
	return &MockExtractor{Pairs: pairs}
}

// MockExtractorThatFails creates a MockExtractor that simulates an extraction failure
func MockExtractorThatFails() *MockExtractor {
	return &MockExtractor{Err: generation.ErrGenerationFailed}
}

// MockExtractorWithTransientFailure creates a MockExtractor that simulates a transient failure
func MockExtractorWithTransientFailure() *MockExtractor {
	return &MockExtractor{Err: generation.ErrTransientFailure}
}

// Reset resets the call tracking state
func (m *MockExtractor) Reset() {
	m.ExtractPairsCalls.mu.Lock()
	defer m.ExtractPairsCalls.mu.Unlock()

	m.ExtractPairsCalls.Count = 0
	m.ExtractPairsCalls.Texts = nil
}
