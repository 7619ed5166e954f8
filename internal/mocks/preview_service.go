package mocks

import (
	"context"

	"github.com/phrazzld/scry-study/internal/service/preview"
)

// MockPreviewService stands in for *preview.Service in handler tests
type MockPreviewService struct {
	GenerateFn func(ctx context.Context, req preview.GenerateRequest) (*preview.GenerateResult, error)
	CommitFn   func(ctx context.Context, token string, picks []int) (*preview.CommitResult, error)

	GenerateResult *preview.GenerateResult
	CommitResult   *preview.CommitResult
	DefaultError   error
}

// Generate mirrors preview.Service.Generate
func (m *MockPreviewService) Generate(ctx context.Context, req preview.GenerateRequest) (*preview.GenerateResult, error) {
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, req)
	}
	return m.GenerateResult, m.DefaultError
}

// Commit mirrors preview.Service.Commit
func (m *MockPreviewService) Commit(ctx context.Context, token string, picks []int) (*preview.CommitResult, error) {
	if m.CommitFn != nil {
		return m.CommitFn(ctx, token, picks)
	}
	return m.CommitResult, m.DefaultError
}
