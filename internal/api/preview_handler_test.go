package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/mocks"
	"github.com/phrazzld/scry-study/internal/service/preview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPreviewRouter(svc *mocks.MockPreviewService) http.Handler {
	h := NewPreviewHandler(svc, slog.Default())
	r := chi.NewRouter()
	r.Post("/api/study/preview", h.Generate)
	r.Post("/api/study/preview/commit", h.Commit)
	return r
}

func TestGeneratePreview(t *testing.T) {
	t.Run("batch is returned with counts", func(t *testing.T) {
		var got preview.GenerateRequest
		svc := &mocks.MockPreviewService{
			GenerateFn: func(_ context.Context, req preview.GenerateRequest) (*preview.GenerateResult, error) {
				got = req
				return &preview.GenerateResult{
					Token: "4f1c",
					Items: []domain.PreviewItem{
						{Question: "Q1", Answer: "A1"},
						{Question: "Q2", Answer: "A2", IsDup: true},
					},
					Total:    2,
					NewCount: 1,
					DupCount: 1,
				}, nil
			},
		}

		rr := doRequest(t, newPreviewRouter(svc), http.MethodPost, "/api/study/preview",
			map[string]interface{}{"include_notes": true, "include_docs": false, "document_id": 3})

		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, got.IncludeNotes)
		assert.False(t, got.IncludeDocs)
		require.NotNil(t, got.DocumentID)
		assert.Equal(t, int64(3), *got.DocumentID)

		var resp preview.GenerateResult
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "4f1c", resp.Token)
		assert.Len(t, resp.Items, 2)
		assert.Equal(t, 1, resp.DupCount)
	})

	t.Run("no source selected", func(t *testing.T) {
		svc := &mocks.MockPreviewService{DefaultError: preview.ErrNoSource}

		rr := doRequest(t, newPreviewRouter(svc), http.MethodPost, "/api/study/preview", preview.GenerateRequest{})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Select notes, documents or both")
	})
}

func TestCommitPreview(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		result         *preview.CommitResult
		serviceErr     error
		expectedStatus int
	}{
		{
			name:           "committed",
			body:           CommitRequest{Token: "4f1c", Picks: []int{0, 1, 9}},
			result:         &preview.CommitResult{Created: 1, SkippedDup: 1, Selected: 2},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "expired token",
			body:           CommitRequest{Token: "4f1c", Picks: []int{0}},
			serviceErr:     preview.ErrExpiredOrUnknownToken,
			expectedStatus: http.StatusGone,
		},
		{
			name:           "missing token",
			body:           map[string]interface{}{"picks": []int{0}},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mocks.MockPreviewService{CommitResult: tc.result, DefaultError: tc.serviceErr}

			rr := doRequest(t, newPreviewRouter(svc), http.MethodPost, "/api/study/preview/commit", tc.body)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedStatus == http.StatusOK {
				var resp preview.CommitResult
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, *tc.result, resp)
			}
		})
	}
}
