package gemini

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/generation"
)

// fakeModels replays scripted responses, one per call.
type fakeModels struct {
	responses []*genai.GenerateContentResponse
	errs      []error
	calls     int
	prompts   []string
}

func (f *fakeModels) GenerateContent(
	_ context.Context,
	_ string,
	contents []*genai.Content,
	_ *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	i := f.calls
	f.calls++
	for _, c := range contents {
		for _, p := range c.Parts {
			f.prompts = append(f.prompts, p.Text)
		}
	}
	var resp *genai.GenerateContentResponse
	if i < len(f.responses) {
		resp = f.responses[i]
	}
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return resp, err
}

func textResponse(text string, reason genai.FinishReason) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: []*genai.Part{{Text: text}}},
			FinishReason: reason,
		}},
	}
}

func testExtractor(t *testing.T, models contentGenerator, retries int) *Extractor {
	t.Helper()
	tmpl, err := loadTemplate("")
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newExtractor(logger, models, "gemini-test", tmpl, retries, time.Millisecond)
}

func TestExtractPairs(t *testing.T) {
	t.Parallel()
	models := &fakeModels{responses: []*genai.GenerateContentResponse{
		textResponse(`{"pairs":[{"question":" 2+2? ","answer":"4"},{"question":"","answer":"x"}]}`, genai.FinishReasonStop),
	}}
	ex := testExtractor(t, models, 0)

	pairs, err := ex.ExtractPairs(context.Background(), "Arithmetic notes")
	require.NoError(t, err)
	assert.Equal(t, []domain.QAPair{{Question: "2+2?", Answer: "4"}}, pairs)
	require.Len(t, models.prompts, 1)
	assert.Contains(t, models.prompts[0], "Arithmetic notes")
}

func TestExtractPairsEmptyText(t *testing.T) {
	t.Parallel()
	models := &fakeModels{}
	ex := testExtractor(t, models, 0)

	pairs, err := ex.ExtractPairs(context.Background(), "  \n")
	require.NoError(t, err)
	assert.Empty(t, pairs)
	assert.Zero(t, models.calls, "no API call for empty text")
}

func TestExtractPairsCodeFence(t *testing.T) {
	t.Parallel()
	models := &fakeModels{responses: []*genai.GenerateContentResponse{
		textResponse("```json\n{\"pairs\":[{\"question\":\"Q\",\"answer\":\"A\"}]}\n```", genai.FinishReasonStop),
	}}
	pairs, err := testExtractor(t, models, 0).ExtractPairs(context.Background(), "text")
	require.NoError(t, err)
	assert.Len(t, pairs, 1)
}

func TestExtractPairsRetries(t *testing.T) {
	t.Parallel()
	unavailable := errors.New("503 unavailable")

	t.Run("succeeds after transient failures", func(t *testing.T) {
		models := &fakeModels{
			errs: []error{unavailable, unavailable, nil},
			responses: []*genai.GenerateContentResponse{
				nil, nil, textResponse(`{"pairs":[{"question":"Q","answer":"A"}]}`, genai.FinishReasonStop),
			},
		}
		pairs, err := testExtractor(t, models, 3).ExtractPairs(context.Background(), "text")
		require.NoError(t, err)
		assert.Len(t, pairs, 1)
		assert.Equal(t, 3, models.calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		models := &fakeModels{errs: []error{unavailable, unavailable, unavailable}}
		_, err := testExtractor(t, models, 2).ExtractPairs(context.Background(), "text")
		assert.ErrorIs(t, err, generation.ErrTransientFailure)
		assert.Equal(t, 3, models.calls)
	})

	t.Run("does not retry blocked content", func(t *testing.T) {
		models := &fakeModels{responses: []*genai.GenerateContentResponse{
			textResponse("", genai.FinishReasonSafety),
		}}
		_, err := testExtractor(t, models, 3).ExtractPairs(context.Background(), "text")
		assert.ErrorIs(t, err, generation.ErrContentBlocked)
		assert.Equal(t, 1, models.calls)
	})

	t.Run("does not retry malformed replies", func(t *testing.T) {
		models := &fakeModels{responses: []*genai.GenerateContentResponse{
			textResponse("not json", genai.FinishReasonStop),
		}}
		_, err := testExtractor(t, models, 3).ExtractPairs(context.Background(), "text")
		assert.ErrorIs(t, err, generation.ErrInvalidResponse)
		assert.Equal(t, 1, models.calls)
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		models := &fakeModels{errs: []error{context.Canceled}}
		_, err := testExtractor(t, models, 3).ExtractPairs(ctx, "text")
		assert.ErrorIs(t, err, generation.ErrTransientFailure)
		assert.Equal(t, 1, models.calls)
	})
}

func TestDecodeResponseErrors(t *testing.T) {
	t.Parallel()
	_, err := decodeResponse(nil)
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)

	_, err = decodeResponse(&genai.GenerateContentResponse{})
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)

	_, err = decodeResponse(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonStop}},
	})
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)
}

func TestBackoff(t *testing.T) {
	t.Parallel()
	ex := testExtractor(t, &fakeModels{}, 3)
	ex.baseDelay = time.Second

	for attempt := 0; attempt < 3; attempt++ {
		full := time.Second << attempt
		d := ex.backoff(attempt)
		assert.GreaterOrEqual(t, d, full/2)
		assert.Less(t, d, full)
	}
}

func TestLoadTemplate(t *testing.T) {
	t.Parallel()

	tmpl, err := loadTemplate("")
	require.NoError(t, err)
	var out strings.Builder
	require.NoError(t, tmpl.Execute(&out, promptData{Text: "a < b & c"}))
	assert.Contains(t, out.String(), "a < b & c", "text must not be HTML-escaped")

	path := filepath.Join(t.TempDir(), "custom.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("Pairs from: {{.Text}}"), 0o600))
	tmpl, err = loadTemplate(path)
	require.NoError(t, err)
	out.Reset()
	require.NoError(t, tmpl.Execute(&out, promptData{Text: "x"}))
	assert.Equal(t, "Pairs from: x", out.String())

	_, err = loadTemplate(filepath.Join(t.TempDir(), "missing.tmpl"))
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestNewExtractorValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewExtractor(ctx, nil, config.LLMConfig{})
	assert.Error(t, err)

	_, err = NewExtractor(ctx, logger, config.LLMConfig{ModelName: "m"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = NewExtractor(ctx, logger, config.LLMConfig{GeminiAPIKey: "k"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	cfg, err := validateConfig(ctx, logger, config.LLMConfig{
		GeminiAPIKey:      "k",
		ModelName:         "m",
		MaxRetries:        -1,
		RetryDelaySeconds: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, defaultMaxRetries, cfg.MaxRetries)
	assert.Equal(t, defaultRetryDelaySeconds, cfg.RetryDelaySeconds)
}
