package gemini

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"strings"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/generation"
)

//go:embed prompts/qa_pairs.tmpl
var defaultPrompt string

// contentGenerator is the part of the genai client the extractor uses.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Extractor implements generation.Extractor by asking Gemini for
// question/answer pairs.
type Extractor struct {
	logger         *slog.Logger
	models         contentGenerator
	model          string
	promptTemplate *template.Template
	maxRetries     int
	baseDelay      time.Duration
}

var _ generation.Extractor = (*Extractor)(nil)

// NewExtractor creates an Extractor with a live Gemini client.
//
// The prompt comes from cfg.PromptTemplatePath when set, otherwise the
// built-in template is used. Returns an error wrapping
// generation.ErrInvalidConfig when the API key or model is missing or the
// template cannot be loaded.
func NewExtractor(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Extractor, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	logger = logger.With(slog.String("component", "gemini_extractor"))

	cfg, err := validateConfig(ctx, logger, cfg)
	if err != nil {
		return nil, err
	}

	tmpl, err := loadTemplate(cfg.PromptTemplatePath)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	logger.InfoContext(ctx, "Gemini extractor initialised", "model", cfg.ModelName)
	return newExtractor(logger, client.Models, cfg.ModelName, tmpl,
		cfg.MaxRetries, time.Duration(cfg.RetryDelaySeconds)*time.Second), nil
}

func newExtractor(
	logger *slog.Logger,
	models contentGenerator,
	model string,
	tmpl *template.Template,
	maxRetries int,
	baseDelay time.Duration,
) *Extractor {
	return &Extractor{
		logger:         logger,
		models:         models,
		model:          model,
		promptTemplate: tmpl,
		maxRetries:     maxRetries,
		baseDelay:      baseDelay,
	}
}

// loadTemplate parses the template at path, or the built-in one when path
// is empty.
func loadTemplate(path string) (*template.Template, error) {
	content := defaultPrompt
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
				generation.ErrInvalidConfig, path, err)
		}
		content = string(raw)
	}

	tmpl, err := template.New("qa_pairs").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}
	return tmpl, nil
}

// ExtractPairs implements generation.Extractor.
func (e *Extractor) ExtractPairs(ctx context.Context, text string) ([]domain.QAPair, error) {
	if strings.TrimSpace(text) == "" {
		return []domain.QAPair{}, nil
	}

	prompt, err := e.createPrompt(ctx, text)
	if err != nil {
		return nil, err
	}

	response, err := e.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return e.parseResponse(ctx, response), nil
}

// createPrompt renders the prompt template around text.
func (e *Extractor) createPrompt(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", ErrEmptyText
	}

	var buf bytes.Buffer
	if err := e.promptTemplate.Execute(&buf, promptData{Text: text}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	e.logger.DebugContext(ctx, "Prompt generated",
		"text_length", len(text),
		"prompt_length", buf.Len())
	return buf.String(), nil
}

// callWithRetry calls the model up to maxRetries+1 times. Transient errors
// are retried after baseDelay * 2^attempt scaled by a jitter factor in
// [0.5, 1.0); blocked content and malformed replies are returned at once.
func (e *Extractor) callWithRetry(ctx context.Context, prompt string) (*ResponseSchema, error) {
	if prompt == "" {
		return nil, ErrEmptyText
	}

	genConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		e.logger.DebugContext(ctx, "Making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", e.maxRetries+1)

		resp, err := e.models.GenerateContent(ctx, e.model, genai.Text(prompt), genConfig)
		if err == nil {
			parsed, perr := decodeResponse(resp)
			if perr == nil {
				return parsed, nil
			}
			e.logger.WarnContext(ctx, "Permanent error occurred, not retrying",
				"attempt", attemptNum,
				"error", perr)
			return nil, perr
		}

		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}

		e.logger.WarnContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		if attempt >= e.maxRetries {
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, e.maxRetries, err)
		}

		delay := e.backoff(attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			e.logger.WarnContext(ctx, "API call cancelled during retry delay",
				"attempt", attemptNum,
				"ctx_err", ctx.Err())
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// backoff returns the wait before the retry that follows attempt.
func (e *Extractor) backoff(attempt int) time.Duration {
	backoff := float64(e.baseDelay) * math.Pow(2, float64(attempt))
	jitter := 0.5 + rand.Float64()*0.5
	return time.Duration(backoff * jitter)
}

// decodeResponse pulls the JSON reply out of the first candidate.
func decodeResponse(resp *genai.GenerateContentResponse) (*ResponseSchema, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return nil, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}

	var parsed ResponseSchema
	if err := json.Unmarshal([]byte(stripCodeFence(text.String())), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
	}
	return &parsed, nil
}

// stripCodeFence removes a markdown code fence some models wrap JSON in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// parseResponse converts the reply into pairs, dropping entries with an
// empty side.
func (e *Extractor) parseResponse(ctx context.Context, response *ResponseSchema) []domain.QAPair {
	pairs := make([]domain.QAPair, 0, len(response.Pairs))
	for _, p := range response.Pairs {
		q := strings.TrimSpace(p.Question)
		a := strings.TrimSpace(p.Answer)
		if q == "" || a == "" {
			continue
		}
		pairs = append(pairs, domain.QAPair{Question: q, Answer: a})
	}

	e.logger.InfoContext(ctx, "Parsed Gemini response",
		"received", len(response.Pairs),
		"kept", len(pairs))
	return pairs
}
