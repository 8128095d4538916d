package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nlquery/internal/domain"
	"github.com/kailas-cloud/nlquery/internal/domain/canon"
	"github.com/kailas-cloud/nlquery/internal/domain/query"
	"github.com/kailas-cloud/nlquery/internal/domain/schema"
	"github.com/kailas-cloud/nlquery/internal/metrics"
)

// Translator defaults (Groq's OpenAI-compatible endpoint).
const (
	DefaultBaseURL     = "https://api.groq.com/openai/v1"
	DefaultModel       = "llama-3.3-70b-versatile"
	DefaultTemperature = 0.1
	DefaultMaxTokens   = 500
	DefaultProvider    = "groq"
)

// Translator turns free text into a candidate draft via an OpenAI-compatible
// chat completions API. Its output is untrusted.
type Translator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	jsonMode    bool
	provider    string
	prompt      string
	logger      *zap.Logger
}

// Config holds the translator settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	// JSONMode requests a JSON object response format where the provider supports it.
	JSONMode bool
	Provider string
	Logger   *zap.Logger
}

// NewTranslator creates a translator whose system prompt describes the
// whitelist and the canonical codes of the registry.
func NewTranslator(cfg *Config, w *schema.Whitelist, reg *canon.Registry) *Translator {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = baseURL

	t := &Translator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		jsonMode:    cfg.JSONMode,
		provider:    cfg.Provider,
		prompt:      BuildPrompt(w, reg),
		logger:      cfg.Logger,
	}
	if t.model == "" {
		t.model = DefaultModel
	}
	if t.temperature == 0 {
		t.temperature = DefaultTemperature
	}
	if t.maxTokens <= 0 {
		t.maxTokens = DefaultMaxTokens
	}
	if t.provider == "" {
		t.provider = DefaultProvider
	}
	if t.logger == nil {
		t.logger = zap.NewNop()
	}
	return t
}

// Translate implements nlq.Translator.
func (t *Translator) Translate(ctx context.Context, text string) (query.Draft, error) {
	req := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: t.prompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: t.temperature,
		MaxTokens:   t.maxTokens,
	}
	if t.jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()

	resp, err := t.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		t.failure("api_error")
		return query.Draft{}, parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		t.failure("empty_response")
		return query.Draft{}, fmt.Errorf("empty completion response: %w", domain.ErrTranslationFailed)
	}

	metrics.TranslatorRequestsTotal.WithLabelValues(t.provider, t.model, "success").Inc()
	metrics.TranslatorRequestDuration.WithLabelValues(t.provider, t.model).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.TranslatorTokensTotal.WithLabelValues(t.provider, t.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.TranslatorTokensTotal.WithLabelValues(t.provider, t.model, "completion").
			Add(float64(resp.Usage.CompletionTokens))
	}

	content := resp.Choices[0].Message.Content
	draft, err := ExtractDraft(content)
	if err != nil {
		metrics.TranslatorErrorsTotal.WithLabelValues(t.provider, t.model, "parse_error").Inc()
		t.logger.Warn("translator returned unparseable output",
			zap.String("model", t.model),
			zap.String("output", truncate(content, 200)),
		)
		return query.Draft{}, err
	}
	return draft, nil
}

func (t *Translator) failure(kind string) {
	metrics.TranslatorRequestsTotal.WithLabelValues(t.provider, t.model, "error").Inc()
	metrics.TranslatorErrorsTotal.WithLabelValues(t.provider, t.model, kind).Inc()
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (t *Translator) HealthCheck(ctx context.Context) error {
	if _, err := t.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// ExtractDraft parses model output as a JSON document, falling back to the
// first ```json or ``` fenced block. Anything else fails translation.
func ExtractDraft(content string) (query.Draft, error) {
	s := strings.TrimSpace(content)
	if d, err := query.ParseDraft([]byte(s)); err == nil {
		return d, nil
	}

	for _, marker := range []string{"```json", "```"} {
		_, rest, found := strings.Cut(s, marker)
		if !found {
			continue
		}
		inner, _, closed := strings.Cut(rest, "```")
		if !closed {
			continue
		}
		if d, err := query.ParseDraft([]byte(strings.TrimSpace(inner))); err == nil {
			return d, nil
		}
	}

	return query.Draft{}, fmt.Errorf("non-JSON translator output %q: %w",
		truncate(s, 200), domain.ErrTranslationFailed)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrTranslationFailed for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrTranslationFailed

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("completion API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("completion request: %w: %w", err, wrap)
	}

	return fmt.Errorf("completion request failed: %w", wrap)
}

// extractDetail extracts the "detail" or "error.message" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
		Error  struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &parsed) != nil {
		return ""
	}
	if parsed.Detail != "" {
		return parsed.Detail
	}
	return parsed.Error.Message
}
