// Package llm implements the Advisor against an OpenAI-compatible
// completion API.
package llm

import (
	"context"
	"fmt"
	"time"

	"BiasDesk/internal/domain/models"
	"BiasDesk/internal/domain/repository"
	"BiasDesk/pkg/config"
	applogger "BiasDesk/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/kaptinlin/jsonrepair"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
	"github.com/samber/lo"
)

// OpenAIAdvisor calls a chat-completion endpoint and parses the structured
// reply. Malformed replies degrade to raw text instead of failing.
type OpenAIAdvisor struct {
	client      openai.Client
	model       string
	temperature float64
	timeout     time.Duration
	logger      *applogger.Logger
	metrics     repository.Metrics
}

// New creates an Advisor from config. BaseURL switches between OpenAI and
// compatible providers.
func New(cfg *config.Config, l *applogger.Logger, m repository.Metrics) *OpenAIAdvisor {
	opts := []option.RequestOption{option.WithAPIKey(cfg.LLM.APIKey)}
	if cfg.LLM.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.LLM.BaseURL))
	}

	return &OpenAIAdvisor{
		client:      openai.NewClient(opts...),
		model:       cfg.LLM.Model,
		temperature: cfg.LLM.Temperature,
		timeout:     cfg.LLM.Timeout,
		logger:      l,
		metrics:     m,
	}
}

// Advise sends the constrained prompt and returns the structured reply. When
// the reply cannot be repaired into valid JSON the raw completion text is
// returned as the second value with a nil error.
func (a *OpenAIAdvisor) Advise(ctx context.Context, req repository.AdviceRequest) (models.Advice, string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	param := openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(BuildUserPrompt(req)),
		},
		Temperature: openai.Float(a.temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: lo.ToPtr(shared.NewResponseFormatJSONObjectParam()),
		},
	}

	completion, err := a.client.Chat.Completions.New(ctx, param)
	if err != nil {
		a.metrics.RecordLLMCall("error")
		return lo.Empty[models.Advice](), "", fmt.Errorf("completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		a.metrics.RecordLLMCall("empty")
		return lo.Empty[models.Advice](), "", fmt.Errorf("completion returned no choices")
	}

	raw := completion.Choices[0].Message.Content
	advice, err := ParseAdvice(raw)
	if err != nil {
		a.logger.Warn("llm reply not parseable, falling back to raw text", applogger.Error(err))
		a.metrics.RecordLLMCall("raw_fallback")
		return lo.Empty[models.Advice](), raw, nil
	}

	a.metrics.RecordLLMCall("ok")
	return advice, "", nil
}

// ParseAdvice repairs and decodes an LLM reply into an Advice. A reply with
// an empty advice field counts as unparseable.
func ParseAdvice(content string) (models.Advice, error) {
	repaired, err := jsonrepair.JSONRepair(content)
	if err != nil {
		return lo.Empty[models.Advice](), fmt.Errorf("repair json: %w", err)
	}

	var advice models.Advice
	if err := sonic.Unmarshal([]byte(repaired), &advice); err != nil {
		return lo.Empty[models.Advice](), fmt.Errorf("decode advice: %w", err)
	}
	if advice.Advice == "" {
		return lo.Empty[models.Advice](), fmt.Errorf("reply missing advice field")
	}
	if advice.Disclaimer == "" {
		advice.Disclaimer = Disclaimer
	}
	return advice, nil
}
