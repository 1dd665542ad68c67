package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"BiasDesk/internal/domain/models"
	"BiasDesk/internal/domain/repository"
	"BiasDesk/internal/scoring"
	applogger "BiasDesk/pkg/logger"

	"github.com/samber/lo"
)

// AllowedTopics is the closed list of question topics the desk answers.
// Matching is case-insensitive substring, not exact.
var AllowedTopics = []string{"buy", "sell", "top", "trend"}

// ValidationError reports an invalid asset or question topic. It is returned
// before any external service is consulted.
type ValidationError struct {
	Field   string   `json:"field"`
	Message string   `json:"message"`
	Allowed []string `json:"allowed"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (allowed: %s)", e.Field, e.Message, strings.Join(e.Allowed, ", "))
}

// HasAllowedTopic reports whether the question mentions at least one allowed
// topic.
func HasAllowedTopic(question string) bool {
	q := strings.ToLower(question)
	return lo.SomeBy(AllowedTopics, func(topic string) bool {
		return strings.Contains(q, topic)
	})
}

// ChatOrchestrator validates a chat request, gathers bias, snapshot and
// scores, and delegates the final wording to the Advisor.
type ChatOrchestrator struct {
	bias    repository.BiasStore
	market  repository.MarketSource
	advisor repository.Advisor
	logger  *applogger.Logger
	metrics repository.Metrics
}

func NewChatOrchestrator(
	bias repository.BiasStore,
	market repository.MarketSource,
	advisor repository.Advisor,
	l *applogger.Logger,
	m repository.Metrics,
) *ChatOrchestrator {
	return &ChatOrchestrator{bias: bias, market: market, advisor: advisor, logger: l, metrics: m}
}

// HandleChat answers one question about one asset. Validation failures return
// a *ValidationError and never reach the LLM.
func (o *ChatOrchestrator) HandleChat(ctx context.Context, asset, question string) (*models.ChatResponse, error) {
	sym, ok := models.ParseAsset(asset)
	if !ok {
		o.metrics.RecordChatRequest(asset, "invalid_asset")
		return nil, &ValidationError{
			Field:   "asset",
			Message: fmt.Sprintf("unknown asset %q", asset),
			Allowed: assetNames(),
		}
	}

	if !HasAllowedTopic(question) {
		o.metrics.RecordChatRequest(string(sym), "invalid_topic")
		return nil, &ValidationError{
			Field:   "question",
			Message: "question does not mention a supported topic",
			Allowed: AllowedTopics,
		}
	}

	start := time.Now()

	bias := o.bias.Get(sym)
	snap := o.market.FetchSnapshot(ctx) // fresh per request, never cached
	scores := scoring.Compute(snap)
	o.metrics.RecordScores(string(sym), scores.ConfidenceScore, scores.TopProbability)

	advice, raw, err := o.advisor.Advise(ctx, repository.AdviceRequest{
		Asset:    sym,
		Question: question,
		Bias:     bias,
		Market:   snap,
		Scores:   scores,
	})
	if err != nil {
		o.metrics.RecordChatRequest(string(sym), "llm_error")
		o.logger.Error("advisor call failed",
			applogger.String("asset", string(sym)),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("advisor: %w", err)
	}

	resp := &models.ChatResponse{
		Asset:    sym,
		Question: question,
		Bias:     bias,
		Market:   snap,
		Scores:   scores,
		Reply:    advice,
		RawReply: raw,
	}

	outcome := "ok"
	if raw != "" {
		outcome = "raw_fallback"
	}
	o.metrics.RecordChatRequest(string(sym), outcome)
	o.metrics.RecordLatency("chat", time.Since(start).Seconds())

	return resp, nil
}

func assetNames() []string {
	return lo.Map(models.AllAssets, func(a models.AssetSymbol, _ int) string {
		return string(a)
	})
}
