package repository

import (
	"context"

	"BiasDesk/internal/domain/models"
)

// MarketSource fetches the upstream market view. FetchSnapshot is total:
// network or parse failures yield a snapshot with defaulted fields, never an
// error, so scoring's missing-input branches apply downstream.
type MarketSource interface {
	FetchSnapshot(ctx context.Context) models.MarketSnapshot
}

// BiasStore is the process-wide asset→bias mapping. Implementations must be
// safe for concurrent use and keep every asset present at all times.
type BiasStore interface {
	Get(asset models.AssetSymbol) models.BiasValue
	// Set mutates a manually-managed asset (XAU/XAG). Other assets are rejected.
	Set(asset models.AssetSymbol, bias models.BiasValue) error
	// ApplyRefresh stores the refreshed BTC bias and mirrors it onto SPX.
	ApplyRefresh(bias models.BiasValue)
	Snapshot() map[models.AssetSymbol]models.BiasValue
}

// Advisor produces a structured trading-advice reply from the LLM provider.
type Advisor interface {
	Advise(ctx context.Context, req AdviceRequest) (models.Advice, string, error)
}

// AdviceRequest bundles everything the prompt needs.
type AdviceRequest struct {
	Asset    models.AssetSymbol
	Question string
	Bias     models.BiasValue
	Market   models.MarketSnapshot
	Scores   models.ScoreResult
}

type Metrics interface {
	RecordChatRequest(asset, outcome string)
	RecordLLMCall(outcome string)
	RecordUpstreamError(source string)
	RecordBiasRefresh(outcome string)
	RecordBias(asset, bias string)
	RecordScores(asset string, confidence, topProbability int)
	RecordLatency(op string, seconds float64)
}
