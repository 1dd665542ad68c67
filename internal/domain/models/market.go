package models

// Signal is the external source's directional call.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
)

// BiasForSignal maps an upstream signal to the bias the refresher stores.
func BiasForSignal(s Signal) BiasValue {
	switch s {
	case SignalBuy:
		return BiasBullish
	case SignalSell:
		return BiasBearish
	default:
		return BiasNeutral
	}
}

// MarketSnapshot is the transient per-request view of the upstream source.
// Numeric fields are nil when the corresponding upstream value could not be
// fetched or parsed; LastSignal defaults to HOLD on failure. The snapshot is
// total: producing one never fails.
type MarketSnapshot struct {
	LastSignal             Signal   `json:"last_signal"`
	Ratio                  *float64 `json:"ratio"`
	SlowMA                 *float64 `json:"slow_ma"`
	Price                  *float64 `json:"price"`
	ShortTermRealizedPrice *float64 `json:"short_term_realized_price"`
}

// DefaultSnapshot is what the adapter returns when every upstream fetch fails.
func DefaultSnapshot() MarketSnapshot {
	return MarketSnapshot{LastSignal: SignalHold}
}

// ScoreResult carries the two heuristic percentages derived from a snapshot.
type ScoreResult struct {
	// ConfidenceScore is 0 when inputs are missing, otherwise in [10,100].
	// It measures signal/trend divergence, not correctness.
	ConfidenceScore int `json:"confidence_score"`
	// TopProbability is in [0,90].
	TopProbability int `json:"top_probability"`
}
