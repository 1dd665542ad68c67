// Package scoring computes the two heuristic percentages derived from an
// upstream market snapshot. Both functions are pure and total: they are
// defined for every combination of inputs, including absent ones.
package scoring

import (
	"math"

	"BiasDesk/internal/domain/models"
)

const confidenceFloor = 10

// Top-probability breakpoints of the price/realized-price ratio and the
// percentages anchored at them.
const (
	topRatioLow  = 1.0
	topRatioMid  = 1.18
	topRatioHigh = 1.36

	topPctLow = 10
	topPctMid = 60
	topPctMax = 90
)

// ConfidenceScore returns a 0-100 percentage expressing how strongly ratio
// diverges from its slow moving average in the direction implied by the
// signal. It returns 0 when either numeric input is missing; every other
// outcome is at least the floor of 10, including degenerate inputs such as a
// zero or negative moving average.
//
// The divergence is normalized against half the moving average, so a gap of
// 0.5*slowMA or more saturates at 100. When the ratio sits on the confirming
// side of the average (above it for BUY, below it for SELL) the signal is
// considered weakly aligned and only the floor is returned. A high score
// therefore means "strong divergence", not "likely correct".
func ConfidenceScore(signal models.Signal, ratio, slowMA *float64) int {
	if ratio == nil || slowMA == nil {
		return 0
	}
	r, ma := *ratio, *slowMA

	switch signal {
	case models.SignalBuy:
		if r > ma {
			return confidenceFloor
		}
		return normalizedDivergence(ma-r, ma)
	case models.SignalSell:
		if r < ma {
			return confidenceFloor
		}
		return normalizedDivergence(r-ma, ma)
	default:
		return confidenceFloor
	}
}

func normalizedDivergence(distance, slowMA float64) int {
	// a zero or negative average gives no baseline to normalize against;
	// dividing by it would produce NaN or a negative score
	if slowMA <= 0 {
		return confidenceFloor
	}
	score := math.Min(math.Abs(distance)/(0.5*slowMA)*100, 100)
	return int(math.Round(math.Max(score, confidenceFloor)))
}

// TopProbability returns a 0-90 percentage expressing, via the ratio of the
// current price to the short-term realized price, how likely the current
// price is a local market top. Missing or zero inputs yield 0; a ratio below
// 1 means the top already passed and also yields 0. Between the breakpoints
// 1.0, 1.18 and 1.36 the output interpolates linearly through 10, 60 and 90,
// saturating at 90 for ratios of 1.36 and above.
func TopProbability(price, shortTermRealizedPrice *float64) int {
	if price == nil || shortTermRealizedPrice == nil {
		return 0
	}
	if *price == 0 || *shortTermRealizedPrice == 0 {
		return 0
	}
	r := *price / *shortTermRealizedPrice

	switch {
	case r < topRatioLow:
		return 0
	case r >= topRatioHigh:
		return topPctMax
	case r >= topRatioMid:
		slope := float64(topPctMax-topPctMid) / (topRatioHigh - topRatioMid)
		return int(math.Round(float64(topPctMid) + slope*(r-topRatioMid)))
	default:
		return int(math.Round(float64(topPctLow) + (r-topRatioLow)/(topRatioMid-topRatioLow)*float64(topPctMid-topPctLow)))
	}
}

// Compute derives both scores from a snapshot.
func Compute(snap models.MarketSnapshot) models.ScoreResult {
	return models.ScoreResult{
		ConfidenceScore: ConfidenceScore(snap.LastSignal, snap.Ratio, snap.SlowMA),
		TopProbability:  TopProbability(snap.Price, snap.ShortTermRealizedPrice),
	}
}
