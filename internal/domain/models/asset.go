package models

import "strings"

// AssetSymbol is one of the four assets the desk advises on.
type AssetSymbol string

const (
	AssetBTC AssetSymbol = "BTC"
	AssetSPX AssetSymbol = "SPX"
	AssetXAU AssetSymbol = "XAU"
	AssetXAG AssetSymbol = "XAG"
)

// AllAssets lists every supported symbol, in display order.
var AllAssets = []AssetSymbol{AssetBTC, AssetSPX, AssetXAU, AssetXAG}

// ManualBiasAssets are the symbols whose bias is only set via the admin API.
// BTC and SPX are owned by the periodic refresh.
var ManualBiasAssets = []AssetSymbol{AssetXAU, AssetXAG}

// ParseAsset normalizes s and returns the matching symbol.
func ParseAsset(s string) (AssetSymbol, bool) {
	a := AssetSymbol(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllAssets {
		if a == known {
			return known, true
		}
	}
	return "", false
}

// IsManualBiasAsset reports whether a may be mutated by the admin endpoint.
func IsManualBiasAsset(a AssetSymbol) bool {
	for _, m := range ManualBiasAssets {
		if a == m {
			return true
		}
	}
	return false
}

// BiasValue is a categorical directional lean attached to an asset.
type BiasValue string

const (
	BiasBullish BiasValue = "bullish"
	BiasBearish BiasValue = "bearish"
	BiasNeutral BiasValue = "neutral"
)

// AllBiases lists the closed set of bias values.
var AllBiases = []BiasValue{BiasBullish, BiasBearish, BiasNeutral}

// ParseBias normalizes s and returns the matching bias value.
func ParseBias(s string) (BiasValue, bool) {
	b := BiasValue(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllBiases {
		if b == known {
			return known, true
		}
	}
	return "", false
}
