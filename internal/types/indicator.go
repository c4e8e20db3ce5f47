package types

// Trend is the direction classification derived from indicators.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// IndicatorSource records how an IndicatorSet was computed.
type IndicatorSource string

const (
	// IndicatorSourceProxy means the values were derived from a single snapshot's 24h range
	IndicatorSourceProxy IndicatorSource = "proxy"
	// IndicatorSourceRolling means the values were computed over the rolling price history
	IndicatorSourceRolling IndicatorSource = "rolling"
)

// IndicatorSet holds the technical indicators for one symbol in the current cycle.
// It is recomputed each cycle and never persisted.
type IndicatorSet struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	// RSI is the relative strength index in [0, 100]
	RSI float64 `json:"rsi" yaml:"rsi"`
	// MACD is the moving average convergence/divergence value (or its proxy)
	MACD  float64 `json:"macd" yaml:"macd"`
	Trend Trend   `json:"trend" yaml:"trend"`
	// ATR is the average true range estimate, in price units
	ATR    float64         `json:"atr" yaml:"atr"`
	Source IndicatorSource `json:"source" yaml:"source"`
}
