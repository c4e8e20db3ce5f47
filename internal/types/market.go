package types

import "time"

// MarketSnapshot is a point-in-time view of one symbol's price data.
// Snapshots are immutable values; a refresh replaces them wholesale.
type MarketSnapshot struct {
	// Symbol is the base asset symbol, e.g. "BTC"
	Symbol string `json:"symbol" yaml:"symbol"`
	// Price is the last traded price
	Price float64 `json:"price" yaml:"price"`
	// High24h is the highest price in the trailing 24 hours
	High24h float64 `json:"high_24h" yaml:"high_24h"`
	// Low24h is the lowest price in the trailing 24 hours
	Low24h float64 `json:"low_24h" yaml:"low_24h"`
	// Volume is the trailing 24 hour traded volume
	Volume float64 `json:"volume" yaml:"volume"`
	// CapturedAt is when the snapshot was taken
	CapturedAt time.Time `json:"captured_at" yaml:"captured_at"`
}

// SentimentSignal is the coarse classification of a sentiment score.
type SentimentSignal string

const (
	SentimentSignalBuy     SentimentSignal = "BUY"
	SentimentSignalSell    SentimentSignal = "SELL"
	SentimentSignalNeutral SentimentSignal = "NEUTRAL"
)

// Sentiment score bounds. Strategy thresholds are calibrated against this range.
const (
	SentimentScoreMin = -0.15
	SentimentScoreMax = 0.15
)

// SentimentSnapshot is a point-in-time sentiment reading for one symbol.
type SentimentSnapshot struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	// Score is the compound sentiment score, bounded to [SentimentScoreMin, SentimentScoreMax]
	Score float64 `json:"score" yaml:"score"`
	// SocialVolume is the estimated number of social posts in the window
	SocialVolume uint `json:"social_volume" yaml:"social_volume"`
	// Confidence is the reading's confidence in [0, 1]
	Confidence float64 `json:"confidence" yaml:"confidence"`
	// Signal is the classification of Score against the source thresholds
	Signal     SentimentSignal `json:"signal" yaml:"signal"`
	CapturedAt time.Time       `json:"captured_at" yaml:"captured_at"`
}

// Ticker is a raw price quote returned by an exchange.
type Ticker struct {
	Symbol string  `json:"symbol"`
	Last   float64 `json:"last"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Volume float64 `json:"volume"`
}

// ClampSentimentScore bounds a score to the sentiment range.
func ClampSentimentScore(score float64) float64 {
	if score < SentimentScoreMin {
		return SentimentScoreMin
	}

	if score > SentimentScoreMax {
		return SentimentScoreMax
	}

	return score
}
