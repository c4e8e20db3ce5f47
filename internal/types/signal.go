package types

import "time"

// Action is what a strategy or the adaptive model recommends doing with a symbol.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Features is the input vector of the adaptive signal model.
type Features struct {
	// SocialVolume is the number of social posts observed for the symbol
	SocialVolume float64 `json:"social_volume" yaml:"social_volume"`
	// SentimentScore is the compound sentiment score
	SentimentScore float64 `json:"sentiment_score" yaml:"sentiment_score"`
	// PriceVelocity is the fractional price change since the previous sample
	PriceVelocity float64 `json:"price_velocity" yaml:"price_velocity"`
	// VolumeSpike is the volume excess over its trailing mean, in [0, 1]
	VolumeSpike float64 `json:"volume_spike" yaml:"volume_spike"`
}

// Recommendation is the adaptive model's view on a feature vector.
type Recommendation struct {
	Action Action `json:"action" yaml:"action"`
	// Strength is the confidence-scaled signal strength in [0, 1]
	Strength float64 `json:"strength" yaml:"strength"`
	// Confidence is the combined confidence the action thresholds are applied to
	Confidence float64 `json:"confidence" yaml:"confidence"`
	Reasoning  string  `json:"reasoning" yaml:"reasoning"`
}

// Decision is a single trade instruction emitted by a strategy evaluation.
type Decision struct {
	Strategy StrategyID `json:"strategy"`
	Symbol   string     `json:"symbol"`
	// Action is ActionBuy or ActionSell; strategies never emit holds
	Action   Action  `json:"action"`
	Quantity float64 `json:"quantity"`
	// Price is the snapshot price the decision was made at
	Price float64 `json:"price"`
	// PositionID is set for sells and names the position to close
	PositionID string    `json:"position_id,omitempty"`
	Reason     string    `json:"reason"`
	Features   *Features `json:"features,omitempty"`
	Confidence float64   `json:"confidence"`
	// Forced marks exits taken by a rule that overrides the model
	Forced    bool      `json:"forced"`
	DecidedAt time.Time `json:"decided_at"`
}
