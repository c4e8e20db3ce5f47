package types

import "math"

// WeightVector holds the adaptive model's per-feature weights.
// After every learning step the absolute values sum to 1.
type WeightVector struct {
	SocialVolume  float64 `json:"social_volume" yaml:"social_volume"`
	Sentiment     float64 `json:"sentiment" yaml:"sentiment"`
	PriceVelocity float64 `json:"price_velocity" yaml:"price_velocity"`
	VolumeSpike   float64 `json:"volume_spike" yaml:"volume_spike"`
}

// AbsSum returns the sum of the absolute weight values.
func (w WeightVector) AbsSum() float64 {
	return math.Abs(w.SocialVolume) + math.Abs(w.Sentiment) + math.Abs(w.PriceVelocity) + math.Abs(w.VolumeSpike)
}

// ModelState is a copy of the adaptive model's learned state.
// Together with the trade log it is the minimal unit needed to resume learning.
type ModelState struct {
	Weights WeightVector `json:"weights" yaml:"weights"`
	// Confidence scales every signal, bounded to [0.2, 1.0]
	Confidence float64 `json:"confidence" yaml:"confidence"`
	// WinRate is the fraction of winning outcomes in the trailing window
	WinRate float64 `json:"win_rate" yaml:"win_rate"`
	// Outcomes is the trailing window of learned outcomes, oldest first (true = win)
	Outcomes      []bool `json:"outcomes" yaml:"outcomes"`
	TradesLearned int    `json:"trades_learned" yaml:"trades_learned"`
}
