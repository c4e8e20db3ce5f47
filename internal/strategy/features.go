package strategy

import (
	"github.com/rxtech-lab/argo-moonshot/internal/types"
)

// BuildFeatures assembles the model input for one symbol. Price velocity is the
// fractional change from the most recent earlier sample, and volume spike is the
// current volume's excess over the mean of earlier samples, clamped to [0, 1].
// Both are 0 when there is no earlier sample.
func BuildFeatures(current types.MarketSnapshot, sentiment types.SentimentSnapshot, history []types.MarketSnapshot) types.Features {
	earlier := make([]types.MarketSnapshot, 0, len(history))

	for _, s := range history {
		if s.CapturedAt.Before(current.CapturedAt) {
			earlier = append(earlier, s)
		}
	}

	features := types.Features{
		SocialVolume:   float64(sentiment.SocialVolume),
		SentimentScore: sentiment.Score,
	}

	if len(earlier) == 0 {
		return features
	}

	previous := earlier[len(earlier)-1]
	if previous.Price > 0 {
		features.PriceVelocity = (current.Price - previous.Price) / previous.Price
	}

	total := 0.0
	for _, s := range earlier {
		total += s.Volume
	}

	mean := total / float64(len(earlier))
	if mean > 0 {
		spike := current.Volume/mean - 1
		switch {
		case spike < 0:
			spike = 0
		case spike > 1:
			spike = 1
		}

		features.VolumeSpike = spike
	}

	return features
}
