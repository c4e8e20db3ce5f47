package ai

import (
	"math"

	"github.com/rxtech-lab/argo-moonshot/internal/config"
	"github.com/rxtech-lab/argo-moonshot/internal/types"
)

// Epsilon is the smallest absolute weight kept during renormalization.
const Epsilon = 1e-6

// Normalize rescales w so the absolute values sum to 1. Every weight is first clamped
// to an absolute value of at least Epsilon, keeping its sign, so an all-zero vector
// becomes uniform instead of dividing by zero.
func Normalize(w types.WeightVector) types.WeightVector {
	clamped := types.WeightVector{
		SocialVolume:  clampAbs(w.SocialVolume),
		Sentiment:     clampAbs(w.Sentiment),
		PriceVelocity: clampAbs(w.PriceVelocity),
		VolumeSpike:   clampAbs(w.VolumeSpike),
	}

	sum := clamped.AbsSum()

	return types.WeightVector{
		SocialVolume:  clamped.SocialVolume / sum,
		Sentiment:     clamped.Sentiment / sum,
		PriceVelocity: clamped.PriceVelocity / sum,
		VolumeSpike:   clamped.VolumeSpike / sum,
	}
}

func clampAbs(v float64) float64 {
	if math.IsNaN(v) || math.Abs(v) < Epsilon {
		if v < 0 {
			return -Epsilon
		}

		return Epsilon
	}

	return v
}

// NormalizeFeatures maps raw features onto [0, 1] using the configured scales.
// Negative sentiment and negative price velocity map to 0.
func NormalizeFeatures(f types.Features, scales config.FeatureScales) types.Features {
	return types.Features{
		SocialVolume:   unit(f.SocialVolume / scales.SocialVolume),
		SentimentScore: unit(f.SentimentScore / scales.Sentiment),
		PriceVelocity:  unit(f.PriceVelocity / scales.PriceVelocity),
		VolumeSpike:    unit(f.VolumeSpike / scales.VolumeSpike),
	}
}

func unit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}
