package ai

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-moonshot/internal/config"
	"github.com/rxtech-lab/argo-moonshot/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		weights  types.WeightVector
		expected types.WeightVector
	}{
		{
			name:     "already normalized",
			weights:  types.WeightVector{SocialVolume: 0.4, Sentiment: 0.3, PriceVelocity: 0.2, VolumeSpike: 0.1},
			expected: types.WeightVector{SocialVolume: 0.4, Sentiment: 0.3, PriceVelocity: 0.2, VolumeSpike: 0.1},
		},
		{
			name:     "scaled up",
			weights:  types.WeightVector{SocialVolume: 4, Sentiment: 3, PriceVelocity: 2, VolumeSpike: 1},
			expected: types.WeightVector{SocialVolume: 0.4, Sentiment: 0.3, PriceVelocity: 0.2, VolumeSpike: 0.1},
		},
		{
			name:     "all zero becomes uniform",
			weights:  types.WeightVector{},
			expected: types.WeightVector{SocialVolume: 0.25, Sentiment: 0.25, PriceVelocity: 0.25, VolumeSpike: 0.25},
		},
		{
			name:     "signs are kept",
			weights:  types.WeightVector{SocialVolume: -1, Sentiment: 1, PriceVelocity: -1, VolumeSpike: 1},
			expected: types.WeightVector{SocialVolume: -0.25, Sentiment: 0.25, PriceVelocity: -0.25, VolumeSpike: 0.25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.weights)
			assert.InDelta(t, 1.0, got.AbsSum(), 1e-12)
			assert.InDelta(t, tt.expected.SocialVolume, got.SocialVolume, 1e-9)
			assert.InDelta(t, tt.expected.Sentiment, got.Sentiment, 1e-9)
			assert.InDelta(t, tt.expected.PriceVelocity, got.PriceVelocity, 1e-9)
			assert.InDelta(t, tt.expected.VolumeSpike, got.VolumeSpike, 1e-9)
		})
	}
}

func TestNormalizeNaN(t *testing.T) {
	got := Normalize(types.WeightVector{SocialVolume: math.NaN(), Sentiment: 1})
	assert.False(t, math.IsNaN(got.SocialVolume))
	assert.InDelta(t, 1.0, got.AbsSum(), 1e-12)
}

func TestNormalizeFeatures(t *testing.T) {
	scales := config.Default().Model.Scales

	got := NormalizeFeatures(types.Features{SocialVolume: 600, SentimentScore: 0.09, PriceVelocity: 0.06, VolumeSpike: 0.3}, scales)
	assert.InDelta(t, 0.6, got.SocialVolume, 1e-12)
	assert.InDelta(t, 0.6, got.SentimentScore, 1e-12)
	assert.InDelta(t, 0.6, got.PriceVelocity, 1e-12)
	assert.InDelta(t, 0.3, got.VolumeSpike, 1e-12)

	got = NormalizeFeatures(types.Features{SocialVolume: 5000, SentimentScore: -0.3, PriceVelocity: -0.1, VolumeSpike: 4}, scales)
	assert.Equal(t, types.Features{SocialVolume: 1, VolumeSpike: 1}, got)
}
