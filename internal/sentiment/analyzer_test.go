package sentiment

import (
	"testing"

	"github.com/rxtech-lab/argo-moonshot/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected types.SentimentSignal
	}{
		{name: "above buy", score: 0.07, expected: types.SentimentSignalBuy},
		{name: "at buy is neutral", score: 0.06, expected: types.SentimentSignalNeutral},
		{name: "neutral zone", score: 0.05, expected: types.SentimentSignalNeutral},
		{name: "at sell is neutral", score: 0.04, expected: types.SentimentSignalNeutral},
		{name: "below sell", score: 0.01, expected: types.SentimentSignalSell},
		{name: "negative", score: -0.1, expected: types.SentimentSignalSell},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.score, 0.06, 0.04))
		})
	}
}

func TestVolumeMultiplier(t *testing.T) {
	assert.Equal(t, 1.5, VolumeMultiplier(501))
	assert.Equal(t, 1.0, VolumeMultiplier(500))
	assert.Equal(t, 1.0, VolumeMultiplier(100))
	assert.Equal(t, 0.5, VolumeMultiplier(99))
	assert.Equal(t, 0.5, VolumeMultiplier(0))
}

func TestEngagementWeight(t *testing.T) {
	tests := []struct {
		name                     string
		retweets, likes, replies int
		expected                 float64
	}{
		{name: "no engagement", expected: 1.0},
		{name: "low", likes: 9, expected: 0.8},
		{name: "retweets weigh triple", retweets: 3, likes: 1, expected: 1.2},
		{name: "medium", likes: 20, replies: 10, expected: 1.2},
		{name: "high", retweets: 10, likes: 20, expected: 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EngagementWeight(tt.retweets, tt.likes, tt.replies))
		})
	}
}

func TestConfidence(t *testing.T) {
	assert.Equal(t, 0.0, Confidence(nil, 100))

	// identical scores are perfectly consistent: 0.7 + 0.3 × 50/100
	assert.Equal(t, 0.85, Confidence([]float64{0.1, 0.1, 0.1}, 50))

	// stddev 0.5 wipes out the consistency component
	assert.Equal(t, 0.3, Confidence([]float64{-0.5, 0.5}, 200))

	// stddev 0.1: 0.7 × 0.8 + 0.3 × 0.1 = 0.59
	assert.Equal(t, 0.59, Confidence([]float64{0.0, 0.2}, 10))
}

func TestAggregate(t *testing.T) {
	assert.Equal(t, 0.0, Aggregate(nil, 1000))

	posts := []Post{
		{Compound: 0.1},             // weight 1.0
		{Compound: 0.04, Likes: 60}, // weight 1.5
	}

	// (0.1 + 0.06) / 2.5 = 0.064, normal volume
	assert.InDelta(t, 0.064, Aggregate(posts, 200), 1e-12)
	// low volume halves it
	assert.InDelta(t, 0.032, Aggregate(posts, 50), 1e-12)
	// high volume amplifies it
	assert.InDelta(t, 0.096, Aggregate(posts, 600), 1e-12)
}

func TestAggregateIsClamped(t *testing.T) {
	posts := []Post{{Compound: 0.9}, {Compound: 0.8}}
	assert.Equal(t, types.SentimentScoreMax, Aggregate(posts, 1000))

	posts = []Post{{Compound: -0.9}}
	assert.Equal(t, types.SentimentScoreMin, Aggregate(posts, 1000))
}
