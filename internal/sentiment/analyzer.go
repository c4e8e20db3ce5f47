package sentiment

import (
	"math"

	"github.com/rxtech-lab/argo-moonshot/internal/types"
)

// Social volume bands that scale the aggregated score.
const (
	HighVolumeThreshold  = 500
	LowVolumeThreshold   = 100
	HighVolumeMultiplier = 1.5
	LowVolumeMultiplier  = 0.5
)

// Post is one social media post with its compound sentiment in [-1, 1].
type Post struct {
	Compound float64
	Retweets int
	Likes    int
	Replies  int
}

// Classify maps a score to BUY when above buy, SELL when below sell, otherwise NEUTRAL.
func Classify(score, buy, sell float64) types.SentimentSignal {
	switch {
	case score > buy:
		return types.SentimentSignalBuy
	case score < sell:
		return types.SentimentSignalSell
	default:
		return types.SentimentSignalNeutral
	}
}

// VolumeMultiplier amplifies loud symbols and damps quiet ones.
func VolumeMultiplier(count int) float64 {
	switch {
	case count > HighVolumeThreshold:
		return HighVolumeMultiplier
	case count < LowVolumeThreshold:
		return LowVolumeMultiplier
	default:
		return 1.0
	}
}

// EngagementWeight weights a post by 3×retweets + likes + 2×replies.
func EngagementWeight(retweets, likes, replies int) float64 {
	score := retweets*3 + likes + replies*2

	switch {
	case score == 0:
		return 1.0
	case score < 10:
		return 0.8
	case score < 50:
		return 1.2
	default:
		return 1.5
	}
}

// Confidence combines score consistency (70%) and volume (30%), rounded to 3 decimals.
func Confidence(scores []float64, count int) float64 {
	if len(scores) == 0 {
		return 0
	}

	mean := 0.0
	for _, s := range scores {
		mean += s
	}

	mean /= float64(len(scores))

	variance := 0.0
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}

	stdDev := math.Sqrt(variance / float64(len(scores)))

	consistency := math.Max(0, 1-stdDev*2)
	volume := math.Min(1, float64(count)/100)

	return math.Round((consistency*0.7+volume*0.3)*1000) / 1000
}

// Aggregate returns the engagement-weighted compound of posts, scaled by the volume
// multiplier of count and clamped to the sentiment score range.
func Aggregate(posts []Post, count int) float64 {
	if len(posts) == 0 {
		return 0
	}

	weighted := 0.0
	totalWeight := 0.0

	for _, p := range posts {
		w := EngagementWeight(p.Retweets, p.Likes, p.Replies)
		weighted += p.Compound * w
		totalWeight += w
	}

	return types.ClampSentimentScore(weighted / totalWeight * VolumeMultiplier(count))
}
