package sentiment

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-moonshot/internal/config"
	"github.com/rxtech-lab/argo-moonshot/internal/types"
	"github.com/rxtech-lab/argo-moonshot/pkg/errors"
)

// SpikeFloor is the minimum score of a moonshot social spike.
const SpikeFloor = 0.09

// Synthetic generates sentiment from mock posts. Symbols in the speculative universe
// move independently of price and occasionally spike; all other symbols follow the
// position of the price within its 24h range.
type Synthetic struct {
	mu    sync.Mutex
	rng   *rand.Rand
	cfg   config.SentimentConfig
	spiky map[string]bool
	now   func() time.Time
}

// NewSynthetic creates a synthetic source. spikySymbols are the symbols that may spike.
func NewSynthetic(cfg config.SentimentConfig, spikySymbols []string) *Synthetic {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	spiky := make(map[string]bool, len(spikySymbols))
	for _, symbol := range spikySymbols {
		spiky[symbol] = true
	}

	return &Synthetic{
		rng:   rand.New(rand.NewSource(seed)),
		cfg:   cfg,
		spiky: spiky,
		now:   time.Now,
	}
}

func (s *Synthetic) Name() string {
	return "synthetic"
}

// Fetch returns one reading per symbol. Non-spiky symbols without a market snapshot
// are skipped.
func (s *Synthetic) Fetch(ctx context.Context, symbols []string, market map[string]types.MarketSnapshot) (map[string]types.SentimentSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataUnavailable, "sentiment request cancelled", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	capturedAt := s.now()
	result := make(map[string]types.SentimentSnapshot, len(symbols))

	for _, symbol := range symbols {
		var (
			bias   float64
			volume int
			spike  bool
		)

		if s.spiky[symbol] {
			spike = s.rng.Float64() < s.cfg.SpikeProbability
			if spike {
				bias = 0.11
				volume = 600 + s.rng.Intn(900)
			} else {
				bias = s.rng.NormFloat64() * 0.02
				volume = 20 + s.rng.Intn(380)
			}
		} else {
			snapshot, ok := market[symbol]
			if !ok {
				continue
			}

			bias = (rangePosition(snapshot) - 0.5) * 0.2
			volume = 100 + s.rng.Intn(500)
		}

		posts := s.samplePosts(bias)
		score := Aggregate(posts, volume)

		// a spike always reads as strongly positive
		if spike {
			score = math.Max(score, SpikeFloor)
		}

		compounds := make([]float64, len(posts))
		for i, p := range posts {
			compounds[i] = p.Compound
		}

		result[symbol] = types.SentimentSnapshot{
			Symbol:       symbol,
			Score:        score,
			SocialVolume: uint(volume),
			Confidence:   Confidence(compounds, volume),
			Signal:       Classify(score, s.cfg.BuyThreshold, s.cfg.SellThreshold),
			CapturedAt:   capturedAt,
		}
	}

	return result, nil
}

func (s *Synthetic) samplePosts(bias float64) []Post {
	posts := make([]Post, s.cfg.PostsPerSample)

	for i := range posts {
		compound := bias + s.rng.NormFloat64()*0.05
		posts[i] = Post{
			Compound: math.Max(-1, math.Min(1, compound)),
			Retweets: s.rng.Intn(51),
			Likes:    s.rng.Intn(201),
			Replies:  s.rng.Intn(21),
		}
	}

	return posts
}

// rangePosition returns where the price sits in its 24h range, 0.5 when the range is empty.
func rangePosition(snapshot types.MarketSnapshot) float64 {
	width := snapshot.High24h - snapshot.Low24h
	if width <= 0 {
		return 0.5
	}

	return math.Max(0, math.Min(1, (snapshot.Price-snapshot.Low24h)/width))
}
