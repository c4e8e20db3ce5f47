package ai

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/rxtech-lab/argo-moonshot/internal/config"
	"github.com/rxtech-lab/argo-moonshot/internal/logger"
	"github.com/rxtech-lab/argo-moonshot/internal/types"
	"github.com/rxtech-lab/argo-moonshot/pkg/errors"
	"go.uber.org/zap"
)

// invariantTolerance is how far Σ|w| may drift from 1 before the weights are renormalized.
const invariantTolerance = 1e-9

// Model is the adaptive signal model. It scores feature vectors and adjusts its
// weights and confidence from realized trade outcomes. It is safe for concurrent use.
type Model struct {
	mu sync.RWMutex

	cfg           config.ModelConfig
	weights       types.WeightVector
	confidence    float64
	outcomes      []bool
	tradesLearned int

	logger *logger.Logger
}

// NewModel creates a model with the configured starting weights and confidence.
func NewModel(cfg config.ModelConfig, log *logger.Logger) *Model {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Model{
		cfg:        cfg,
		weights:    Normalize(cfg.Weights),
		confidence: clamp(cfg.Confidence, cfg.MinConfidence, cfg.MaxConfidence),
		outcomes:   make([]bool, 0, cfg.Window),
		logger:     log.Named("ai"),
	}
}

// Score returns the confidence-scaled signal strength of f in [0, 1].
func (m *Model) Score(f types.Features) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return clamp(m.raw(f)*m.confidence, 0, 1)
}

// Recommend maps f to an action. The combined confidence is the raw weighted score
// scaled by (0.5 + confidence), so a model at full confidence amplifies its signal
// and a model at its floor dampens it. BUY and SELL thresholds come from config.
func (m *Model) Recommend(f types.Features) types.Recommendation {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw := m.raw(f)
	combined := clamp(raw*(0.5+m.confidence), 0, 1)

	action := types.ActionHold

	switch {
	case combined > m.cfg.BuyThreshold:
		action = types.ActionBuy
	case combined < m.cfg.SellThreshold:
		action = types.ActionSell
	}

	return types.Recommendation{
		Action:     action,
		Strength:   clamp(raw*m.confidence, 0, 1),
		Confidence: combined,
		Reasoning:  m.reasoning(f, combined),
	}
}

// Learn nudges the weights of the features that were active at entry up for a
// profitable outcome and down otherwise, renormalizes, and updates confidence from
// the trailing win rate.
func (m *Model) Learn(f types.Features, profit float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	win := profit > 0

	delta := m.cfg.LearningRate
	if !win {
		delta = -delta
	}

	active := m.active(f)
	w := m.weights

	if active.socialVolume {
		w.SocialVolume += delta
	}

	if active.sentiment {
		w.Sentiment += delta
	}

	if active.priceVelocity {
		w.PriceVelocity += delta
	}

	if active.volumeSpike {
		w.VolumeSpike += delta
	}

	m.weights = Normalize(w)
	m.checkInvariant()

	m.outcomes = append(m.outcomes, win)
	if len(m.outcomes) > m.cfg.Window {
		m.outcomes = m.outcomes[len(m.outcomes)-m.cfg.Window:]
	}

	m.tradesLearned++

	winRate := m.winRate()
	previous := m.confidence

	switch {
	case winRate > m.cfg.WinRateHigh && win:
		m.confidence = math.Min(m.confidence+m.cfg.ConfidenceStep, m.cfg.MaxConfidence)
	case winRate < m.cfg.WinRateLow:
		m.confidence = math.Max(m.confidence-m.cfg.ConfidenceStep, m.cfg.MinConfidence)
	}

	m.logger.Debug("Model learned from trade",
		zap.Float64("profit", profit),
		zap.Bool("win", win),
		zap.Float64("win_rate", winRate),
		zap.Float64("confidence_before", previous),
		zap.Float64("confidence", m.confidence),
		zap.Any("weights", m.weights),
	)
}

// State returns a copy of the learned state.
func (m *Model) State() types.ModelState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	outcomes := make([]bool, len(m.outcomes))
	copy(outcomes, m.outcomes)

	return types.ModelState{
		Weights:       m.weights,
		Confidence:    m.confidence,
		WinRate:       m.winRate(),
		Outcomes:      outcomes,
		TradesLearned: m.tradesLearned,
	}
}

// Restore replaces the learned state. Weights are renormalized and confidence is
// clamped to the configured bounds; only the newest Window outcomes are kept.
func (m *Model) Restore(state types.ModelState) error {
	if state.TradesLearned < 0 {
		return errors.Newf(errors.ErrCodeInvalidParameter, "trades learned must not be negative, got %d", state.TradesLearned)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	outcomes := state.Outcomes
	if len(outcomes) > m.cfg.Window {
		outcomes = outcomes[len(outcomes)-m.cfg.Window:]
	}

	m.weights = Normalize(state.Weights)
	m.confidence = clamp(state.Confidence, m.cfg.MinConfidence, m.cfg.MaxConfidence)
	m.outcomes = append(make([]bool, 0, m.cfg.Window), outcomes...)
	m.tradesLearned = state.TradesLearned

	return nil
}

// Confidence returns the current confidence scalar.
func (m *Model) Confidence() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.confidence
}

// raw is the unscaled weighted sum of the normalized features. Callers hold the lock.
func (m *Model) raw(f types.Features) float64 {
	n := NormalizeFeatures(f, m.cfg.Scales)

	return m.weights.SocialVolume*n.SocialVolume +
		m.weights.Sentiment*n.SentimentScore +
		m.weights.PriceVelocity*n.PriceVelocity +
		m.weights.VolumeSpike*n.VolumeSpike
}

func (m *Model) winRate() float64 {
	if len(m.outcomes) == 0 {
		return 0
	}

	wins := 0

	for _, win := range m.outcomes {
		if win {
			wins++
		}
	}

	return float64(wins) / float64(len(m.outcomes))
}

// checkInvariant renormalizes the weights if Σ|w| has drifted from 1.
func (m *Model) checkInvariant() {
	sum := m.weights.AbsSum()
	if math.Abs(sum-1) <= invariantTolerance {
		return
	}

	err := errors.Newf(errors.ErrCodeInvalidWeightState, "weight magnitudes sum to %v", sum)
	m.logger.Warn("Renormalizing weights", zap.Error(err))
	m.weights = Normalize(m.weights)
}

type activeFeatures struct {
	socialVolume  bool
	sentiment     bool
	priceVelocity bool
	volumeSpike   bool
}

func (m *Model) active(f types.Features) activeFeatures {
	t := m.cfg.Activation

	return activeFeatures{
		socialVolume:  f.SocialVolume > t.SocialVolume,
		sentiment:     f.SentimentScore > t.Sentiment,
		priceVelocity: f.PriceVelocity > t.PriceVelocity,
		volumeSpike:   f.VolumeSpike > t.VolumeSpike,
	}
}

func (m *Model) reasoning(f types.Features, combined float64) string {
	active := m.active(f)
	parts := make([]string, 0, 4)

	if active.socialVolume {
		parts = append(parts, fmt.Sprintf("social volume %.0f", f.SocialVolume))
	}

	if active.sentiment {
		parts = append(parts, fmt.Sprintf("sentiment %.3f", f.SentimentScore))
	}

	if active.priceVelocity {
		parts = append(parts, fmt.Sprintf("price velocity %.2f%%", f.PriceVelocity*100))
	}

	if active.volumeSpike {
		parts = append(parts, fmt.Sprintf("volume spike %.2f", f.VolumeSpike))
	}

	if len(parts) == 0 {
		return fmt.Sprintf("no active signals (combined %.3f)", combined)
	}

	return fmt.Sprintf("%s (combined %.3f)", strings.Join(parts, ", "), combined)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
