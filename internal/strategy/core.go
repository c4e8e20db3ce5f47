package strategy

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rxtech-lab/argo-moonshot/internal/config"
	"github.com/rxtech-lab/argo-moonshot/internal/logger"
	"github.com/rxtech-lab/argo-moonshot/internal/types"
	"go.uber.org/zap"
)

// Phase is where a symbol sits in the core strategy's trade cycle.
type Phase string

const (
	PhaseNoPosition Phase = "no_position"
	PhaseEntering   Phase = "entering"
	PhaseHolding    Phase = "holding"
	PhaseExiting    Phase = "exiting"
)

// Core is the conservative strategy. It buys on positive sentiment confirmed by a
// bullish, not overbought trend and sells on profit target, stop loss, fading
// sentiment or an overbought reversal.
//
// Each symbol moves NoPosition → Entering → Holding → Exiting → NoPosition. A
// symbol stays Entering or Exiting after a decision is emitted until the next
// evaluation sees whether the ledger applied it.
type Core struct {
	cfg    config.CoreConfig
	logger *logger.Logger

	mu     sync.Mutex
	phases map[string]Phase
}

// NewCore creates the core strategy.
func NewCore(cfg config.CoreConfig, log *logger.Logger) *Core {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Core{
		cfg:    cfg,
		logger: log.Named("strategy.core"),
		phases: make(map[string]Phase),
	}
}

func (c *Core) ID() types.StrategyID {
	return types.StrategyCore
}

func (c *Core) Universe() []string {
	return copySymbols(c.cfg.Universe)
}

// Phase returns the symbol's current phase.
func (c *Core) Phase(symbol string) Phase {
	c.mu.Lock()
	defer c.mu.Unlock()

	phase, ok := c.phases[symbol]
	if !ok {
		return PhaseNoPosition
	}

	return phase
}

func (c *Core) Evaluate(ctx context.Context, tick *TickContext) ([]types.Decision, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	decisions := make([]types.Decision, 0)

	for _, symbol := range c.cfg.Universe {
		if err := ctx.Err(); err != nil {
			return decisions, err
		}

		position := tick.Portfolio.FindPosition(symbol)

		// settle the previous tick's decision against the ledger
		if position.IsSome() {
			c.phases[symbol] = PhaseHolding
		} else {
			c.phases[symbol] = PhaseNoPosition
		}

		snapshot, ok := tick.Market[symbol]
		if !ok {
			c.logger.Debug("Skipping symbol without market data", zap.String("symbol", symbol))
			continue
		}

		sentiment, hasSentiment := tick.Sentiment[symbol]
		indicators, hasIndicators := tick.Indicators[symbol]

		if position.IsSome() {
			c.phases[symbol] = PhaseExiting

			reason, exit := c.exitReason(position.Unwrap(), snapshot, sentiment, hasSentiment, indicators, hasIndicators)
			if !exit {
				c.phases[symbol] = PhaseHolding
				continue
			}

			held := position.Unwrap()
			decisions = append(decisions, types.Decision{
				Strategy:   types.StrategyCore,
				Symbol:     symbol,
				Action:     types.ActionSell,
				Quantity:   held.Quantity,
				Price:      snapshot.Price,
				PositionID: held.ID,
				Reason:     reason,
				Confidence: sentiment.Confidence,
				DecidedAt:  tick.Now,
			})

			continue
		}

		if !hasSentiment || !hasIndicators {
			c.logger.Debug("Skipping entry without sentiment or indicators",
				zap.String("symbol", symbol),
				zap.Bool("sentiment", hasSentiment),
				zap.Bool("indicators", hasIndicators),
			)

			continue
		}

		c.phases[symbol] = PhaseEntering

		decision, ok := c.entry(tick, snapshot, sentiment, indicators)
		if !ok {
			c.phases[symbol] = PhaseNoPosition
			continue
		}

		decisions = append(decisions, decision)
	}

	return decisions, nil
}

func (c *Core) entry(
	tick *TickContext,
	snapshot types.MarketSnapshot,
	sentiment types.SentimentSnapshot,
	indicators types.IndicatorSet,
) (types.Decision, bool) {
	if sentiment.Score < c.cfg.BuyThreshold ||
		indicators.RSI > c.cfg.RSIOverbought ||
		indicators.Trend != types.TrendBullish {
		return types.Decision{}, false
	}

	if snapshot.Price <= 0 {
		return types.Decision{}, false
	}

	fraction := c.cfg.PositionSize
	if slices.Contains(c.cfg.MajorSymbols, snapshot.Symbol) {
		fraction = c.cfg.MajorPositionSize
	}

	value := positionValue(tick.Portfolio, fraction)
	if value == 0 {
		c.logger.Info("Skipping entry, cash below position size",
			zap.String("symbol", snapshot.Symbol),
			zap.Float64("cash", tick.Portfolio.Cash()),
			zap.Float64("fraction", fraction),
		)

		return types.Decision{}, false
	}

	return types.Decision{
		Strategy: types.StrategyCore,
		Symbol:   snapshot.Symbol,
		Action:   types.ActionBuy,
		Quantity: value / snapshot.Price,
		Price:    snapshot.Price,
		Reason: fmt.Sprintf("sentiment %.3f, RSI %.1f, %s trend",
			sentiment.Score, indicators.RSI, indicators.Trend),
		Confidence: sentiment.Confidence,
		DecidedAt:  tick.Now,
	}, true
}

// exitReason checks the sell conditions in order; the first that holds wins.
// Without sentiment or indicators only the price based exits are considered.
func (c *Core) exitReason(
	position types.Position,
	snapshot types.MarketSnapshot,
	sentiment types.SentimentSnapshot,
	hasSentiment bool,
	indicators types.IndicatorSet,
	hasIndicators bool,
) (string, bool) {
	position.CurrentPrice = snapshot.Price
	pnl := position.PnLFraction()

	switch {
	case pnl >= c.cfg.ProfitTarget:
		return fmt.Sprintf("profit target reached (%.2f%%)", pnl*100), true
	case pnl <= c.cfg.StopLoss:
		return fmt.Sprintf("stop loss triggered (%.2f%%)", pnl*100), true
	case hasSentiment && sentiment.Score < c.cfg.SellThreshold:
		return fmt.Sprintf("sentiment %.3f below %.3f", sentiment.Score, c.cfg.SellThreshold), true
	case hasIndicators && indicators.RSI > c.cfg.RSIExit && indicators.Trend == types.TrendBearish:
		return fmt.Sprintf("RSI %.1f overbought with bearish trend", indicators.RSI), true
	default:
		return "", false
	}
}
