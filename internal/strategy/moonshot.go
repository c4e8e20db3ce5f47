package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/rxtech-lab/argo-moonshot/internal/config"
	"github.com/rxtech-lab/argo-moonshot/internal/logger"
	"github.com/rxtech-lab/argo-moonshot/internal/types"
	"go.uber.org/zap"
)

// Moonshot trades high volatility symbols on the adaptive model's recommendation.
// Three forced exits override the model: take profit, defensive stop and capital
// recycling of positions held too long without enough gain.
//
// Every SELL carries the features observed when the position was opened so that
// closing it can teach the model.
type Moonshot struct {
	cfg     config.MoonshotConfig
	advisor Advisor
	logger  *logger.Logger
}

// NewMoonshot creates the moonshot strategy around advisor.
func NewMoonshot(cfg config.MoonshotConfig, advisor Advisor, log *logger.Logger) *Moonshot {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Moonshot{
		cfg:     cfg,
		advisor: advisor,
		logger:  log.Named("strategy.moonshot"),
	}
}

func (m *Moonshot) ID() types.StrategyID {
	return types.StrategyMoonshot
}

func (m *Moonshot) Universe() []string {
	return copySymbols(m.cfg.Universe)
}

func (m *Moonshot) Evaluate(ctx context.Context, tick *TickContext) ([]types.Decision, error) {
	decisions := make([]types.Decision, 0)

	// exits are emitted first, so entries may spend what they release
	cash := tick.Portfolio.Cash()

	for _, position := range tick.Portfolio.Positions() {
		if err := ctx.Err(); err != nil {
			return decisions, err
		}

		snapshot, ok := tick.Market[position.Symbol]
		if !ok {
			m.logger.Debug("Skipping held symbol without market data", zap.String("symbol", position.Symbol))
			continue
		}

		if decision, ok := m.exit(tick, position, snapshot); ok {
			decisions = append(decisions, decision)
			cash += decision.Quantity * decision.Price
		}
	}

	for _, symbol := range m.cfg.Universe {
		if err := ctx.Err(); err != nil {
			return decisions, err
		}

		if tick.Portfolio.FindPosition(symbol).IsSome() {
			continue
		}

		snapshot, ok := tick.Market[symbol]
		if !ok {
			m.logger.Debug("Skipping symbol without market data", zap.String("symbol", symbol))
			continue
		}

		sentiment, ok := tick.Sentiment[symbol]
		if !ok {
			continue
		}

		if decision, ok := m.entry(tick, snapshot, sentiment, cash); ok {
			decisions = append(decisions, decision)
			cash -= decision.Quantity * decision.Price
		}
	}

	return decisions, nil
}

// entry sizes against cash, the ledger's cash adjusted for the decisions already
// emitted this tick.
func (m *Moonshot) entry(tick *TickContext, snapshot types.MarketSnapshot, sentiment types.SentimentSnapshot, cash float64) (types.Decision, bool) {
	if snapshot.Price <= 0 || sentiment.Score < m.cfg.BuyThreshold {
		return types.Decision{}, false
	}

	features := BuildFeatures(snapshot, sentiment, tick.History[snapshot.Symbol])

	recommendation := m.advisor.Recommend(features)
	if recommendation.Action != types.ActionBuy {
		return types.Decision{}, false
	}

	value := sizedValue(tick.Portfolio.TotalValue(), cash, m.cfg.PositionSize)
	if value == 0 {
		m.logger.Info("Skipping entry, cash below position size",
			zap.String("symbol", snapshot.Symbol),
			zap.Float64("cash", cash),
		)

		return types.Decision{}, false
	}

	return types.Decision{
		Strategy:   types.StrategyMoonshot,
		Symbol:     snapshot.Symbol,
		Action:     types.ActionBuy,
		Quantity:   value / snapshot.Price,
		Price:      snapshot.Price,
		Reason:     "AI buy: " + recommendation.Reasoning,
		Features:   &features,
		Confidence: recommendation.Confidence,
		DecidedAt:  tick.Now,
	}, true
}

func (m *Moonshot) exit(tick *TickContext, position types.Position, snapshot types.MarketSnapshot) (types.Decision, bool) {
	held := position
	held.CurrentPrice = snapshot.Price
	pnl := held.PnLFraction()

	decision := types.Decision{
		Strategy:   types.StrategyMoonshot,
		Symbol:     position.Symbol,
		Action:     types.ActionSell,
		Quantity:   position.Quantity,
		Price:      snapshot.Price,
		PositionID: position.ID,
		Confidence: position.EntryConfidence,
		DecidedAt:  tick.Now,
	}

	switch {
	case pnl >= m.cfg.TakeProfit:
		decision.Reason = fmt.Sprintf("take moonshot (%.2f%%)", pnl*100)
		decision.Forced = true
	case pnl <= m.cfg.StopLoss:
		decision.Reason = fmt.Sprintf("defensive stop (%.2f%%)", pnl*100)
		decision.Forced = true
	case held.HoldDuration(tick.Now) > m.cfg.MaxHold && pnl < m.cfg.RecycleFloor:
		decision.Reason = fmt.Sprintf("capital recycle after %s (%.2f%%)", held.HoldDuration(tick.Now).Round(time.Second), pnl*100)
		decision.Forced = true
	}

	sentiment, hasSentiment := tick.Sentiment[position.Symbol]
	current := BuildFeatures(snapshot, sentiment, tick.History[position.Symbol])

	if !decision.Forced {
		if !hasSentiment {
			return types.Decision{}, false
		}

		recommendation := m.advisor.Recommend(current)

		switch {
		case recommendation.Action == types.ActionSell:
			decision.Reason = "AI sell: " + recommendation.Reasoning
		case sentiment.Score < m.cfg.SellThreshold:
			decision.Reason = fmt.Sprintf("sentiment %.3f below %.3f", sentiment.Score, m.cfg.SellThreshold)
		default:
			return types.Decision{}, false
		}
	}

	if position.EntryFeatures != nil {
		entry := *position.EntryFeatures
		decision.Features = &entry
	} else {
		decision.Features = &current
	}

	return decision, true
}
