package strategy

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-moonshot/internal/types"
)

// Engine is a trading strategy. Evaluate looks at one tick and returns the trades it
// wants made; it never mutates the portfolio itself.
type Engine interface {
	// ID returns the strategy identifier. Each id owns exactly one ledger.
	ID() types.StrategyID
	// Universe returns the symbols the strategy trades.
	Universe() []string
	// Evaluate returns the BUY and SELL decisions for the tick, in the order they should be applied.
	Evaluate(ctx context.Context, tick *TickContext) ([]types.Decision, error)
}

// Portfolio is the read-only view of a strategy's ledger used for sizing and exits.
type Portfolio interface {
	Cash() float64
	TotalValue() float64
	FindPosition(symbol string) optional.Option[types.Position]
	Positions() []types.Position
}

// Advisor turns a feature vector into a recommendation.
type Advisor interface {
	Recommend(features types.Features) types.Recommendation
}

// TickContext carries everything one evaluation may read. The maps are immutable
// snapshots published by the last refresh.
type TickContext struct {
	Now        time.Time
	Market     map[string]types.MarketSnapshot
	Sentiment  map[string]types.SentimentSnapshot
	Indicators map[string]types.IndicatorSet
	// History holds recent snapshots per symbol, oldest first. It may include the current one.
	History   map[string][]types.MarketSnapshot
	Portfolio Portfolio
}

// positionValue returns the value to commit to a new position: fraction of the
// total value, or 0 when the cash cannot cover it.
func positionValue(portfolio Portfolio, fraction float64) float64 {
	return sizedValue(portfolio.TotalValue(), portfolio.Cash(), fraction)
}

// sizedValue is fraction of total, or 0 when cash cannot cover it.
func sizedValue(total, cash, fraction float64) float64 {
	value := total * fraction
	if value <= 0 || cash < value {
		return 0
	}

	return value
}

func copySymbols(symbols []string) []string {
	c := make([]string, len(symbols))
	copy(c, symbols)

	return c
}
