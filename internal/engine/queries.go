package engine

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-moonshot/internal/types"
)

// Strategies returns the ids of every strategy the engine runs.
func (e *Engine) Strategies() []types.StrategyID {
	return []types.StrategyID{types.StrategyCore, types.StrategyMoonshot}
}

// Symbols returns the union of both universes.
func (e *Engine) Symbols() []string {
	return copyStrings(e.symbols)
}

// GetStrategyStatus returns the metrics, positions and recent trades of a strategy.
func (e *Engine) GetStrategyStatus(id types.StrategyID) (types.StrategyStatus, error) {
	r, err := e.runner(id)
	if err != nil {
		return types.StrategyStatus{}, err
	}

	r.mu.RLock()
	halted, lastError, lastTick := r.halted, r.lastError, r.lastTick
	r.mu.RUnlock()

	status := types.StrategyStatus{
		Metrics:      r.ledger.Metrics(),
		Positions:    r.ledger.Positions(),
		RecentTrades: r.ledger.RecentTrades(),
		Halted:       halted,
		LastError:    lastError,
		LastTick:     lastTick,
	}

	if id == types.StrategyMoonshot {
		state := e.model.State()
		status.Model = &state
	}

	return status, nil
}

// GetMarketData returns the current market snapshots. The map must not be modified.
func (e *Engine) GetMarketData() map[string]types.MarketSnapshot {
	return e.market.Snapshots()
}

// GetSentimentData returns the current sentiment snapshots. The map must not be modified.
func (e *Engine) GetSentimentData() map[string]types.SentimentSnapshot {
	return e.sentiment.Snapshots()
}

// GetIndicators computes the indicator set of every symbol with a market snapshot.
func (e *Engine) GetIndicators() map[string]types.IndicatorSet {
	return e.indicator.ComputeAll(e.market.Snapshots(), e.market.Prices)
}

// GetModelState returns a copy of the adaptive model's state.
func (e *Engine) GetModelState() types.ModelState {
	return e.model.State()
}

// GetBalances returns the exchange account balances. They are informational only
// and never gate simulated trades.
func (e *Engine) GetBalances(ctx context.Context) (map[string]types.Balance, error) {
	return e.market.Balances(ctx)
}

// Now returns the engine clock.
func (e *Engine) Now() time.Time {
	return e.now()
}

func copyStrings(s []string) []string {
	c := make([]string, len(s))
	copy(c, s)

	return c
}
