package ledger

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-moonshot/internal/logger"
	"github.com/rxtech-lab/argo-moonshot/internal/types"
	"github.com/rxtech-lab/argo-moonshot/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// RecentTradesSize is how many trades RecentTrades returns at most.
	RecentTradesSize = 20
	// TrailingWindowSize is how many closed trades TrailingWinRate looks at.
	TrailingWindowSize = 20
)

// invariantTolerance absorbs float conversion at the edges. The arithmetic itself is decimal.
var invariantTolerance = decimal.New(1, -8)

// CloseHook runs with the trade a close is about to commit, before the position is
// removed. Returning an error aborts the close and leaves the ledger untouched.
// A hook must not call back into the ledger.
type CloseHook func(trade types.Trade) error

// Ledger is the cash, position and trade bookkeeping of one strategy. Every mutation
// is applied as a unit under the ledger lock and followed by a reconciliation check.
type Ledger struct {
	mu sync.RWMutex

	strategy types.StrategyID
	initial  decimal.Decimal
	cash     decimal.Decimal
	realized decimal.Decimal

	positions map[string]*types.Position // by position id
	bySymbol  map[string]string          // symbol -> position id

	recent      []types.Trade // ring buffer, next write at recentHead
	recentHead  int
	recentCount int

	tradeCount  int
	closedCount int
	winRate     float64
	trailing    []bool
	bestTrade   float64
	worstTrade  float64

	healthy bool
	logger  *logger.Logger
}

// New creates a ledger holding initialBalance in cash.
func New(strategy types.StrategyID, initialBalance float64, log *logger.Logger) (*Ledger, error) {
	if initialBalance <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidInitialCapital, "initial balance must be positive, got %v", initialBalance)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	initial := decimal.NewFromFloat(initialBalance)

	return &Ledger{
		strategy:  strategy,
		initial:   initial,
		cash:      initial,
		realized:  decimal.Zero,
		positions: make(map[string]*types.Position),
		bySymbol:  make(map[string]string),
		recent:    make([]types.Trade, RecentTradesSize),
		trailing:  make([]bool, 0, TrailingWindowSize),
		healthy:   true,
		logger:    log.Named("ledger").With(zap.String("strategy", string(strategy))),
	}, nil
}

// Strategy returns the id of the owning strategy.
func (l *Ledger) Strategy() types.StrategyID {
	return l.strategy
}

// OpenPosition debits cash and records a new position together with its BUY trade.
func (l *Ledger) OpenPosition(
	symbol string,
	price, quantity float64,
	at time.Time,
	reason string,
	features *types.Features,
	confidence float64,
) (types.Position, types.Trade, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkMutable(); err != nil {
		return types.Position{}, types.Trade{}, err
	}

	if price <= 0 || quantity <= 0 {
		return types.Position{}, types.Trade{}, errors.Newf(errors.ErrCodeInvalidParameter,
			"price and quantity must be positive, got price %v quantity %v", price, quantity)
	}

	if _, ok := l.bySymbol[symbol]; ok {
		return types.Position{}, types.Trade{}, errors.Newf(errors.ErrCodePositionExists,
			"%s already holds a position in %s", l.strategy, symbol)
	}

	position := types.Position{
		ID:              uuid.New().String(),
		Symbol:          symbol,
		Strategy:        l.strategy,
		EntryPrice:      price,
		Quantity:        quantity,
		EntryTime:       at,
		CurrentPrice:    price,
		EntryFeatures:   copyFeatures(features),
		EntryConfidence: confidence,
	}

	cost := position.CostBasis()
	if cost.GreaterThan(l.cash) {
		return types.Position{}, types.Trade{}, errors.NewInsufficientBalanceError(
			cost.InexactFloat64(), l.cash.InexactFloat64(), symbol, string(l.strategy))
	}

	trade := types.Trade{
		ID:        uuid.New().String(),
		Symbol:    symbol,
		Strategy:  l.strategy,
		Side:      types.SideBuy,
		Quantity:  quantity,
		Price:     price,
		PnL:       0,
		Timestamp: at,
		Reason:    reason,
	}

	l.cash = l.cash.Sub(cost)
	l.positions[position.ID] = &position
	l.bySymbol[symbol] = position.ID
	l.appendTrade(trade)

	l.logger.Info("Opened position",
		zap.String("symbol", symbol),
		zap.Float64("price", price),
		zap.Float64("quantity", quantity),
		zap.String("cash", l.cash.StringFixed(2)),
		zap.String("reason", reason),
	)

	if err := l.checkInvariant(); err != nil {
		return position, trade, err
	}

	return position, trade, nil
}

// ClosePosition sells the whole position at exitPrice. onClose, when set, sees the
// SELL trade before anything is mutated; if it fails the position stays open.
func (l *Ledger) ClosePosition(id string, exitPrice float64, at time.Time, reason string, onClose CloseHook) (types.Trade, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkMutable(); err != nil {
		return types.Trade{}, err
	}

	position, ok := l.positions[id]
	if !ok {
		return types.Trade{}, errors.Newf(errors.ErrCodePositionNotFound, "position %s not found in %s", id, l.strategy)
	}

	if exitPrice <= 0 {
		return types.Trade{}, errors.Newf(errors.ErrCodeInvalidParameter, "exit price must be positive, got %v", exitPrice)
	}

	exitValue := decimal.NewFromFloat(position.Quantity).Mul(decimal.NewFromFloat(exitPrice))
	pnl := exitValue.Sub(position.CostBasis())

	trade := types.Trade{
		ID:        uuid.New().String(),
		Symbol:    position.Symbol,
		Strategy:  l.strategy,
		Side:      types.SideSell,
		Quantity:  position.Quantity,
		Price:     exitPrice,
		PnL:       pnl.InexactFloat64(),
		Timestamp: at,
		Reason:    reason,
	}

	if onClose != nil {
		if err := onClose(trade); err != nil {
			return types.Trade{}, errors.Wrapf(errors.ErrCodeCloseHookFailed, err, "close hook failed for %s", position.Symbol)
		}
	}

	l.cash = l.cash.Add(exitValue)
	l.realized = l.realized.Add(pnl)
	delete(l.positions, id)
	delete(l.bySymbol, position.Symbol)
	l.appendTrade(trade)
	l.recordOutcome(trade)

	l.logger.Info("Closed position",
		zap.String("symbol", position.Symbol),
		zap.Float64("entry_price", position.EntryPrice),
		zap.Float64("exit_price", exitPrice),
		zap.String("pnl", pnl.StringFixed(8)),
		zap.String("reason", reason),
	)

	if err := l.checkInvariant(); err != nil {
		return trade, err
	}

	return trade, nil
}

// MarkToMarket updates the current price of every open position found in prices.
// Cash is never touched, so calling it twice with the same prices changes nothing.
func (l *Ledger) MarkToMarket(prices map[string]float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkMutable(); err != nil {
		return err
	}

	for _, position := range l.positions {
		price, ok := prices[position.Symbol]
		if !ok || price <= 0 {
			continue
		}

		position.CurrentPrice = price
	}

	return l.checkInvariant()
}

// CheckInvariant verifies totalValue == initialBalance + realized + unrealized.
// A failure marks the ledger unhealthy for good.
func (l *Ledger) CheckInvariant() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.checkInvariant()
}

// Healthy reports whether every reconciliation so far has passed.
func (l *Ledger) Healthy() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.healthy
}

// Cash returns the available cash.
func (l *Ledger) Cash() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.cash.InexactFloat64()
}

// TotalValue returns cash plus the market value of every open position.
func (l *Ledger) TotalValue() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.totalValue().InexactFloat64()
}

// Metrics derives the portfolio metrics from the current state.
func (l *Ledger) Metrics() types.PortfolioMetrics {
	l.mu.RLock()
	defer l.mu.RUnlock()

	unrealized := l.unrealized()

	return types.PortfolioMetrics{
		Strategy:         l.strategy,
		TotalValue:       l.totalValue().InexactFloat64(),
		Cash:             l.cash.InexactFloat64(),
		InitialBalance:   l.initial.InexactFloat64(),
		RealizedPnL:      l.realized.InexactFloat64(),
		UnrealizedPnL:    unrealized.InexactFloat64(),
		TotalPnL:         l.realized.Add(unrealized).InexactFloat64(),
		WinRate:          l.winRate,
		TradeCount:       l.tradeCount,
		ClosedTradeCount: l.closedCount,
		ActivePositions:  len(l.positions),
		BestTrade:        l.bestTrade,
		WorstTrade:       l.worstTrade,
		Healthy:          l.healthy,
	}
}

// TrailingWinRate is the percentage of winners among the last TrailingWindowSize closed trades.
func (l *Ledger) TrailingWinRate() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.trailing) == 0 {
		return 0
	}

	wins := 0

	for _, win := range l.trailing {
		if win {
			wins++
		}
	}

	return 100 * float64(wins) / float64(len(l.trailing))
}

// Positions returns copies of the open positions ordered by entry time.
func (l *Ledger) Positions() []types.Position {
	l.mu.RLock()
	defer l.mu.RUnlock()

	positions := make([]types.Position, 0, len(l.positions))
	for _, position := range l.positions {
		positions = append(positions, *position)
	}

	sort.Slice(positions, func(i, j int) bool {
		if positions[i].EntryTime.Equal(positions[j].EntryTime) {
			return positions[i].Symbol < positions[j].Symbol
		}

		return positions[i].EntryTime.Before(positions[j].EntryTime)
	})

	return positions
}

// FindPosition returns the open position for symbol, if any.
func (l *Ledger) FindPosition(symbol string) optional.Option[types.Position] {
	l.mu.RLock()
	defer l.mu.RUnlock()

	id, ok := l.bySymbol[symbol]
	if !ok {
		return optional.None[types.Position]()
	}

	return optional.Some(*l.positions[id])
}

// RecentTrades returns up to RecentTradesSize trades, newest first.
func (l *Ledger) RecentTrades() []types.Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	trades := make([]types.Trade, 0, l.recentCount)
	for i := 1; i <= l.recentCount; i++ {
		idx := (l.recentHead - i + RecentTradesSize) % RecentTradesSize
		trades = append(trades, l.recent[idx])
	}

	return trades
}

func (l *Ledger) appendTrade(trade types.Trade) {
	l.recent[l.recentHead] = trade
	l.recentHead = (l.recentHead + 1) % RecentTradesSize

	if l.recentCount < RecentTradesSize {
		l.recentCount++
	}

	l.tradeCount++
}

// recordOutcome updates the closed-trade statistics with a SELL.
func (l *Ledger) recordOutcome(trade types.Trade) {
	win := trade.IsWin()

	l.closedCount++
	n := float64(l.closedCount)

	outcome := 0.0
	if win {
		outcome = 100
	}

	l.winRate = (l.winRate*(n-1) + outcome) / n

	l.trailing = append(l.trailing, win)
	if len(l.trailing) > TrailingWindowSize {
		l.trailing = l.trailing[len(l.trailing)-TrailingWindowSize:]
	}

	if l.closedCount == 1 || trade.PnL > l.bestTrade {
		l.bestTrade = trade.PnL
	}

	if l.closedCount == 1 || trade.PnL < l.worstTrade {
		l.worstTrade = trade.PnL
	}
}

func (l *Ledger) unrealized() decimal.Decimal {
	sum := decimal.Zero
	for _, position := range l.positions {
		sum = sum.Add(position.UnrealizedPnL())
	}

	return sum
}

func (l *Ledger) totalValue() decimal.Decimal {
	total := l.cash
	for _, position := range l.positions {
		total = total.Add(position.MarketValue())
	}

	return total
}

func (l *Ledger) checkMutable() error {
	if !l.healthy {
		return errors.Newf(errors.ErrCodeLedgerInvariantViolation, "ledger for %s is unhealthy and refuses mutations", l.strategy)
	}

	return nil
}

func (l *Ledger) checkInvariant() error {
	total := l.totalValue()
	expected := l.initial.Add(l.realized).Add(l.unrealized())

	if total.Sub(expected).Abs().LessThanOrEqual(invariantTolerance) {
		return nil
	}

	l.healthy = false

	err := errors.Newf(errors.ErrCodeLedgerInvariantViolation,
		"reconciliation failed for %s: total value %s, expected %s", l.strategy, total.String(), expected.String())
	l.logger.Error("Ledger invariant violated",
		zap.String("total_value", total.String()),
		zap.String("expected", expected.String()),
		zap.String("cash", l.cash.String()),
		zap.String("realized", l.realized.String()),
		zap.Int("positions", len(l.positions)),
	)

	return err
}

func copyFeatures(f *types.Features) *types.Features {
	if f == nil {
		return nil
	}

	c := *f

	return &c
}
