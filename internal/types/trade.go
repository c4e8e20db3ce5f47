package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// StrategyID identifies one of the trading strategies. Each strategy owns its own ledger.
type StrategyID string

const (
	StrategyCore     StrategyID = "core"
	StrategyMoonshot StrategyID = "moonshot"
)

// Valid reports whether the id names a known strategy.
func (s StrategyID) Valid() bool {
	return s == StrategyCore || s == StrategyMoonshot
}

// Side is the direction of a trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Trade is an executed fill. Trades are append-only and never mutated.
type Trade struct {
	ID       string     `json:"id" yaml:"id"`
	Symbol   string     `json:"symbol" yaml:"symbol"`
	Strategy StrategyID `json:"strategy" yaml:"strategy"`
	Side     Side       `json:"side" yaml:"side"`
	Quantity float64    `json:"quantity" yaml:"quantity"`
	// Price is the fill price
	Price float64 `json:"price" yaml:"price"`
	// PnL is the realized profit and loss. It is always 0 for a BUY.
	// For example, buying 1 unit at $100 and selling it at $103 yields a SELL with PnL $3.
	PnL       float64   `json:"pnl" yaml:"pnl"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	// Reason is free text explaining why the strategy traded
	Reason string `json:"reason" yaml:"reason"`
}

// IsWin reports whether the trade closed a position at a profit.
func (t Trade) IsWin() bool {
	return t.Side == SideSell && t.PnL > 0
}

// Position is an open holding owned by exactly one strategy.
// At most one Position exists per (symbol, strategy) pair.
type Position struct {
	ID         string     `json:"id" yaml:"id"`
	Symbol     string     `json:"symbol" yaml:"symbol"`
	Strategy   StrategyID `json:"strategy" yaml:"strategy"`
	EntryPrice float64    `json:"entry_price" yaml:"entry_price"`
	Quantity   float64    `json:"quantity" yaml:"quantity"`
	EntryTime  time.Time  `json:"entry_time" yaml:"entry_time"`
	// CurrentPrice is the last mark-to-market price
	CurrentPrice float64 `json:"current_price" yaml:"current_price"`
	// EntryFeatures are the model features observed at entry (moonshot only)
	EntryFeatures *Features `json:"entry_features,omitempty" yaml:"entry_features,omitempty"`
	// EntryConfidence is the signal confidence observed at entry
	EntryConfidence float64 `json:"entry_confidence" yaml:"entry_confidence"`
}

// CostBasis returns quantity × entry price.
func (p Position) CostBasis() decimal.Decimal {
	return decimal.NewFromFloat(p.Quantity).Mul(decimal.NewFromFloat(p.EntryPrice))
}

// MarketValue returns quantity × current price.
func (p Position) MarketValue() decimal.Decimal {
	return decimal.NewFromFloat(p.Quantity).Mul(decimal.NewFromFloat(p.CurrentPrice))
}

// UnrealizedPnL returns the P&L the position would realize at the current price.
func (p Position) UnrealizedPnL() decimal.Decimal {
	return p.MarketValue().Sub(p.CostBasis())
}

// PnLFraction returns the unrealized return as a fraction of the entry price (0.03 = +3%).
func (p Position) PnLFraction() float64 {
	if p.EntryPrice == 0 {
		return 0
	}

	return (p.CurrentPrice - p.EntryPrice) / p.EntryPrice
}

// HoldDuration returns how long the position has been open at now.
func (p Position) HoldDuration(now time.Time) time.Duration {
	return now.Sub(p.EntryTime)
}
