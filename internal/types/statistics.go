package types

import "time"

// PortfolioMetrics summarizes one strategy's ledger. It is derived from the open
// positions and the trade history on every call and is never a source of truth.
type PortfolioMetrics struct {
	Strategy StrategyID `json:"strategy" yaml:"strategy"`
	// TotalValue is cash plus the market value of open positions
	TotalValue     float64 `json:"total_value" yaml:"total_value"`
	Cash           float64 `json:"cash" yaml:"cash"`
	InitialBalance float64 `json:"initial_balance" yaml:"initial_balance"`
	RealizedPnL    float64 `json:"realized_pnl" yaml:"realized_pnl"`
	UnrealizedPnL  float64 `json:"unrealized_pnl" yaml:"unrealized_pnl"`
	TotalPnL       float64 `json:"total_pnl" yaml:"total_pnl"`
	// WinRate is the percentage of closed trades with positive P&L, in [0, 100]
	WinRate float64 `json:"win_rate" yaml:"win_rate"`
	// TradeCount counts every fill, buys included
	TradeCount int `json:"trade_count" yaml:"trade_count"`
	// ClosedTradeCount counts sells only
	ClosedTradeCount int     `json:"closed_trade_count" yaml:"closed_trade_count"`
	ActivePositions  int     `json:"active_positions" yaml:"active_positions"`
	BestTrade        float64 `json:"best_trade" yaml:"best_trade"`
	WorstTrade       float64 `json:"worst_trade" yaml:"worst_trade"`
	// Healthy is false once a reconciliation check has failed
	Healthy bool `json:"healthy" yaml:"healthy"`
}

// StrategyStatus is the read-only view of a strategy exposed to dashboards.
type StrategyStatus struct {
	Metrics      PortfolioMetrics `json:"metrics" yaml:"metrics"`
	Positions    []Position       `json:"positions" yaml:"positions"`
	RecentTrades []Trade          `json:"recent_trades" yaml:"recent_trades"`
	// Model is only populated for the moonshot strategy
	Model     *ModelState `json:"model,omitempty" yaml:"model,omitempty"`
	Halted    bool        `json:"halted" yaml:"halted"`
	LastError string      `json:"last_error,omitempty" yaml:"last_error,omitempty"`
	LastTick  time.Time   `json:"last_tick" yaml:"last_tick"`
}
