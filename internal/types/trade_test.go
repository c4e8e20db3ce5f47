package types

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TradeTestSuite struct {
	suite.Suite
}

func TestTradeSuite(t *testing.T) {
	suite.Run(t, new(TradeTestSuite))
}

func (suite *TradeTestSuite) TestStrategyIDValid() {
	suite.True(StrategyCore.Valid())
	suite.True(StrategyMoonshot.Valid())
	suite.False(StrategyID("scalper").Valid())
	suite.False(StrategyID("").Valid())
}

func (suite *TradeTestSuite) TestTradeIsWin() {
	tests := []struct {
		name     string
		trade    Trade
		expected bool
	}{
		{name: "profitable sell", trade: Trade{Side: SideSell, PnL: 3}, expected: true},
		{name: "losing sell", trade: Trade{Side: SideSell, PnL: -1}, expected: false},
		{name: "break even sell", trade: Trade{Side: SideSell, PnL: 0}, expected: false},
		{name: "buy never wins", trade: Trade{Side: SideBuy, PnL: 10}, expected: false},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, tc.trade.IsWin())
		})
	}
}

func (suite *TradeTestSuite) TestPositionValuation() {
	entry := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	position := Position{
		Symbol:       "BTC",
		Strategy:     StrategyCore,
		EntryPrice:   100,
		Quantity:     1,
		EntryTime:    entry,
		CurrentPrice: 103,
	}

	suite.True(position.CostBasis().Equal(decimal.NewFromInt(100)))
	suite.True(position.MarketValue().Equal(decimal.NewFromInt(103)))
	suite.True(position.UnrealizedPnL().Equal(decimal.NewFromInt(3)))
	suite.InDelta(0.03, position.PnLFraction(), 1e-12)
	suite.Equal(90*time.Minute, position.HoldDuration(entry.Add(90*time.Minute)))
}

func (suite *TradeTestSuite) TestPositionPnLFractionZeroEntry() {
	position := Position{EntryPrice: 0, CurrentPrice: 5}
	suite.Equal(0.0, position.PnLFraction())
}
