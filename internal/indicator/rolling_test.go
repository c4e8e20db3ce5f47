package indicator

import (
	"testing"

	"github.com/rxtech-lab/argo-moonshot/internal/types"
	"github.com/rxtech-lab/argo-moonshot/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(n int, f func(i int) float64) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = f(i)
	}

	return prices
}

func TestRSI(t *testing.T) {
	tests := []struct {
		name     string
		prices   []float64
		expected float64
	}{
		{name: "uptrend", prices: series(15, func(i int) float64 { return float64(i + 1) }), expected: 100},
		{name: "downtrend", prices: series(15, func(i int) float64 { return float64(100 - i) }), expected: 0},
		{name: "flat", prices: series(15, func(int) float64 { return 10 }), expected: 50},
		{name: "alternating", prices: series(15, func(i int) float64 { return float64(1 + i%2) }), expected: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rsi, err := RSI(tt.prices, 14)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, rsi, 1e-9)
		})
	}
}

func TestRSIErrors(t *testing.T) {
	_, err := RSI(series(14, func(i int) float64 { return float64(i) }), 14)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInsufficientHistory))

	_, err = RSI(series(20, func(i int) float64 { return float64(i) }), 0)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func TestEMA(t *testing.T) {
	ema, err := EMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	// seed 2, then 0.5×4 + 0.5×2 = 3, then 0.5×5 + 0.5×3 = 4
	assert.InDelta(t, 4.0, ema, 1e-12)

	ema, err = EMA(series(10, func(int) float64 { return 7 }), 4)
	require.NoError(t, err)
	assert.InDelta(t, 7.0, ema, 1e-12)

	_, err = EMA([]float64{1, 2}, 3)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInsufficientHistory))
}

func TestMACD(t *testing.T) {
	up := series(26, func(i int) float64 { return float64(100 + i) })
	macd, err := MACD(up, 12, 26)
	require.NoError(t, err)
	assert.Greater(t, macd, 0.0)

	down := series(26, func(i int) float64 { return float64(100 - i) })
	macd, err = MACD(down, 12, 26)
	require.NoError(t, err)
	assert.Less(t, macd, 0.0)

	_, err = MACD(up, 26, 12)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidParameter))

	_, err = MACD(up[:20], 12, 26)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInsufficientHistory))
}

func TestATR(t *testing.T) {
	atr, err := ATR(series(20, func(i int) float64 { return float64(i) * 2 }), 14)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, atr, 1e-12)

	_, err = ATR([]float64{1, 2}, 14)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInsufficientHistory))
}

func TestProxyEdgeCases(t *testing.T) {
	flat := types.MarketSnapshot{Price: 5, High24h: 5, Low24h: 5}
	assert.Equal(t, 50.0, ProxyRSI(flat))
	assert.Equal(t, 0.0, ProxyMACD(flat))
	assert.Equal(t, 0.0, ProxyATR(flat))

	// price above a stale high is clamped
	above := types.MarketSnapshot{Price: 12, High24h: 10, Low24h: 8}
	assert.Equal(t, 100.0, ProxyRSI(above))

	assert.Equal(t, 0.0, ProxyMACD(types.MarketSnapshot{}))
}

func TestTrendFromMACD(t *testing.T) {
	assert.Equal(t, types.TrendBullish, TrendFromMACD(0.1))
	assert.Equal(t, types.TrendBearish, TrendFromMACD(-0.1))
	assert.Equal(t, types.TrendNeutral, TrendFromMACD(0))
}
