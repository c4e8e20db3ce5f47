package indicator

import (
	"github.com/rxtech-lab/argo-moonshot/internal/config"
	"github.com/rxtech-lab/argo-moonshot/internal/types"
)

// Engine computes technical indicators. It is stateless: everything it needs is the
// current snapshot and, in rolling mode, the symbol's recent prices.
type Engine struct {
	cfg config.IndicatorConfig
}

// NewEngine creates an indicator engine.
func NewEngine(cfg config.IndicatorConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Compute returns the indicator set for one snapshot. history holds the symbol's
// recent prices oldest first, ending with the snapshot's price. In proxy mode it only
// sets the trend direction. In rolling mode with fewer than RSIPeriod+1 prices the
// proxy values are returned instead.
func (e *Engine) Compute(snapshot types.MarketSnapshot, history []float64) types.IndicatorSet {
	if e.cfg.Mode != config.IndicatorModeRolling {
		return e.proxy(snapshot, history)
	}

	rsi, err := RSI(history, e.cfg.RSIPeriod)
	if err != nil {
		return e.proxy(snapshot, history)
	}

	macd, err := MACD(history, e.cfg.MACDFast, e.cfg.MACDSlow)
	if err != nil {
		macd = ProxyMACD(snapshot)
	}

	atr, err := ATR(history, e.cfg.RSIPeriod)
	if err != nil {
		atr = ProxyATR(snapshot)
	}

	return types.IndicatorSet{
		Symbol: snapshot.Symbol,
		RSI:    rsi,
		MACD:   macd,
		Trend:  TrendFromMACD(macd),
		ATR:    atr,
		Source: types.IndicatorSourceRolling,
	}
}

// ComputeAll computes indicators for every snapshot in market.
func (e *Engine) ComputeAll(market map[string]types.MarketSnapshot, history func(symbol string) []float64) map[string]types.IndicatorSet {
	result := make(map[string]types.IndicatorSet, len(market))

	for symbol, snapshot := range market {
		var prices []float64
		if history != nil {
			prices = history(symbol)
		}

		result[symbol] = e.Compute(snapshot, prices)
	}

	return result
}

func (e *Engine) proxy(snapshot types.MarketSnapshot, history []float64) types.IndicatorSet {
	rsi := ProxyRSI(snapshot)

	return types.IndicatorSet{
		Symbol: snapshot.Symbol,
		RSI:    rsi,
		MACD:   ProxyMACD(snapshot),
		Trend:  ProxyTrend(history, rsi, e.cfg.BullishRSI, e.cfg.BearishRSI),
		ATR:    ProxyATR(snapshot),
		Source: types.IndicatorSourceProxy,
	}
}
