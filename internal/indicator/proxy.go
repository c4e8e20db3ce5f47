package indicator

import (
	"github.com/rxtech-lab/argo-moonshot/internal/types"
)

// ProxyRSI approximates RSI from where the price sits in its 24h range:
// 100 × (price − low) / (high − low), or 50 when the range is empty.
// It is a range-position oscillator, not a momentum measure.
func ProxyRSI(snapshot types.MarketSnapshot) float64 {
	width := snapshot.High24h - snapshot.Low24h
	if width <= 0 {
		return 50
	}

	rsi := 100 * (snapshot.Price - snapshot.Low24h) / width

	return clamp(rsi, 0, 100)
}

// ProxyMACD is the fractional distance of the price from the 24h range midpoint.
func ProxyMACD(snapshot types.MarketSnapshot) float64 {
	mid := (snapshot.High24h + snapshot.Low24h) / 2
	if mid <= 0 {
		return 0
	}

	return (snapshot.Price - mid) / mid
}

// ProxyATR is the width of the 24h range.
func ProxyATR(snapshot types.MarketSnapshot) float64 {
	width := snapshot.High24h - snapshot.Low24h
	if width < 0 {
		return 0
	}

	return width
}

// TrendFromRSI is bullish above bullish, bearish below bearish, otherwise neutral.
func TrendFromRSI(rsi, bullish, bearish float64) types.Trend {
	switch {
	case rsi > bullish:
		return types.TrendBullish
	case rsi < bearish:
		return types.TrendBearish
	default:
		return types.TrendNeutral
	}
}

// ProxyTrend classifies the trend by the direction of the last price move in
// history, which holds recent prices oldest first and ends with the snapshot's own
// price. With fewer than two prices or a flat last move it falls back to the RSI
// bands.
func ProxyTrend(history []float64, rsi, bullish, bearish float64) types.Trend {
	if len(history) >= 2 {
		last, previous := history[len(history)-1], history[len(history)-2]

		switch {
		case last > previous:
			return types.TrendBullish
		case last < previous:
			return types.TrendBearish
		}
	}

	return TrendFromRSI(rsi, bullish, bearish)
}

// TrendFromMACD classifies the trend by the sign of the MACD line.
func TrendFromMACD(macd float64) types.Trend {
	switch {
	case macd > 0:
		return types.TrendBullish
	case macd < 0:
		return types.TrendBearish
	default:
		return types.TrendNeutral
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
