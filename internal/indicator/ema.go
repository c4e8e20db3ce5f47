package indicator

import (
	"github.com/rxtech-lab/argo-moonshot/pkg/errors"
)

// EMA computes the exponential moving average of prices (oldest first), seeded with the
// simple average of the first period prices.
func EMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "period must be a positive integer, got %d", period)
	}

	if len(prices) < period {
		return 0, errors.Newf(errors.ErrCodeInsufficientHistory, "insufficient history for EMA: need %d prices, got %d", period, len(prices))
	}

	sma := 0.0
	for i := 0; i < period; i++ {
		sma += prices[i]
	}

	sma /= float64(period)

	// Use alpha = 2/(span+1) to match pandas ewm implementation with adjust=False
	alpha := 2.0 / float64(period+1)

	ema := sma
	for i := period; i < len(prices); i++ {
		ema = (prices[i] * alpha) + (ema * (1 - alpha))
	}

	return ema, nil
}
