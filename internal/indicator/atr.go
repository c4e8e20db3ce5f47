package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-moonshot/pkg/errors"
)

// ATR estimates the average true range from a close-only price series. Without
// intrabar highs and lows the true range of a step is the absolute close-to-close
// change, smoothed with Wilder's method.
func ATR(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "period must be a positive integer, got %d", period)
	}

	if len(prices) < period+1 {
		return 0, errors.Newf(errors.ErrCodeInsufficientHistory, "insufficient history for ATR: need %d prices, got %d", period+1, len(prices))
	}

	atr := 0.0
	for i := 1; i <= period; i++ {
		atr += math.Abs(prices[i] - prices[i-1])
	}

	atr /= float64(period)

	for i := period + 1; i < len(prices); i++ {
		tr := math.Abs(prices[i] - prices[i-1])
		atr = (atr*float64(period-1) + tr) / float64(period)
	}

	return atr, nil
}
