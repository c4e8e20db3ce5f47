package indicator

import (
	"github.com/rxtech-lab/argo-moonshot/pkg/errors"
)

// MACD returns the MACD line, EMA(fast) − EMA(slow), over prices (oldest first).
func MACD(prices []float64, fast, slow int) (float64, error) {
	if fast >= slow {
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "fast period %d must be shorter than slow period %d", fast, slow)
	}

	fastEMA, err := EMA(prices, fast)
	if err != nil {
		return 0, err
	}

	slowEMA, err := EMA(prices, slow)
	if err != nil {
		return 0, err
	}

	return fastEMA - slowEMA, nil
}
