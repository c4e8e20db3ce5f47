package exchange

import (
	"context"

	"github.com/rxtech-lab/argo-moonshot/internal/config"
	"github.com/rxtech-lab/argo-moonshot/internal/types"
	"github.com/rxtech-lab/argo-moonshot/pkg/errors"
)

// Exchange is the price and account capability the engine reads from.
// Implementations never route live orders; PlaceOrder only validates.
type Exchange interface {
	// Name returns the implementation name, e.g. "binance"
	Name() string
	// GetTicker returns the latest quote for each requested base symbol.
	// Symbols the exchange does not know are absent from the result.
	GetTicker(ctx context.Context, symbols []string) (map[string]types.Ticker, error)
	// GetBalance returns account balances keyed by asset.
	GetBalance(ctx context.Context) (map[string]types.Balance, error)
	// PlaceOrder validates an order against the exchange without executing it.
	PlaceOrder(ctx context.Context, order types.Order) error
	// SignRequest returns the hex HMAC-SHA256 signature of payload.
	SignRequest(payload string) string
}

// New creates the exchange selected by cfg.Kind.
func New(cfg config.ExchangeConfig) (Exchange, error) {
	switch cfg.Kind {
	case config.ExchangeSimulated:
		return NewSimulated(cfg.Seed, cfg.QuoteAsset, cfg.SecretKey), nil
	case config.ExchangeBinance:
		b, err := NewBinance(cfg)
		if err != nil {
			return nil, err
		}

		return b, nil
	case config.ExchangePolygon:
		p, err := NewPolygon(cfg)
		if err != nil {
			return nil, err
		}

		return p, nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedExchange, "unsupported exchange: %s", cfg.Kind)
	}
}
