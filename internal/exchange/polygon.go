package exchange

import (
	"context"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-moonshot/internal/config"
	"github.com/rxtech-lab/argo-moonshot/internal/types"
	"github.com/rxtech-lab/argo-moonshot/pkg/errors"
)

// PolygonSnapshotClient is the subset of the Polygon REST client used for quotes.
type PolygonSnapshotClient interface {
	GetTickerSnapshot(ctx context.Context, params *models.GetTickerSnapshotParams, options ...models.RequestOption) (*models.GetTickerSnapshotResponse, error)
}

// Polygon reads crypto day snapshots from Polygon.io. It has no account, so balances
// are always empty and orders are only validated locally.
type Polygon struct {
	client     PolygonSnapshotClient
	quoteAsset string
	secret     string
}

// NewPolygon creates a Polygon exchange.
func NewPolygon(cfg config.ExchangeConfig) (*Polygon, error) {
	if cfg.PolygonAPIKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "polygon api key is required")
	}

	return newPolygonWithClient(polygon.New(cfg.PolygonAPIKey), "USD", cfg.SecretKey), nil
}

func newPolygonWithClient(client PolygonSnapshotClient, quoteAsset, secret string) *Polygon {
	return &Polygon{
		client:     client,
		quoteAsset: quoteAsset,
		secret:     secret,
	}
}

func (p *Polygon) Name() string {
	return "polygon"
}

// GetTicker requests one snapshot per symbol. A symbol that fails is left out of the
// result; the call only fails when every symbol fails.
func (p *Polygon) GetTicker(ctx context.Context, symbols []string) (map[string]types.Ticker, error) {
	result := make(map[string]types.Ticker, len(symbols))

	var lastErr error

	for _, symbol := range symbols {
		//nolint:exhaustruct // third-party struct with optional fields
		params := &models.GetTickerSnapshotParams{
			Ticker:     "X:" + symbol + p.quoteAsset,
			Locale:     models.Global,
			MarketType: models.Crypto,
		}

		res, err := p.client.GetTickerSnapshot(ctx, params)
		if err != nil {
			lastErr = err

			continue
		}

		day := res.Snapshot.Day
		if day.Close <= 0 {
			continue
		}

		result[symbol] = types.Ticker{
			Symbol: symbol,
			Last:   day.Close,
			High:   day.High,
			Low:    day.Low,
			Volume: day.Volume,
		}
	}

	if len(result) == 0 && lastErr != nil {
		return nil, errors.Wrap(errors.ErrCodeExchangeRequestFailed, "failed to get snapshots from Polygon", lastErr)
	}

	return result, nil
}

func (p *Polygon) GetBalance(ctx context.Context) (map[string]types.Balance, error) {
	return map[string]types.Balance{}, nil
}

func (p *Polygon) PlaceOrder(ctx context.Context, order types.Order) error {
	return order.Validate()
}

func (p *Polygon) SignRequest(payload string) string {
	return Sign(p.secret, payload)
}
