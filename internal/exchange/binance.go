package exchange

import (
	"context"
	"strconv"
	"strings"

	"github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/argo-moonshot/internal/config"
	"github.com/rxtech-lab/argo-moonshot/internal/types"
	"github.com/rxtech-lab/argo-moonshot/pkg/errors"
)

// BinanceDecimalPrecision is the quantity precision used when formatting orders.
const BinanceDecimalPrecision = 8

// Service interfaces for mocking the Binance API

// PriceChangeStatsService interface for 24h ticker statistics.
type PriceChangeStatsService interface {
	Symbols(symbols []string) PriceChangeStatsService
	Do(ctx context.Context) ([]*binance.PriceChangeStats, error)
}

// GetAccountService interface for getting account info.
type GetAccountService interface {
	Do(ctx context.Context) (*binance.Account, error)
}

// TestOrderService interface for validating orders without executing them.
type TestOrderService interface {
	Symbol(symbol string) TestOrderService
	Side(side binance.SideType) TestOrderService
	Type(orderType binance.OrderType) TestOrderService
	Quantity(quantity string) TestOrderService
	Test(ctx context.Context) error
}

// BinanceClient interface abstracts the Binance client for testing.
type BinanceClient interface {
	NewListPriceChangeStatsService() PriceChangeStatsService
	NewGetAccountService() GetAccountService
	NewTestOrderService() TestOrderService
}

// realBinanceClient wraps the actual binance.Client.
type realBinanceClient struct {
	client *binance.Client
}

func (r *realBinanceClient) NewListPriceChangeStatsService() PriceChangeStatsService {
	return &realPriceChangeStatsService{service: r.client.NewListPriceChangeStatsService()}
}

func (r *realBinanceClient) NewGetAccountService() GetAccountService {
	return &realGetAccountService{service: r.client.NewGetAccountService()}
}

func (r *realBinanceClient) NewTestOrderService() TestOrderService {
	return &realTestOrderService{service: r.client.NewCreateOrderService()}
}

// Real service wrappers

type realPriceChangeStatsService struct {
	service *binance.ListPriceChangeStatsService
}

func (s *realPriceChangeStatsService) Symbols(symbols []string) PriceChangeStatsService {
	s.service = s.service.Symbols(symbols)

	return s
}

func (s *realPriceChangeStatsService) Do(ctx context.Context) ([]*binance.PriceChangeStats, error) {
	return s.service.Do(ctx)
}

type realGetAccountService struct {
	service *binance.GetAccountService
}

func (s *realGetAccountService) Do(ctx context.Context) (*binance.Account, error) {
	return s.service.Do(ctx)
}

type realTestOrderService struct {
	service *binance.CreateOrderService
}

func (s *realTestOrderService) Symbol(symbol string) TestOrderService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realTestOrderService) Side(side binance.SideType) TestOrderService {
	s.service = s.service.Side(side)

	return s
}

func (s *realTestOrderService) Type(orderType binance.OrderType) TestOrderService {
	s.service = s.service.Type(orderType)

	return s
}

func (s *realTestOrderService) Quantity(quantity string) TestOrderService {
	s.service = s.service.Quantity(quantity)

	return s
}

func (s *realTestOrderService) Test(ctx context.Context) error {
	return s.service.Test(ctx)
}

// Binance reads tickers and balances from Binance spot. Orders are only sent to the
// test-order endpoint, which validates them without matching.
type Binance struct {
	client     BinanceClient
	quoteAsset string
	secret     string
}

// NewBinance creates a Binance exchange.
// If cfg.Testnet is true, connects to Binance Testnet (https://testnet.binance.vision/).
func NewBinance(cfg config.ExchangeConfig) (*Binance, error) {
	if cfg.Testnet {
		binance.UseTestnet = true
	}

	client := binance.NewClient(cfg.APIKey, cfg.SecretKey)

	return newBinanceWithClient(&realBinanceClient{client: client}, cfg.QuoteAsset, cfg.SecretKey), nil
}

// newBinanceWithClient creates a Binance exchange with a custom client.
// This is used for testing with mock clients.
func newBinanceWithClient(client BinanceClient, quoteAsset, secret string) *Binance {
	return &Binance{
		client:     client,
		quoteAsset: quoteAsset,
		secret:     secret,
	}
}

func (b *Binance) Name() string {
	return "binance"
}

// pair converts a base symbol to a Binance trading pair, e.g. BTC -> BTCUSDT.
func (b *Binance) pair(symbol string) string {
	return symbol + b.quoteAsset
}

// GetTicker fetches 24h statistics for all symbols in a single request.
func (b *Binance) GetTicker(ctx context.Context, symbols []string) (map[string]types.Ticker, error) {
	if len(symbols) == 0 {
		return map[string]types.Ticker{}, nil
	}

	pairs := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		pairs = append(pairs, b.pair(symbol))
	}

	stats, err := b.client.NewListPriceChangeStatsService().Symbols(pairs).Do(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExchangeRequestFailed, "failed to get ticker statistics from Binance", err)
	}

	result := make(map[string]types.Ticker, len(stats))

	for _, stat := range stats {
		if stat == nil || !strings.HasSuffix(stat.Symbol, b.quoteAsset) {
			continue
		}

		symbol := strings.TrimSuffix(stat.Symbol, b.quoteAsset)

		ticker, err := parseTicker(symbol, stat)
		if err != nil {
			return nil, err
		}

		result[symbol] = ticker
	}

	return result, nil
}

func parseTicker(symbol string, stat *binance.PriceChangeStats) (types.Ticker, error) {
	values := make([]float64, 4)

	for i, raw := range []string{stat.LastPrice, stat.HighPrice, stat.LowPrice, stat.Volume} {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return types.Ticker{}, errors.Wrapf(errors.ErrCodeExchangeRequestFailed, err, "invalid ticker value %q for %s", raw, stat.Symbol)
		}

		values[i] = v
	}

	return types.Ticker{
		Symbol: symbol,
		Last:   values[0],
		High:   values[1],
		Low:    values[2],
		Volume: values[3],
	}, nil
}

// GetBalance returns the non-zero account balances.
func (b *Binance) GetBalance(ctx context.Context) (map[string]types.Balance, error) {
	account, err := b.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExchangeRequestFailed, "failed to get account info from Binance", err)
	}

	balances := make(map[string]types.Balance)

	for _, balance := range account.Balances {
		free, _ := strconv.ParseFloat(balance.Free, 64)
		locked, _ := strconv.ParseFloat(balance.Locked, 64)

		if free+locked > 0 {
			balances[balance.Asset] = types.Balance{
				Asset:  balance.Asset,
				Free:   free,
				Locked: locked,
			}
		}
	}

	return balances, nil
}

// PlaceOrder validates a market order with Binance's test-order endpoint.
func (b *Binance) PlaceOrder(ctx context.Context, order types.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}

	var side binance.SideType

	switch order.Side {
	case types.SideBuy:
		side = binance.SideTypeBuy
	case types.SideSell:
		side = binance.SideTypeSell
	default:
		return errors.Newf(errors.ErrCodeInvalidParameter, "unsupported order side: %s", order.Side)
	}

	err := b.client.NewTestOrderService().
		Symbol(b.pair(order.Symbol)).
		Side(side).
		Type(binance.OrderTypeMarket).
		Quantity(strconv.FormatFloat(order.Quantity, 'f', BinanceDecimalPrecision, 64)).
		Test(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeOrderRejected, "Binance rejected test order", err)
	}

	return nil
}

func (b *Binance) SignRequest(payload string) string {
	return Sign(b.secret, payload)
}
