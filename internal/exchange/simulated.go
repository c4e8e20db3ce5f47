package exchange

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-moonshot/internal/types"
	"github.com/rxtech-lab/argo-moonshot/pkg/errors"
)

// simulatedWindow is the number of steps that make up the simulated 24h range.
const simulatedWindow = 48

// seed prices for the symbols the engine trades by default
var simulatedBasePrices = map[string]float64{
	"BTC":   50000,
	"ETH":   3000,
	"SOL":   100,
	"ADA":   0.5,
	"DOT":   7,
	"LINK":  15,
	"PEPE":  0.0000012,
	"SHIB":  0.000012,
	"DOGE":  0.08,
	"FLOKI": 0.00003,
	"BONK":  0.00001,
	"WIF":   2,
}

// meme coins move faster than majors
var simulatedVolatility = map[string]float64{
	"PEPE":  0.03,
	"SHIB":  0.025,
	"DOGE":  0.02,
	"FLOKI": 0.03,
	"BONK":  0.035,
	"WIF":   0.03,
}

const defaultSimulatedVolatility = 0.008

type simulatedSymbol struct {
	prices     []float64
	next       int
	filled     bool
	baseVolume float64
	volume     float64
}

func (s *simulatedSymbol) last() float64 {
	idx := (s.next - 1 + len(s.prices)) % len(s.prices)

	return s.prices[idx]
}

func (s *simulatedSymbol) push(price float64) {
	s.prices[s.next] = price
	s.next = (s.next + 1) % len(s.prices)
	if s.next == 0 {
		s.filled = true
	}
}

func (s *simulatedSymbol) window() []float64 {
	if s.filled {
		return s.prices
	}

	return s.prices[:s.next]
}

// Simulated is an in-process random-walk exchange. With a fixed seed the sequence of
// tickers is reproducible, which makes it the default for paper trading and tests.
type Simulated struct {
	mu         sync.Mutex
	rng        *rand.Rand
	quoteAsset string
	secret     string
	symbols    map[string]*simulatedSymbol
}

// NewSimulated creates a simulated exchange. A zero seed uses the current time.
func NewSimulated(seed int64, quoteAsset, secret string) *Simulated {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Simulated{
		rng:        rand.New(rand.NewSource(seed)),
		quoteAsset: quoteAsset,
		secret:     secret,
		symbols:    make(map[string]*simulatedSymbol),
	}
}

func (s *Simulated) Name() string {
	return "simulated"
}

// GetTicker advances every requested symbol by one random-walk step.
// Symbols without a seed price start at 1.
func (s *Simulated) GetTicker(ctx context.Context, symbols []string) (map[string]types.Ticker, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExchangeRequestFailed, "simulated ticker request cancelled", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := make(map[string]types.Ticker, len(symbols))

	for _, symbol := range symbols {
		state := s.symbolState(symbol)

		previous := state.last()
		ret := s.rng.NormFloat64() * volatilityFor(symbol)
		price := math.Max(previous*(1+ret), previous*0.5)
		state.push(price)

		// volume reacts to the size of the move
		state.volume = state.baseVolume * (1 + math.Abs(ret)*50) * (0.8 + 0.4*s.rng.Float64())

		high, low := price, price
		for _, p := range state.window() {
			high = math.Max(high, p)
			low = math.Min(low, p)
		}

		result[symbol] = types.Ticker{
			Symbol: symbol,
			Last:   price,
			High:   high,
			Low:    low,
			Volume: state.volume,
		}
	}

	return result, nil
}

func (s *Simulated) symbolState(symbol string) *simulatedSymbol {
	state, ok := s.symbols[symbol]
	if ok {
		return state
	}

	base, ok := simulatedBasePrices[symbol]
	if !ok {
		base = 1
	}

	state = &simulatedSymbol{
		prices:     make([]float64, simulatedWindow),
		baseVolume: 1_000_000 * (0.5 + s.rng.Float64()),
	}
	state.push(base)
	state.volume = state.baseVolume
	s.symbols[symbol] = state

	return state
}

func volatilityFor(symbol string) float64 {
	if v, ok := simulatedVolatility[symbol]; ok {
		return v
	}

	return defaultSimulatedVolatility
}

// GetBalance reports an empty quote balance; the simulated account holds no funds.
func (s *Simulated) GetBalance(ctx context.Context) (map[string]types.Balance, error) {
	return map[string]types.Balance{
		s.quoteAsset: {Asset: s.quoteAsset},
	}, nil
}

// PlaceOrder accepts any valid order for a symbol the exchange has quoted.
func (s *Simulated) PlaceOrder(ctx context.Context, order types.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.symbols[order.Symbol]; !ok {
		return errors.Newf(errors.ErrCodeOrderRejected, "unknown symbol: %s", order.Symbol)
	}

	return nil
}

func (s *Simulated) SignRequest(payload string) string {
	return Sign(s.secret, payload)
}
