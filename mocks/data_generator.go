package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-moonshot/internal/types"
)

// DataGenerator generates realistic market snapshots for tests.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how snapshots are generated.
type GeneratorConfig struct {
	// Symbol is the base asset symbol (e.g., "BTC", "PEPE")
	Symbol string
	// StartTime is the capture time of the first snapshot
	StartTime time.Time
	// Interval is the duration between snapshots
	Interval time.Duration
	// Count is the number of snapshots to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement per step (0.01 = 1%)
	Volatility float64
	// Trend is the total drift over the series (-0.1 to 0.1 for bearish to bullish)
	Trend float64
	// RangeWindow is the number of steps that make up the 24h high/low
	RangeWindow int
	// VolumeBase is the average volume per snapshot
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "BTC",
		StartTime:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:       time.Minute,
		Count:          1000,
		InitialPrice:   50000.0,
		Volatility:     0.004,
		Trend:          0.0,
		RangeWindow:    48,
		VolumeBase:     10000,
		VolumeVariance: 0.3,
	}
}

// Generate creates a series of snapshots following a geometric Brownian motion.
// High24h and Low24h span the trailing RangeWindow prices, so every snapshot
// satisfies Low24h <= Price <= High24h.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.MarketSnapshot {
	data := make([]types.MarketSnapshot, config.Count)
	prices := make([]float64, 0, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	window := config.RangeWindow
	if window <= 0 {
		window = 1
	}

	for i := 0; i < config.Count; i++ {
		if i > 0 {
			// Box-Muller transform for a normal step
			u1 := 1 - g.rng.Float64()
			u2 := g.rng.Float64()
			z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

			drift := config.Trend / float64(config.Count)

			next := currentPrice * (1 + config.Volatility*z + drift)
			if next <= 0 {
				next = currentPrice * 0.99
			}

			currentPrice = next
		}

		prices = append(prices, currentPrice)

		start := len(prices) - window
		if start < 0 {
			start = 0
		}

		high, low := currentPrice, currentPrice
		for _, p := range prices[start:] {
			high = math.Max(high, p)
			low = math.Min(low, p)
		}

		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance
		volume := config.VolumeBase * volumeVariation
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		data[i] = types.MarketSnapshot{
			Symbol:     config.Symbol,
			Price:      currentPrice,
			High24h:    high,
			Low24h:     low,
			Volume:     volume,
			CapturedAt: currentTime,
		}

		currentTime = currentTime.Add(config.Interval)
	}

	return data
}

// GenerateMultiSymbol generates a series for each symbol.
func (g *DataGenerator) GenerateMultiSymbol(symbols []string, baseConfig GeneratorConfig) map[string][]types.MarketSnapshot {
	result := make(map[string][]types.MarketSnapshot, len(symbols))

	for _, symbol := range symbols {
		config := baseConfig
		config.Symbol = symbol
		// Vary initial price and volatility slightly per symbol
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		result[symbol] = g.Generate(config)
	}

	return result
}

// Tickers converts the snapshot at index i of each series to exchange tickers.
func Tickers(series map[string][]types.MarketSnapshot, i int) map[string]types.Ticker {
	tickers := make(map[string]types.Ticker, len(series))

	for symbol, snapshots := range series {
		if i >= len(snapshots) {
			continue
		}

		s := snapshots[i]
		tickers[symbol] = types.Ticker{
			Symbol: symbol,
			Last:   s.Price,
			High:   s.High24h,
			Low:    s.Low24h,
			Volume: s.Volume,
		}
	}

	return tickers
}
