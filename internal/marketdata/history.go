package marketdata

import (
	"sync"

	"github.com/rxtech-lab/argo-moonshot/internal/types"
)

// HistoryCache stores recent snapshots using a sliding window.
// It maintains a fixed-size window per symbol, evicting the oldest
// entries when the window reaches capacity.
type HistoryCache struct {
	maxSize int
	// data stores snapshots per symbol, ordered by capture time (oldest first)
	data map[string][]types.MarketSnapshot
	mu   sync.RWMutex
}

// NewHistoryCache creates a new HistoryCache with the specified maximum size per symbol.
func NewHistoryCache(maxSize int) *HistoryCache {
	return &HistoryCache{
		maxSize: maxSize,
		data:    make(map[string][]types.MarketSnapshot),
		mu:      sync.RWMutex{},
	}
}

// Add appends a snapshot to its symbol's window. A snapshot with the same capture
// time as the newest entry replaces it; older snapshots are ignored.
func (c *HistoryCache) Add(snapshot types.MarketSnapshot) {
	if c.maxSize <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	symbolData := c.data[snapshot.Symbol]

	if len(symbolData) > 0 {
		last := symbolData[len(symbolData)-1].CapturedAt
		if snapshot.CapturedAt.Equal(last) {
			symbolData[len(symbolData)-1] = snapshot

			return
		}

		if snapshot.CapturedAt.Before(last) {
			return
		}
	}

	symbolData = append(symbolData, snapshot)
	if len(symbolData) > c.maxSize {
		// copy so the evicted prefix can be collected
		trimmed := make([]types.MarketSnapshot, c.maxSize, c.maxSize+1)
		copy(trimmed, symbolData[len(symbolData)-c.maxSize:])
		symbolData = trimmed
	}

	c.data[snapshot.Symbol] = symbolData
}

// Snapshots returns a copy of the symbol's window, oldest first.
func (c *HistoryCache) Snapshots(symbol string) []types.MarketSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	symbolData := c.data[symbol]
	result := make([]types.MarketSnapshot, len(symbolData))
	copy(result, symbolData)

	return result
}

// Prices returns the symbol's price series, oldest first.
func (c *HistoryCache) Prices(symbol string) []float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	symbolData := c.data[symbol]
	result := make([]float64, len(symbolData))

	for i, snapshot := range symbolData {
		result[i] = snapshot.Price
	}

	return result
}

// Volumes returns the symbol's volume series, oldest first.
func (c *HistoryCache) Volumes(symbol string) []float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	symbolData := c.data[symbol]
	result := make([]float64, len(symbolData))

	for i, snapshot := range symbolData {
		result[i] = snapshot.Volume
	}

	return result
}

// Size returns the current number of cached entries for a symbol.
func (c *HistoryCache) Size(symbol string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.data[symbol])
}

// MaxSize returns the maximum window size per symbol.
func (c *HistoryCache) MaxSize() int {
	return c.maxSize
}
