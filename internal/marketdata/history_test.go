package marketdata

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-moonshot/internal/types"
	"github.com/stretchr/testify/suite"
)

type HistoryCacheTestSuite struct {
	suite.Suite
}

func TestHistoryCacheTestSuite(t *testing.T) {
	suite.Run(t, new(HistoryCacheTestSuite))
}

func (s *HistoryCacheTestSuite) snapshot(symbol string, minute int, price float64) types.MarketSnapshot {
	baseTime := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	return types.MarketSnapshot{
		Symbol:     symbol,
		Price:      price,
		High24h:    price + 1,
		Low24h:     price - 1,
		Volume:     price * 10,
		CapturedAt: baseTime.Add(time.Duration(minute) * time.Minute),
	}
}

func (s *HistoryCacheTestSuite) TestAddAndSize() {
	cache := NewHistoryCache(5)
	s.Equal(5, cache.MaxSize())

	cache.Add(s.snapshot("BTC", 0, 100))
	cache.Add(s.snapshot("BTC", 1, 101))
	cache.Add(s.snapshot("ETH", 0, 10))

	s.Equal(2, cache.Size("BTC"))
	s.Equal(1, cache.Size("ETH"))
	s.Equal(0, cache.Size("SOL"))
}

func (s *HistoryCacheTestSuite) TestSlidingWindowEviction() {
	cache := NewHistoryCache(3)

	for i := 0; i < 5; i++ {
		cache.Add(s.snapshot("BTC", i, float64(100+i)))
	}

	s.Equal(3, cache.Size("BTC"))
	s.Equal([]float64{102, 103, 104}, cache.Prices("BTC"))
	s.Equal([]float64{1020, 1030, 1040}, cache.Volumes("BTC"))
}

func (s *HistoryCacheTestSuite) TestSameTimeReplacesAndOlderIsIgnored() {
	cache := NewHistoryCache(3)

	cache.Add(s.snapshot("BTC", 1, 100))
	cache.Add(s.snapshot("BTC", 1, 105))
	cache.Add(s.snapshot("BTC", 0, 90))

	s.Equal([]float64{105}, cache.Prices("BTC"))
}

func (s *HistoryCacheTestSuite) TestSnapshotsReturnsCopy() {
	cache := NewHistoryCache(3)
	cache.Add(s.snapshot("BTC", 0, 100))

	snapshots := cache.Snapshots("BTC")
	snapshots[0].Price = 1

	s.Equal([]float64{100}, cache.Prices("BTC"))
}

func (s *HistoryCacheTestSuite) TestZeroSizeDisablesCache() {
	cache := NewHistoryCache(0)
	cache.Add(s.snapshot("BTC", 0, 100))

	s.Equal(0, cache.Size("BTC"))
	s.Empty(cache.Prices("BTC"))
}
