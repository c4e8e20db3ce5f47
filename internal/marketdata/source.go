package marketdata

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-moonshot/internal/exchange"
	"github.com/rxtech-lab/argo-moonshot/internal/logger"
	"github.com/rxtech-lab/argo-moonshot/internal/types"
	"github.com/rxtech-lab/argo-moonshot/pkg/errors"
	"go.uber.org/zap"
)

// Source keeps the latest market snapshot per symbol. Each refresh publishes a new
// immutable map, so readers always see one complete refresh and never a partial one.
// When the exchange fails the previous snapshots stay published.
type Source struct {
	exchange exchange.Exchange
	timeout  time.Duration
	history  *HistoryCache
	logger   *logger.Logger
	now      func() time.Time

	snapshots atomic.Pointer[map[string]types.MarketSnapshot]
}

// NewSource creates a market data source backed by ex.
func NewSource(ex exchange.Exchange, timeout time.Duration, historySize int, log *logger.Logger) *Source {
	s := &Source{
		exchange: ex,
		timeout:  timeout,
		history:  NewHistoryCache(historySize),
		logger:   log.Named("marketdata"),
		now:      time.Now,
	}

	empty := map[string]types.MarketSnapshot{}
	s.snapshots.Store(&empty)

	return s
}

// Refresh fetches tickers for symbols and publishes the merged snapshot map.
// Symbols missing from the response keep their previous snapshot. On failure the
// current map is returned together with an ErrCodeDataUnavailable error.
func (s *Source) Refresh(ctx context.Context, symbols []string) (map[string]types.MarketSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	current := s.Snapshots()

	tickers, err := s.exchange.GetTicker(ctx, symbols)
	if err != nil {
		s.logger.Warn("market refresh failed, keeping previous snapshots",
			zap.String("exchange", s.exchange.Name()),
			zap.Int("retained", len(current)),
			zap.Error(err),
		)

		return current, errors.Wrap(errors.ErrCodeDataUnavailable, "market data unavailable", err)
	}

	capturedAt := s.now()
	next := make(map[string]types.MarketSnapshot, len(current)+len(tickers))

	for symbol, snapshot := range current {
		next[symbol] = snapshot
	}

	for _, symbol := range symbols {
		ticker, ok := tickers[symbol]
		if !ok || ticker.Last <= 0 {
			if _, stale := current[symbol]; stale {
				s.logger.Debug("symbol missing from refresh, keeping stale snapshot", zap.String("symbol", symbol))
			}

			continue
		}

		snapshot := toSnapshot(symbol, ticker, capturedAt)
		next[symbol] = snapshot
		s.history.Add(snapshot)
	}

	s.snapshots.Store(&next)

	return next, nil
}

// toSnapshot widens a malformed 24h range so that low <= price <= high always holds.
func toSnapshot(symbol string, ticker types.Ticker, capturedAt time.Time) types.MarketSnapshot {
	high := ticker.High
	low := ticker.Low

	if high < ticker.Last {
		high = ticker.Last
	}

	if low <= 0 || low > ticker.Last {
		low = ticker.Last
	}

	return types.MarketSnapshot{
		Symbol:     symbol,
		Price:      ticker.Last,
		High24h:    high,
		Low24h:     low,
		Volume:     ticker.Volume,
		CapturedAt: capturedAt,
	}
}

// Snapshots returns the currently published map. Callers must not modify it.
func (s *Source) Snapshots() map[string]types.MarketSnapshot {
	return *s.snapshots.Load()
}

// Snapshot returns the current snapshot for symbol, if any.
func (s *Source) Snapshot(symbol string) optional.Option[types.MarketSnapshot] {
	snapshot, ok := s.Snapshots()[symbol]
	if !ok {
		return optional.None[types.MarketSnapshot]()
	}

	return optional.Some(snapshot)
}

// History returns the symbol's recent snapshots, oldest first.
func (s *Source) History(symbol string) []types.MarketSnapshot {
	return s.history.Snapshots(symbol)
}

// Prices returns the symbol's recent prices, oldest first.
func (s *Source) Prices(symbol string) []float64 {
	return s.history.Prices(symbol)
}

// Volumes returns the symbol's recent volumes, oldest first.
func (s *Source) Volumes(symbol string) []float64 {
	return s.history.Volumes(symbol)
}

// Balances returns the exchange account balances. They are informational only.
func (s *Source) Balances(ctx context.Context) (map[string]types.Balance, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	balances, err := s.exchange.GetBalance(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataUnavailable, "balances unavailable", err)
	}

	return balances, nil
}
