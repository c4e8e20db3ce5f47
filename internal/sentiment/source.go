package sentiment

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-moonshot/internal/logger"
	"github.com/rxtech-lab/argo-moonshot/internal/types"
	"github.com/rxtech-lab/argo-moonshot/pkg/errors"
	"go.uber.org/zap"
)

// Source produces sentiment readings. The market snapshots of the same refresh are
// passed in so that sources may correlate with price action.
type Source interface {
	Name() string
	Fetch(ctx context.Context, symbols []string, market map[string]types.MarketSnapshot) (map[string]types.SentimentSnapshot, error)
}

// Store publishes the latest sentiment snapshot per symbol with the same semantics as
// the market data source: whole-map atomic replacement and stale retention on failure.
type Store struct {
	source  Source
	timeout time.Duration
	logger  *logger.Logger

	snapshots atomic.Pointer[map[string]types.SentimentSnapshot]
}

// NewStore creates a store backed by source.
func NewStore(source Source, timeout time.Duration, log *logger.Logger) *Store {
	s := &Store{
		source:  source,
		timeout: timeout,
		logger:  log.Named("sentiment"),
	}

	empty := map[string]types.SentimentSnapshot{}
	s.snapshots.Store(&empty)

	return s
}

// Refresh fetches readings for symbols and publishes the merged map.
// On failure the current map is returned with an ErrCodeDataUnavailable error.
func (s *Store) Refresh(ctx context.Context, symbols []string, market map[string]types.MarketSnapshot) (map[string]types.SentimentSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	current := s.Snapshots()

	readings, err := s.source.Fetch(ctx, symbols, market)
	if err != nil {
		s.logger.Warn("sentiment refresh failed, keeping previous snapshots",
			zap.String("source", s.source.Name()),
			zap.Int("retained", len(current)),
			zap.Error(err),
		)

		return current, errors.Wrap(errors.ErrCodeDataUnavailable, "sentiment data unavailable", err)
	}

	next := make(map[string]types.SentimentSnapshot, len(current)+len(readings))
	for symbol, snapshot := range current {
		next[symbol] = snapshot
	}

	for _, symbol := range symbols {
		reading, ok := readings[symbol]
		if !ok {
			continue
		}

		reading.Symbol = symbol
		reading.Score = types.ClampSentimentScore(reading.Score)
		next[symbol] = reading
	}

	s.snapshots.Store(&next)

	return next, nil
}

// Snapshots returns the currently published map. Callers must not modify it.
func (s *Store) Snapshots() map[string]types.SentimentSnapshot {
	return *s.snapshots.Load()
}

// Snapshot returns the current reading for symbol, if any.
func (s *Store) Snapshot(symbol string) optional.Option[types.SentimentSnapshot] {
	snapshot, ok := s.Snapshots()[symbol]
	if !ok {
		return optional.None[types.SentimentSnapshot]()
	}

	return optional.Some(snapshot)
}
