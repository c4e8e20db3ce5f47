package journal

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-moonshot/internal/logger"
	"github.com/rxtech-lab/argo-moonshot/internal/types"
	"github.com/rxtech-lab/argo-moonshot/pkg/errors"
	"go.uber.org/zap"
)

// MemoryPath opens an in-memory database.
const MemoryPath = ":memory:"

// DuckDB writes the journal to a DuckDB database file.
type DuckDB struct {
	db     *sql.DB
	sq     squirrel.StatementBuilderType
	logger *logger.Logger
	now    func() time.Time

	mu sync.Mutex
}

// NewDuckDB opens (or creates) the database at path and makes sure the tables exist.
func NewDuckDB(path string, log *logger.Logger) (*DuckDB, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrapf(errors.ErrCodeJournalWriteFailed, err, "failed to create journal directory %s", dir)
			}
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to open journal database", err)
	}

	// a single connection keeps an in-memory database alive across calls
	db.SetMaxOpenConns(1)

	j := &DuckDB{
		db:     db,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		logger: log.Named("journal"),
		now:    time.Now,
	}

	if err := j.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return j, nil
}

func (j *DuckDB) initialize() error {
	_, err := j.db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			id TEXT PRIMARY KEY,
			symbol TEXT,
			strategy TEXT,
			side TEXT,
			quantity DOUBLE,
			price DOUBLE,
			pnl DOUBLE,
			timestamp TIMESTAMP,
			reason TEXT
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to create trades table", err)
	}

	_, err = j.db.Exec(`
		CREATE TABLE IF NOT EXISTS model_states (
			id TEXT PRIMARY KEY,
			recorded_at TIMESTAMP,
			w_social_volume DOUBLE,
			w_sentiment DOUBLE,
			w_price_velocity DOUBLE,
			w_volume_spike DOUBLE,
			confidence DOUBLE,
			win_rate DOUBLE,
			trades_learned INTEGER
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to create model_states table", err)
	}

	return nil
}

// RecordTrade appends one trade.
func (j *DuckDB) RecordTrade(trade types.Trade) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.sq.
		Insert("trades").
		Columns("id", "symbol", "strategy", "side", "quantity", "price", "pnl", "timestamp", "reason").
		Values(trade.ID, trade.Symbol, string(trade.Strategy), string(trade.Side), trade.Quantity,
			trade.Price, trade.PnL, trade.Timestamp, trade.Reason).
		RunWith(j.db).
		Exec()
	if err != nil {
		return errors.Wrapf(errors.ErrCodeJournalWriteFailed, err, "failed to record trade %s", trade.ID)
	}

	return nil
}

// RecordModelState appends a snapshot of the model's learned state.
func (j *DuckDB) RecordModelState(state types.ModelState) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.sq.
		Insert("model_states").
		Columns("id", "recorded_at", "w_social_volume", "w_sentiment", "w_price_velocity", "w_volume_spike",
			"confidence", "win_rate", "trades_learned").
		Values(uuid.New().String(), j.now(), state.Weights.SocialVolume, state.Weights.Sentiment,
			state.Weights.PriceVelocity, state.Weights.VolumeSpike, state.Confidence, state.WinRate,
			state.TradesLearned).
		RunWith(j.db).
		Exec()
	if err != nil {
		return errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to record model state", err)
	}

	return nil
}

// Trades returns the journaled trades of strategy, newest first. A limit of 0 returns all.
func (j *DuckDB) Trades(ctx context.Context, strategy types.StrategyID, limit uint64) ([]types.Trade, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	query := j.sq.
		Select("id", "symbol", "strategy", "side", "quantity", "price", "pnl", "timestamp", "reason").
		From("trades").
		Where(squirrel.Eq{"strategy": string(strategy)}).
		OrderBy("timestamp DESC", "id")

	if limit > 0 {
		query = query.Limit(limit)
	}

	rows, err := query.RunWith(j.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to query trades", err)
	}
	defer rows.Close()

	trades := make([]types.Trade, 0)

	for rows.Next() {
		var (
			trade            types.Trade
			strategyID, side string
		)

		if err := rows.Scan(&trade.ID, &trade.Symbol, &strategyID, &side, &trade.Quantity,
			&trade.Price, &trade.PnL, &trade.Timestamp, &trade.Reason); err != nil {
			return nil, errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to scan trade", err)
		}

		trade.Strategy = types.StrategyID(strategyID)
		trade.Side = types.Side(side)
		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to read trades", err)
	}

	return trades, nil
}

// ModelStateCount returns how many model snapshots have been recorded.
func (j *DuckDB) ModelStateCount(ctx context.Context) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var count int

	err := j.sq.Select("COUNT(*)").From("model_states").RunWith(j.db).QueryRowContext(ctx).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to count model states", err)
	}

	return count, nil
}

// Close closes the database.
func (j *DuckDB) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.db.Close(); err != nil {
		j.logger.Warn("Failed to close journal", zap.Error(err))

		return err
	}

	return nil
}
