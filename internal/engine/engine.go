package engine

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-moonshot/internal/ai"
	"github.com/rxtech-lab/argo-moonshot/internal/config"
	"github.com/rxtech-lab/argo-moonshot/internal/exchange"
	"github.com/rxtech-lab/argo-moonshot/internal/indicator"
	"github.com/rxtech-lab/argo-moonshot/internal/journal"
	"github.com/rxtech-lab/argo-moonshot/internal/ledger"
	"github.com/rxtech-lab/argo-moonshot/internal/logger"
	"github.com/rxtech-lab/argo-moonshot/internal/marketdata"
	"github.com/rxtech-lab/argo-moonshot/internal/scheduler"
	"github.com/rxtech-lab/argo-moonshot/internal/sentiment"
	"github.com/rxtech-lab/argo-moonshot/internal/strategy"
	"github.com/rxtech-lab/argo-moonshot/internal/types"
	"github.com/rxtech-lab/argo-moonshot/pkg/errors"
	"go.uber.org/zap"
)

// OnTradeCallback is called after a trade has been committed to a ledger.
type OnTradeCallback func(trade types.Trade)

// OnStrategyHaltedCallback is called once when a strategy stops trading.
type OnStrategyHaltedCallback func(id types.StrategyID, err error)

// Callbacks holds optional lifecycle callbacks. Nil fields are skipped.
type Callbacks struct {
	OnTrade          *OnTradeCallback
	OnStrategyHalted *OnStrategyHaltedCallback
}

// Dependencies overrides the collaborators New would otherwise build from config.
type Dependencies struct {
	Exchange  exchange.Exchange
	Sentiment sentiment.Source
	Journal   journal.Journal
	Logger    *logger.Logger
	// Clock defaults to time.Now
	Clock func() time.Time
}

// runner is one strategy with the ledger it owns.
type runner struct {
	strategy strategy.Engine
	ledger   *ledger.Ledger

	// tick serializes evaluations of the same strategy
	tick sync.Mutex

	mu        sync.RWMutex
	halted    bool
	lastError string
	lastTick  time.Time
}

// Engine wires data sources, the model and both strategies together. Engines share
// no global state, so several may run in one process.
type Engine struct {
	cfg       config.Config
	logger    *logger.Logger
	exchange  exchange.Exchange
	market    *marketdata.Source
	sentiment *sentiment.Store
	indicator *indicator.Engine
	model     *ai.Model
	journal   journal.Journal
	callbacks Callbacks
	now       func() time.Time

	runners map[types.StrategyID]*runner
	symbols []string
}

// New builds an engine from cfg. Any dependency left nil in deps is created from cfg.
func New(cfg config.Config, deps Dependencies, callbacks Callbacks) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := deps.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}

	now := deps.Clock
	if now == nil {
		now = time.Now
	}

	ex := deps.Exchange
	if ex == nil {
		var err error

		ex, err = exchange.New(cfg.Exchange)
		if err != nil {
			return nil, err
		}
	}

	source := deps.Sentiment
	if source == nil {
		source = sentiment.NewSynthetic(cfg.Sentiment, cfg.Moonshot.Universe)
	}

	j := deps.Journal
	if j == nil {
		j = journal.Nop{}

		if cfg.Journal.Enabled {
			duck, err := journal.NewDuckDB(cfg.Journal.Path, log)
			if err != nil {
				return nil, err
			}

			j = duck
		}
	}

	model := ai.NewModel(cfg.Model, log)

	coreLedger, err := ledger.New(types.StrategyCore, cfg.Core.InitialBalance, log)
	if err != nil {
		return nil, err
	}

	moonshotLedger, err := ledger.New(types.StrategyMoonshot, cfg.Moonshot.InitialBalance, log)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		logger:    log.Named("engine"),
		exchange:  ex,
		market:    marketdata.NewSource(ex, cfg.Exchange.Timeout, cfg.Data.HistorySize, log),
		sentiment: sentiment.NewStore(source, cfg.Exchange.Timeout, log),
		indicator: indicator.NewEngine(cfg.Indicator),
		model:     model,
		journal:   j,
		callbacks: callbacks,
		now:       now,
		runners: map[types.StrategyID]*runner{
			types.StrategyCore: {
				strategy: strategy.NewCore(cfg.Core, log),
				ledger:   coreLedger,
			},
			types.StrategyMoonshot: {
				strategy: strategy.NewMoonshot(cfg.Moonshot, model, log),
				ledger:   moonshotLedger,
			},
		},
		symbols: mergeUniverses(cfg.Core.Universe, cfg.Moonshot.Universe),
	}

	return e, nil
}

// Run drives the refresh and both strategy loops until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("Engine starting",
		zap.String("exchange", e.exchange.Name()),
		zap.Strings("symbols", e.symbols),
	)

	halt := func(err error) bool {
		return errors.HasCode(err, errors.ErrCodeLedgerInvariantViolation) ||
			errors.HasCode(err, errors.ErrCodeStrategyHalted)
	}

	loops := []scheduler.Loop{
		{
			Name:     "refresh",
			Interval: e.cfg.Data.RefreshInterval,
			Tick:     e.RefreshData,
		},
		{
			Name:     string(types.StrategyCore),
			Interval: e.cfg.Core.Interval,
			Tick: func(ctx context.Context) error {
				return e.RunStrategy(ctx, types.StrategyCore)
			},
			Halt: halt,
		},
		{
			Name:     string(types.StrategyMoonshot),
			Interval: e.cfg.Moonshot.Interval,
			Tick: func(ctx context.Context) error {
				return e.RunStrategy(ctx, types.StrategyMoonshot)
			},
			Halt: halt,
		},
	}

	err := scheduler.New(e.logger, loops...).Run(ctx)

	e.logger.Info("Engine stopped")

	return err
}

// Close releases the journal.
func (e *Engine) Close() error {
	return e.journal.Close()
}

// RefreshData refreshes market data and then sentiment. A failed source keeps its
// previous snapshots; the error is returned for logging only.
func (e *Engine) RefreshData(ctx context.Context) error {
	market, marketErr := e.market.Refresh(ctx, e.symbols)
	_, sentimentErr := e.sentiment.Refresh(ctx, e.symbols, market)

	if marketErr != nil {
		return marketErr
	}

	return sentimentErr
}

// RunStrategy evaluates one strategy against the current snapshots and applies its
// decisions one at a time. Cancellation is honoured between decisions only.
func (e *Engine) RunStrategy(ctx context.Context, id types.StrategyID) error {
	r, err := e.runner(id)
	if err != nil {
		return err
	}

	r.tick.Lock()
	defer r.tick.Unlock()

	if r.isHalted() {
		return errors.Newf(errors.ErrCodeStrategyHalted, "strategy %s is halted", id)
	}

	log := e.logger.With(zap.String("strategy", string(id)))
	tick := e.tickContext(r)

	decisions, err := r.strategy.Evaluate(ctx, tick)
	if err != nil {
		r.recordError(err)

		return errors.Wrapf(errors.GetCode(err), err, "evaluation of %s failed", id)
	}

	for i, decision := range decisions {
		if ctx.Err() != nil {
			log.Info("Tick cancelled between decisions", zap.Int("remaining", len(decisions)-i))

			break
		}

		if err := e.apply(ctx, r, decision); err != nil {
			if errors.HasCode(err, errors.ErrCodeLedgerInvariantViolation) {
				e.halt(r, err)

				return err
			}

			log.Warn("Decision skipped",
				zap.String("symbol", decision.Symbol),
				zap.String("action", string(decision.Action)),
				zap.Float64("price", decision.Price),
				zap.Time("decided_at", decision.DecidedAt),
				zap.Error(err),
			)
		}
	}

	if err := r.ledger.MarkToMarket(pricesOf(tick.Market)); err != nil {
		e.halt(r, err)

		return err
	}

	r.mu.Lock()
	r.lastTick = tick.Now
	r.mu.Unlock()

	return nil
}

// apply commits one decision. SELLs of the moonshot strategy teach the model inside
// the ledger's close so that learning and removal happen together.
func (e *Engine) apply(ctx context.Context, r *runner, decision types.Decision) error {
	order := types.Order{
		Symbol:   decision.Symbol,
		Side:     types.Side(decision.Action),
		Quantity: decision.Quantity,
		Price:    decision.Price,
	}

	orderCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.Exchange.Timeout)
	defer cancel()

	if err := e.exchange.PlaceOrder(orderCtx, order); err != nil {
		return err
	}

	switch decision.Action {
	case types.ActionBuy:
		_, trade, err := r.ledger.OpenPosition(decision.Symbol, decision.Price, decision.Quantity,
			e.now(), decision.Reason, decision.Features, decision.Confidence)
		if err != nil && trade.ID == "" {
			return err
		}

		e.recordTrade(trade)

		return err
	case types.ActionSell:
		var hook ledger.CloseHook

		learns := r.strategy.ID() == types.StrategyMoonshot && decision.Features != nil
		if learns {
			features := *decision.Features
			hook = func(trade types.Trade) error {
				e.model.Learn(features, trade.PnL)

				return nil
			}
		}

		trade, err := r.ledger.ClosePosition(decision.PositionID, decision.Price, e.now(), decision.Reason, hook)
		if err != nil && trade.ID == "" {
			return err
		}

		e.recordTrade(trade)

		if learns {
			if jerr := e.journal.RecordModelState(e.model.State()); jerr != nil {
				e.logger.Warn("Failed to journal model state", zap.Error(jerr))
			}
		}

		return err
	default:
		return errors.Newf(errors.ErrCodeInvalidParameter, "unsupported action %q", decision.Action)
	}
}

func (e *Engine) recordTrade(trade types.Trade) {
	if err := e.journal.RecordTrade(trade); err != nil {
		e.logger.Warn("Failed to journal trade", zap.String("trade_id", trade.ID), zap.Error(err))
	}

	if e.callbacks.OnTrade != nil {
		(*e.callbacks.OnTrade)(trade)
	}
}

func (e *Engine) halt(r *runner, err error) {
	r.mu.Lock()
	already := r.halted
	r.halted = true
	r.lastError = err.Error()
	r.mu.Unlock()

	if already {
		return
	}

	e.logger.Error("Strategy halted", zap.String("strategy", string(r.strategy.ID())), zap.Error(err))

	if e.callbacks.OnStrategyHalted != nil {
		(*e.callbacks.OnStrategyHalted)(r.strategy.ID(), err)
	}
}

func (e *Engine) tickContext(r *runner) *strategy.TickContext {
	market := e.market.Snapshots()

	symbols := r.strategy.Universe()
	for _, position := range r.ledger.Positions() {
		if !slices.Contains(symbols, position.Symbol) {
			symbols = append(symbols, position.Symbol)
		}
	}

	history := make(map[string][]types.MarketSnapshot, len(symbols))
	for _, symbol := range symbols {
		history[symbol] = e.market.History(symbol)
	}

	return &strategy.TickContext{
		Now:        e.now(),
		Market:     market,
		Sentiment:  e.sentiment.Snapshots(),
		Indicators: e.indicator.ComputeAll(market, e.market.Prices),
		History:    history,
		Portfolio:  r.ledger,
	}
}

func (e *Engine) runner(id types.StrategyID) (*runner, error) {
	r, ok := e.runners[id]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeUnknownStrategy, "unknown strategy %q", id)
	}

	return r, nil
}

func (r *runner) isHalted() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.halted
}

func (r *runner) recordError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastError = err.Error()
}

func pricesOf(market map[string]types.MarketSnapshot) map[string]float64 {
	prices := make(map[string]float64, len(market))
	for symbol, snapshot := range market {
		prices[symbol] = snapshot.Price
	}

	return prices
}

func mergeUniverses(universes ...[]string) []string {
	seen := make(map[string]struct{})
	merged := make([]string, 0)

	for _, universe := range universes {
		for _, symbol := range universe {
			if _, ok := seen[symbol]; ok {
				continue
			}

			seen[symbol] = struct{}{}
			merged = append(merged, symbol)
		}
	}

	sort.Strings(merged)

	return merged
}
