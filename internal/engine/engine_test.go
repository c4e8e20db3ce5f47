package engine

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-moonshot/internal/config"
	"github.com/rxtech-lab/argo-moonshot/internal/types"
	"github.com/rxtech-lab/argo-moonshot/mocks"
	"github.com/rxtech-lab/argo-moonshot/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type EngineTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	exchange  *mocks.MockExchange
	source    *mocks.MockSource
	journal   *mocks.MockJournal
	cfg       config.Config
	engine    *Engine
	tickers   map[string]types.Ticker
	sentiment map[string]types.SentimentSnapshot
	mu        sync.Mutex
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (suite *EngineTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.exchange = mocks.NewMockExchange(suite.ctrl)
	suite.source = mocks.NewMockSource(suite.ctrl)
	suite.journal = mocks.NewMockJournal(suite.ctrl)

	suite.tickers = map[string]types.Ticker{}
	suite.sentiment = map[string]types.SentimentSnapshot{}

	suite.exchange.EXPECT().Name().Return("mock").AnyTimes()
	suite.exchange.EXPECT().GetTicker(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, []string) (map[string]types.Ticker, error) {
			suite.mu.Lock()
			defer suite.mu.Unlock()

			return suite.tickers, nil
		}).AnyTimes()
	suite.source.EXPECT().Name().Return("mock").AnyTimes()
	suite.source.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, []string, map[string]types.MarketSnapshot) (map[string]types.SentimentSnapshot, error) {
			suite.mu.Lock()
			defer suite.mu.Unlock()

			return suite.sentiment, nil
		}).AnyTimes()

	suite.cfg = config.Default()
	suite.cfg.Core.Universe = []string{"SOL"}
	suite.cfg.Moonshot.Universe = []string{"PEPE"}

	var err error
	suite.engine, err = New(suite.cfg, Dependencies{
		Exchange:  suite.exchange,
		Sentiment: suite.source,
		Journal:   suite.journal,
	}, Callbacks{})
	suite.Require().NoError(err)
}

func (suite *EngineTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *EngineTestSuite) step(tickers map[string]types.Ticker, sentiment map[string]types.SentimentSnapshot) {
	suite.mu.Lock()
	suite.tickers = tickers
	suite.sentiment = sentiment
	suite.mu.Unlock()

	suite.Require().NoError(suite.engine.RefreshData(context.Background()))
}

func (suite *EngineTestSuite) TestNewRejectsInvalidCapital() {
	cfg := config.Default()
	cfg.Core.InitialBalance = 0

	_, err := New(cfg, Dependencies{Exchange: suite.exchange}, Callbacks{})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidInitialCapital))
	suite.True(errors.IsFatal(err))
}

func (suite *EngineTestSuite) TestNewBuildsDefaults() {
	cfg := config.Default()
	cfg.Exchange.Seed = 7

	e, err := New(cfg, Dependencies{}, Callbacks{})
	suite.Require().NoError(err)
	suite.NoError(e.RefreshData(context.Background()))
	suite.Len(e.GetMarketData(), len(e.Symbols()))
	suite.NoError(e.Close())
}

func (suite *EngineTestSuite) TestRefreshPublishesSnapshots() {
	suite.step(
		map[string]types.Ticker{"SOL": {Symbol: "SOL", Last: 100, High: 110, Low: 90, Volume: 5}},
		map[string]types.SentimentSnapshot{"SOL": {Score: 0.2}},
	)

	suite.Equal(100.0, suite.engine.GetMarketData()["SOL"].Price)
	suite.Equal(types.SentimentScoreMax, suite.engine.GetSentimentData()["SOL"].Score)
	suite.Equal(50.0, suite.engine.GetIndicators()["SOL"].RSI)
	suite.Equal([]string{"PEPE", "SOL"}, suite.engine.Symbols())
}

func (suite *EngineTestSuite) TestCoreRoundTrip() {
	suite.exchange.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	suite.journal.EXPECT().RecordTrade(gomock.Any()).Return(nil).Times(2)

	sentiment := map[string]types.SentimentSnapshot{"SOL": {Score: 0.07, Confidence: 0.6}}

	// RSI proxy 60, bullish
	suite.step(map[string]types.Ticker{"SOL": {Last: 102, High: 110, Low: 90}}, sentiment)
	suite.Require().NoError(suite.engine.RunStrategy(context.Background(), types.StrategyCore))

	status, err := suite.engine.GetStrategyStatus(types.StrategyCore)
	suite.Require().NoError(err)
	suite.Require().Len(status.Positions, 1)
	suite.InDelta(200.0/102, status.Positions[0].Quantity, 1e-9)
	suite.InDelta(9800.0, status.Metrics.Cash, 1e-6)
	suite.Nil(status.Model)
	suite.False(status.LastTick.IsZero())

	suite.step(map[string]types.Ticker{"SOL": {Last: 105.1, High: 110, Low: 90}}, sentiment)
	suite.Require().NoError(suite.engine.RunStrategy(context.Background(), types.StrategyCore))

	status, err = suite.engine.GetStrategyStatus(types.StrategyCore)
	suite.Require().NoError(err)
	suite.Empty(status.Positions)
	suite.Equal(1, status.Metrics.ClosedTradeCount)
	suite.Equal(100.0, status.Metrics.WinRate)
	suite.InDelta(200*(105.1/102-1), status.Metrics.RealizedPnL, 1e-6)
	suite.Len(status.RecentTrades, 2)
	suite.InDelta(status.Metrics.InitialBalance+status.Metrics.RealizedPnL, status.Metrics.TotalValue, 1e-6)
}

func (suite *EngineTestSuite) TestMoonshotStopLossTeachesModel() {
	suite.exchange.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	suite.journal.EXPECT().RecordTrade(gomock.Any()).Return(nil).Times(2)
	suite.journal.EXPECT().RecordModelState(gomock.Any()).DoAndReturn(func(state types.ModelState) error {
		suite.Equal(1, state.TradesLearned)
		return nil
	}).Times(1)

	sentiment := map[string]types.SentimentSnapshot{"PEPE": {Score: 0.15, SocialVolume: 1500}}

	// quiet chatter and no earlier sample keep the model below its buy threshold
	suite.step(map[string]types.Ticker{"PEPE": {Last: 0.0001, High: 0.00012, Low: 0.00008, Volume: 1e9}},
		map[string]types.SentimentSnapshot{"PEPE": {Score: 0.15, SocialVolume: 400}})
	suite.Require().NoError(suite.engine.RunStrategy(context.Background(), types.StrategyMoonshot))
	suite.Empty(suite.mustStatus(types.StrategyMoonshot).Positions)

	// +20% on triple volume saturates every feature
	suite.step(map[string]types.Ticker{"PEPE": {Last: 0.00012, High: 0.00013, Low: 0.00008, Volume: 3e9}}, sentiment)
	suite.Require().NoError(suite.engine.RunStrategy(context.Background(), types.StrategyMoonshot))

	status := suite.mustStatus(types.StrategyMoonshot)
	suite.Require().Len(status.Positions, 1)
	suite.Require().NotNil(status.Positions[0].EntryFeatures)
	suite.Equal(1500.0, status.Positions[0].EntryFeatures.SocialVolume)

	before := suite.engine.GetModelState()

	// -6% forces the defensive stop
	suite.step(map[string]types.Ticker{"PEPE": {Last: 0.0001128, High: 0.00013, Low: 0.00008, Volume: 3e9}}, sentiment)
	suite.Require().NoError(suite.engine.RunStrategy(context.Background(), types.StrategyMoonshot))

	status = suite.mustStatus(types.StrategyMoonshot)
	suite.Empty(status.Positions)
	suite.Require().NotNil(status.Model)
	suite.Equal(1, status.Model.TradesLearned)
	suite.Equal([]bool{false}, status.Model.Outcomes)
	suite.Less(status.Model.Confidence, before.Confidence)
	suite.InDelta(1.0, status.Model.Weights.AbsSum(), 1e-9)
	suite.Contains(status.RecentTrades[0].Reason, "defensive stop")
	suite.Less(status.RecentTrades[0].PnL, 0.0)
}

func (suite *EngineTestSuite) TestRejectedOrderIsSkipped() {
	suite.exchange.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).
		Return(errors.New(errors.ErrCodeOrderRejected, "rejected"))

	suite.step(map[string]types.Ticker{"SOL": {Last: 102, High: 110, Low: 90}},
		map[string]types.SentimentSnapshot{"SOL": {Score: 0.07}})

	suite.NoError(suite.engine.RunStrategy(context.Background(), types.StrategyCore))
	suite.Empty(suite.mustStatus(types.StrategyCore).Positions)
}

func (suite *EngineTestSuite) TestJournalFailureDoesNotBlockTrading() {
	suite.exchange.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).Return(nil)
	suite.journal.EXPECT().RecordTrade(gomock.Any()).Return(errors.New(errors.ErrCodeJournalWriteFailed, "disk full"))

	suite.step(map[string]types.Ticker{"SOL": {Last: 102, High: 110, Low: 90}},
		map[string]types.SentimentSnapshot{"SOL": {Score: 0.07}})

	suite.NoError(suite.engine.RunStrategy(context.Background(), types.StrategyCore))
	suite.Len(suite.mustStatus(types.StrategyCore).Positions, 1)
}

func (suite *EngineTestSuite) TestCancelledTickAppliesNothing() {
	suite.step(map[string]types.Ticker{"SOL": {Last: 102, High: 110, Low: 90}},
		map[string]types.SentimentSnapshot{"SOL": {Score: 0.07}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := suite.engine.RunStrategy(ctx, types.StrategyCore)
	suite.ErrorIs(err, context.Canceled)
	suite.Empty(suite.mustStatus(types.StrategyCore).Positions)
}

func (suite *EngineTestSuite) TestRefreshFailureKeepsSnapshots() {
	ctrl := gomock.NewController(suite.T())
	ex := mocks.NewMockExchange(ctrl)
	ex.EXPECT().Name().Return("flaky").AnyTimes()

	gomock.InOrder(
		ex.EXPECT().GetTicker(gomock.Any(), gomock.Any()).
			Return(map[string]types.Ticker{"SOL": {Last: 100, High: 110, Low: 90}}, nil),
		ex.EXPECT().GetTicker(gomock.Any(), gomock.Any()).
			Return(nil, stderrors.New("timeout")),
	)

	e, err := New(suite.cfg, Dependencies{Exchange: ex, Sentiment: suite.source}, Callbacks{})
	suite.Require().NoError(err)

	suite.NoError(e.RefreshData(context.Background()))

	err = e.RefreshData(context.Background())
	suite.True(errors.HasCode(err, errors.ErrCodeDataUnavailable))
	suite.Equal(100.0, e.GetMarketData()["SOL"].Price)
}

func (suite *EngineTestSuite) TestHaltedStrategyRefusesTicks() {
	var (
		haltedID types.StrategyID
		calls    int
	)

	onHalt := OnStrategyHaltedCallback(func(id types.StrategyID, err error) {
		haltedID = id
		calls++
	})

	e, err := New(suite.cfg, Dependencies{Exchange: suite.exchange, Sentiment: suite.source},
		Callbacks{OnStrategyHalted: &onHalt})
	suite.Require().NoError(err)

	r, err := e.runner(types.StrategyCore)
	suite.Require().NoError(err)

	violation := errors.New(errors.ErrCodeLedgerInvariantViolation, "reconciliation failed")
	e.halt(r, violation)
	e.halt(r, violation)

	err = e.RunStrategy(context.Background(), types.StrategyCore)
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyHalted))
	suite.Equal(types.StrategyCore, haltedID)
	suite.Equal(1, calls)

	status, err := e.GetStrategyStatus(types.StrategyCore)
	suite.Require().NoError(err)
	suite.True(status.Halted)
	suite.Contains(status.LastError, "reconciliation failed")

	// the other strategy keeps running
	suite.NoError(e.RunStrategy(context.Background(), types.StrategyMoonshot))
}

func (suite *EngineTestSuite) TestUnknownStrategy() {
	err := suite.engine.RunStrategy(context.Background(), "swing")
	suite.True(errors.HasCode(err, errors.ErrCodeUnknownStrategy))

	_, err = suite.engine.GetStrategyStatus("swing")
	suite.True(errors.HasCode(err, errors.ErrCodeUnknownStrategy))
}

func (suite *EngineTestSuite) TestEnginesAreIndependent() {
	suite.exchange.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).Return(nil)
	suite.journal.EXPECT().RecordTrade(gomock.Any()).Return(nil)

	other, err := New(suite.cfg, Dependencies{Exchange: suite.exchange, Sentiment: suite.source}, Callbacks{})
	suite.Require().NoError(err)

	suite.step(map[string]types.Ticker{"SOL": {Last: 102, High: 110, Low: 90}},
		map[string]types.SentimentSnapshot{"SOL": {Score: 0.07}})
	suite.Require().NoError(suite.engine.RunStrategy(context.Background(), types.StrategyCore))

	suite.Len(suite.mustStatus(types.StrategyCore).Positions, 1)

	status, err := other.GetStrategyStatus(types.StrategyCore)
	suite.Require().NoError(err)
	suite.Empty(status.Positions)
	suite.Empty(other.GetMarketData())
}

func (suite *EngineTestSuite) TestBalancesPassThrough() {
	suite.exchange.EXPECT().GetBalance(gomock.Any()).
		Return(map[string]types.Balance{"USDT": {Asset: "USDT", Free: 5}}, nil)

	balances, err := suite.engine.GetBalances(context.Background())
	suite.Require().NoError(err)
	suite.Equal(5.0, balances["USDT"].Total())
}

func (suite *EngineTestSuite) TestRunDrivesAllLoops() {
	cfg := config.Default()
	cfg.Exchange.Seed = 42
	cfg.Sentiment.Seed = 42
	cfg.Data.RefreshInterval = 5 * time.Millisecond
	cfg.Core.Interval = 5 * time.Millisecond
	cfg.Moonshot.Interval = 5 * time.Millisecond

	var (
		tradesMu sync.Mutex
		trades   []types.Trade
	)

	onTrade := OnTradeCallback(func(trade types.Trade) {
		tradesMu.Lock()
		defer tradesMu.Unlock()

		trades = append(trades, trade)
	})

	e, err := New(cfg, Dependencies{}, Callbacks{OnTrade: &onTrade})
	suite.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- e.Run(ctx)
	}()

	suite.Eventually(func() bool {
		core := suite.statusOf(e, types.StrategyCore)
		moonshot := suite.statusOf(e, types.StrategyMoonshot)

		return !core.LastTick.IsZero() && !moonshot.LastTick.IsZero() && len(e.GetMarketData()) == len(e.Symbols())
	}, 2*time.Second, 5*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		suite.NoError(err)
	case <-time.After(5 * time.Second):
		suite.Fail("engine did not stop")
	}

	for _, id := range e.Strategies() {
		status := suite.statusOf(e, id)
		suite.True(status.Metrics.Healthy)
		suite.False(status.Halted)
		suite.InDelta(status.Metrics.InitialBalance+status.Metrics.RealizedPnL+status.Metrics.UnrealizedPnL,
			status.Metrics.TotalValue, 1e-6)
	}

	tradesMu.Lock()
	defer tradesMu.Unlock()

	for _, trade := range trades {
		suite.True(trade.Strategy.Valid())
	}
}

func (suite *EngineTestSuite) mustStatus(id types.StrategyID) types.StrategyStatus {
	return suite.statusOf(suite.engine, id)
}

func (suite *EngineTestSuite) statusOf(e *Engine, id types.StrategyID) types.StrategyStatus {
	status, err := e.GetStrategyStatus(id)
	suite.Require().NoError(err)

	return status
}
