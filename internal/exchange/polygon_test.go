package exchange

import (
	"context"
	"errors"
	"testing"

	"github.com/polygon-io/client-go/rest/models"
	argoerrors "github.com/rxtech-lab/argo-moonshot/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type mockPolygonClient struct {
	snapshots map[string]models.DaySnapshot
	err       error
	requested []string
}

func (m *mockPolygonClient) GetTickerSnapshot(ctx context.Context, params *models.GetTickerSnapshotParams, options ...models.RequestOption) (*models.GetTickerSnapshotResponse, error) {
	m.requested = append(m.requested, params.Ticker)

	if m.err != nil {
		return nil, m.err
	}

	day, ok := m.snapshots[params.Ticker]
	if !ok {
		return nil, errors.New("not found")
	}

	res := &models.GetTickerSnapshotResponse{}
	res.Snapshot.Day = day

	return res, nil
}

type PolygonTestSuite struct {
	suite.Suite
	client   *mockPolygonClient
	exchange *Polygon
}

func TestPolygonSuite(t *testing.T) {
	suite.Run(t, new(PolygonTestSuite))
}

func (suite *PolygonTestSuite) SetupTest() {
	suite.client = &mockPolygonClient{snapshots: map[string]models.DaySnapshot{}}
	suite.exchange = newPolygonWithClient(suite.client, "USD", "")
}

func (suite *PolygonTestSuite) TestGetTicker() {
	suite.client.snapshots["X:BTCUSD"] = models.DaySnapshot{Close: 50000, High: 51000, Low: 49000, Volume: 10}

	tickers, err := suite.exchange.GetTicker(context.Background(), []string{"BTC", "WIF"})
	suite.Require().NoError(err)
	suite.Equal([]string{"X:BTCUSD", "X:WIFUSD"}, suite.client.requested)
	suite.Len(tickers, 1)
	suite.Equal(50000.0, tickers["BTC"].Last)
	suite.Equal(49000.0, tickers["BTC"].Low)
}

func (suite *PolygonTestSuite) TestGetTickerAllFailed() {
	suite.client.err = errors.New("rate limited")

	_, err := suite.exchange.GetTicker(context.Background(), []string{"BTC"})
	suite.True(argoerrors.HasCode(err, argoerrors.ErrCodeExchangeRequestFailed))
}

func (suite *PolygonTestSuite) TestBalanceIsEmpty() {
	balances, err := suite.exchange.GetBalance(context.Background())
	suite.NoError(err)
	suite.Empty(balances)
}
