package backtest

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/primtrade/prim-trading/internal/logger"
	"github.com/primtrade/prim-trading/internal/types"
	"github.com/primtrade/prim-trading/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type EngineV1TestSuite struct {
	suite.Suite

	log   *logger.Logger
	start time.Time
}

func TestEngineV1Suite(t *testing.T) {
	suite.Run(t, new(EngineV1TestSuite))
}

func (suite *EngineV1TestSuite) SetupTest() {
	suite.log = logger.NewNopLogger()
	suite.start = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
}

// waveSeries produces hourly bars oscillating slowly enough for moving-average
// crossovers to fire on both sides.
func (suite *EngineV1TestSuite) waveSeries(n int) types.Series {
	bars := make([]types.Bar, n)

	for i := range bars {
		close := 100 + 10*math.Sin(float64(i)/8)
		bars[i] = types.Bar{
			Time:   suite.start.Add(time.Duration(i) * time.Hour),
			Open:   close - 0.2,
			High:   close + 0.5,
			Low:    close - 0.5,
			Close:  close,
			Volume: 1000,
		}
	}

	return types.Series{Timeframe: types.TimeframeH1, Bars: bars}
}

const testConfigYAML = `
symbol: TEST
base_timeframe: H1
initial_capital: 10000
position_size: 10
entry_threshold: 0
bars_per_year: 6048
features:
  specs:
    - timeframe: H1
      indicator:
        type: sma
        period: 3
    - timeframe: H1
      indicator:
        type: sma
        period: 8
predictor:
  type: crossover
  crossover:
    fast_feature: h1_sma_3
    slow_feature: h1_sma_8
`

func (suite *EngineV1TestSuite) initialized() Engine {
	engine := NewEngineV1(suite.log)
	suite.Require().NoError(engine.Initialize(testConfigYAML))

	return engine
}

func (suite *EngineV1TestSuite) TestRunRequiresInitialization() {
	engine := NewEngineV1(suite.log)

	err := engine.Run(context.Background(), LifecycleCallbacks{})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestInitFailed))
}

func (suite *EngineV1TestSuite) TestRunRequiresData() {
	engine := suite.initialized()

	err := engine.Run(context.Background(), LifecycleCallbacks{})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestNoData))
}

func (suite *EngineV1TestSuite) TestInitializeRejectsInvalidConfig() {
	engine := NewEngineV1(suite.log)

	err := engine.Initialize("symbol: TEST\n")
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *EngineV1TestSuite) TestFullRun() {
	engine := suite.initialized()
	series := suite.waveSeries(80)
	suite.Require().NoError(engine.SetData(series))

	var (
		startedRunID string
		totalSeen    int
		progressHits int
		endedRunID   string
	)

	onStart := OnRunStartCallback(func(runID string, totalBars int) error {
		startedRunID = runID
		totalSeen = totalBars

		return nil
	})
	onProcess := OnProcessDataCallback(func(current, total int) error {
		progressHits++

		return nil
	})
	onEnd := OnRunEndCallback(func(result *Result) {
		endedRunID = result.RunID
	})

	err := engine.Run(context.Background(), LifecycleCallbacks{
		OnRunStart:    &onStart,
		OnProcessData: &onProcess,
		OnRunEnd:      &onEnd,
	})
	suite.NoError(err)

	result, err := engine.Result()
	suite.NoError(err)
	suite.Equal(startedRunID, result.RunID)
	suite.Equal(endedRunID, result.RunID)
	suite.Equal(80, totalSeen)
	suite.Equal(80, progressHits)

	suite.Len(result.EquityCurve, 80)
	suite.NotEmpty(result.Trades)
	suite.Equal(len(result.Trades), result.Report.NumberOfTrades)
	suite.Equal("TEST", result.Report.Symbol)

	// The run ends flat, so the last equity point carries all realized P&L.
	total := 0.0
	for _, trade := range result.Trades {
		total += trade.PnL
	}

	last := result.EquityCurve[len(result.EquityCurve)-1]
	suite.InDelta(10000+total, last.Equity, 1e-6)
}

func (suite *EngineV1TestSuite) TestDeterminism() {
	series := suite.waveSeries(80)

	run := func() *Result {
		engine := suite.initialized()
		suite.Require().NoError(engine.SetData(series))
		suite.Require().NoError(engine.Run(context.Background(), LifecycleCallbacks{}))

		result, err := engine.Result()
		suite.Require().NoError(err)

		return result
	}

	first := run()
	second := run()

	suite.Equal(first.EquityCurve, second.EquityCurve)
	suite.Require().Equal(len(first.Trades), len(second.Trades))

	for i := range first.Trades {
		a, b := first.Trades[i], second.Trades[i]
		suite.Equal(a.Direction, b.Direction)
		suite.True(a.EntryTime.Equal(b.EntryTime))
		suite.Equal(a.EntryPrice, b.EntryPrice)
		suite.Equal(a.ExitPrice, b.ExitPrice)
		suite.Equal(a.ExitReason, b.ExitReason)
		suite.Equal(a.PnL, b.PnL)
	}

	suite.Equal(first.Report.TotalPnL, second.Report.TotalPnL)
	suite.Equal(first.Report.MaxDrawdown, second.Report.MaxDrawdown)
	suite.Equal(first.Report.SharpeRatio, second.Report.SharpeRatio)
}

func (suite *EngineV1TestSuite) TestCancelledContext() {
	engine := suite.initialized()
	suite.Require().NoError(engine.SetData(suite.waveSeries(40)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := engine.Run(ctx, LifecycleCallbacks{})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestCancelled))
}

func (suite *EngineV1TestSuite) TestTimeWindowClipsRun() {
	content := testConfigYAML +
		"start_time: " + suite.start.Add(20*time.Hour).Format(time.RFC3339) + "\n" +
		"end_time: " + suite.start.Add(60*time.Hour).Format(time.RFC3339) + "\n"

	engine := NewEngineV1(suite.log)
	suite.Require().NoError(engine.Initialize(content))
	suite.Require().NoError(engine.SetData(suite.waveSeries(80)))
	suite.Require().NoError(engine.Run(context.Background(), LifecycleCallbacks{}))

	result, err := engine.Result()
	suite.NoError(err)
	suite.Len(result.EquityCurve, 40)
	suite.Equal(suite.start.Add(20*time.Hour), result.EquityCurve[0].Time)
}

func (suite *EngineV1TestSuite) TestResultBeforeRun() {
	engine := suite.initialized()

	_, err := engine.Result()
	suite.Error(err)
}

func (suite *EngineV1TestSuite) TestGetConfigSchema() {
	engine := NewEngineV1(suite.log)

	schema, err := engine.GetConfigSchema()
	suite.NoError(err)
	suite.Contains(schema, "backtest-config")
}
