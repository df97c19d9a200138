package types

import (
	"testing"
	"time"

	"github.com/primtrade/prim-trading/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type MarketTestSuite struct {
	suite.Suite
}

func TestMarketSuite(t *testing.T) {
	suite.Run(t, new(MarketTestSuite))
}

func testBar(t time.Time, close float64) Bar {
	return Bar{
		Time:   t,
		Open:   close,
		High:   close * 1.01,
		Low:    close * 0.99,
		Close:  close,
		Volume: 1000,
	}
}

func (suite *MarketTestSuite) TestBarValidate() {
	bar := testBar(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), 100)
	suite.NoError(bar.Validate())
}

func (suite *MarketTestSuite) TestBarValidateNegativePrice() {
	bar := testBar(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), 100)
	bar.Close = -1

	suite.Error(bar.Validate())
}

func (suite *MarketTestSuite) TestBarValidateHighBelowLow() {
	bar := testBar(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), 100)
	bar.High = 90
	bar.Low = 110

	suite.Error(bar.Validate())
}

func (suite *MarketTestSuite) TestSeriesValidateSorted() {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	series := Series{
		Timeframe: TimeframeH1,
		Bars: []Bar{
			testBar(start, 100),
			testBar(start.Add(time.Hour), 101),
			testBar(start.Add(2*time.Hour), 102),
		},
	}

	suite.NoError(series.Validate())
}

func (suite *MarketTestSuite) TestSeriesValidateDuplicateTimestamp() {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	series := Series{
		Timeframe: TimeframeH1,
		Bars: []Bar{
			testBar(start, 100),
			testBar(start, 101),
		},
	}

	err := series.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotSorted))
}

func (suite *MarketTestSuite) TestSeriesValidateOutOfOrder() {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	series := Series{
		Timeframe: TimeframeH1,
		Bars: []Bar{
			testBar(start.Add(time.Hour), 100),
			testBar(start, 101),
		},
	}

	err := series.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotSorted))
}

func (suite *MarketTestSuite) TestSeriesValidateUnknownTimeframe() {
	series := Series{
		Timeframe: Timeframe("X9"),
		Bars:      nil,
	}

	err := series.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidTimeframe))
}

func (suite *MarketTestSuite) TestTimeframeDuration() {
	duration, err := TimeframeH4.Duration()
	suite.NoError(err)
	suite.Equal(4*time.Hour, duration)
}

func (suite *MarketTestSuite) TestParseTimeframe() {
	tf, err := ParseTimeframe("D1")
	suite.NoError(err)
	suite.Equal(TimeframeD1, tf)

	_, err = ParseTimeframe("2H")
	suite.Error(err)
}

func (suite *MarketTestSuite) TestSeriesCloses() {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	series := Series{
		Timeframe: TimeframeH1,
		Bars: []Bar{
			testBar(start, 100),
			testBar(start.Add(time.Hour), 101),
		},
	}

	suite.Equal([]float64{100, 101}, series.Closes())
	suite.Equal(2, series.Len())
}
