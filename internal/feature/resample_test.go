package feature

import (
	"testing"
	"time"

	"github.com/primtrade/prim-trading/internal/types"
	"github.com/primtrade/prim-trading/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ResampleTestSuite struct {
	suite.Suite
}

func TestResampleSuite(t *testing.T) {
	suite.Run(t, new(ResampleTestSuite))
}

func hourlySeries(start time.Time, closes ...float64) types.Series {
	bars := make([]types.Bar, len(closes))

	for i, close := range closes {
		bars[i] = types.Bar{
			Time:   start.Add(time.Duration(i) * time.Hour),
			Open:   close,
			High:   close + 0.5,
			Low:    close - 0.5,
			Close:  close,
			Volume: 100,
		}
	}

	return types.Series{Timeframe: types.TimeframeH1, Bars: bars}
}

func (suite *ResampleTestSuite) TestAggregatesBuckets() {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	base := hourlySeries(start, 10, 12, 11, 14, 9, 13, 15, 16)

	resampled, err := Resample(base, types.TimeframeH4)
	suite.NoError(err)
	suite.Equal(types.TimeframeH4, resampled.Timeframe)
	suite.Len(resampled.Bars, 2)

	first := resampled.Bars[0]
	suite.Equal(start, first.Time)
	suite.InDelta(10.0, first.Open, 1e-9)
	suite.InDelta(14.5, first.High, 1e-9)
	suite.InDelta(9.5, first.Low, 1e-9)
	suite.InDelta(14.0, first.Close, 1e-9)
	suite.InDelta(400.0, first.Volume, 1e-9)

	second := resampled.Bars[1]
	suite.Equal(start.Add(4*time.Hour), second.Time)
	suite.InDelta(9.0, second.Open, 1e-9)
	suite.InDelta(16.0, second.Close, 1e-9)
}

func (suite *ResampleTestSuite) TestDropsTrailingPartialBucket() {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	base := hourlySeries(start, 10, 12, 11, 14, 9, 13)

	resampled, err := Resample(base, types.TimeframeH4)
	suite.NoError(err)
	suite.Len(resampled.Bars, 1)
	suite.Equal(start, resampled.Bars[0].Time)
}

func (suite *ResampleTestSuite) TestDropsLeadingPartialBucket() {
	// Series starts one hour into the 4h bucket: first bucket is incomplete.
	start := time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)
	base := hourlySeries(start, 10, 12, 11, 14, 9, 13, 15)

	resampled, err := Resample(base, types.TimeframeH4)
	suite.NoError(err)
	suite.Len(resampled.Bars, 1)
	suite.Equal(time.Date(2024, 3, 1, 4, 0, 0, 0, time.UTC), resampled.Bars[0].Time)
}

func (suite *ResampleTestSuite) TestRejectsNonMultipleTarget() {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	base := types.Series{Timeframe: types.TimeframeM30, Bars: hourlySeries(start, 1, 2).Bars}

	_, err := Resample(base, types.TimeframeM15)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeTimeframeMismatch))
}

func (suite *ResampleTestSuite) TestRejectsSameTimeframe() {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	base := hourlySeries(start, 1, 2, 3)

	_, err := Resample(base, types.TimeframeH1)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeTimeframeMismatch))
}
