package indicator

import (
	"testing"

	"github.com/primtrade/prim-trading/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type MACDTestSuite struct {
	suite.Suite
}

func TestMACDSuite(t *testing.T) {
	suite.Run(t, new(MACDTestSuite))
}

func (suite *MACDTestSuite) TestLineNamesAndWarmup() {
	macd, err := NewMACD(3, 5, 2)
	suite.NoError(err)
	suite.Equal(6, macd.MinBars())

	bars := barsFromCloses(10, 11, 9, 12, 13, 12.5, 14, 13, 15, 16)
	lines, err := macd.Compute(bars)
	suite.NoError(err)
	suite.Len(lines, 3)
	suite.Equal("macd_3_5_2", lines[0].Name)
	suite.Equal("macd_signal_3_5_2", lines[1].Name)
	suite.Equal("macd_hist_3_5_2", lines[2].Name)

	// macd defined from slowPeriod-1, signal/hist from slow+signal-2
	suite.True(lines[0].Values[3].IsNone())
	suite.True(lines[0].Values[4].IsSome())
	suite.True(lines[1].Values[4].IsNone())
	suite.True(lines[1].Values[5].IsSome())
	suite.True(lines[2].Values[5].IsSome())
}

func (suite *MACDTestSuite) TestHistogramIsMacdMinusSignal() {
	macd, err := NewMACD(3, 5, 2)
	suite.NoError(err)

	bars := barsFromCloses(10, 11, 9, 12, 13, 12.5, 14, 13, 15, 16)
	lines, err := macd.Compute(bars)
	suite.NoError(err)

	for i := 5; i < len(bars); i++ {
		expected := lines[0].Values[i].Unwrap() - lines[1].Values[i].Unwrap()
		suite.InDelta(expected, lines[2].Values[i].Unwrap(), 1e-9)
	}
}

func (suite *MACDTestSuite) TestConstantSeriesHasZeroMacd() {
	macd, err := NewMACD(2, 4, 2)
	suite.NoError(err)

	lines, err := macd.Compute(barsFromCloses(5, 5, 5, 5, 5, 5, 5, 5))
	suite.NoError(err)

	for i := 4; i < 8; i++ {
		suite.InDelta(0.0, lines[0].Values[i].Unwrap(), 1e-9)
	}
}

func (suite *MACDTestSuite) TestFastMustBeSmallerThanSlow() {
	_, err := NewMACD(26, 12, 9)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))
}

func (suite *MACDTestSuite) TestInsufficientData() {
	macd, err := NewMACD(12, 26, 9)
	suite.NoError(err)

	_, err = macd.Compute(barsFromCloses(1, 2, 3, 4, 5))
	suite.True(errors.IsInsufficientDataError(err))
}
