package indicator

import (
	"testing"
	"time"

	"github.com/primtrade/prim-trading/internal/types"
	"github.com/primtrade/prim-trading/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ATRTestSuite struct {
	suite.Suite
}

func TestATRSuite(t *testing.T) {
	suite.Run(t, new(ATRTestSuite))
}

func (suite *ATRTestSuite) TestTrueRangeUsesPreviousClose() {
	// Gap up: previous close 10, bar range [12,13]; TR = |13-10| = 3
	prev := types.Bar{Close: 10, High: 10.5, Low: 9.5}
	bar := types.Bar{Close: 12.5, High: 13, Low: 12}

	suite.InDelta(3.0, trueRange(bar, prev), 1e-9)
}

func (suite *ATRTestSuite) TestWarmupAndSmoothing() {
	atr, err := NewATR(3)
	suite.NoError(err)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.Bar, 6)

	for i := range bars {
		// Constant 2-point range, no gaps: TR is always 2
		close := 100.0
		bars[i] = types.Bar{
			Time:   start.Add(time.Duration(i) * time.Hour),
			Open:   close,
			High:   close + 1,
			Low:    close - 1,
			Close:  close,
			Volume: 1000,
		}
	}

	lines, err := atr.Compute(bars)
	suite.NoError(err)

	values := lines[0].Values
	suite.True(values[2].IsNone())

	for i := 3; i < 6; i++ {
		suite.InDelta(2.0, values[i].Unwrap(), 1e-9)
	}
}

func (suite *ATRTestSuite) TestInsufficientData() {
	atr, err := NewATR(14)
	suite.NoError(err)

	_, err = atr.Compute(barsFromCloses(1, 2, 3))
	suite.True(errors.IsInsufficientDataError(err))
}

type MomentumTestSuite struct {
	suite.Suite
}

func TestMomentumSuite(t *testing.T) {
	suite.Run(t, new(MomentumTestSuite))
}

func (suite *MomentumTestSuite) TestDifference() {
	momentum, err := NewMomentum(2)
	suite.NoError(err)

	lines, err := momentum.Compute(barsFromCloses(10, 11, 9, 12, 13))
	suite.NoError(err)
	suite.Equal("momentum_2", lines[0].Name)

	values := lines[0].Values
	suite.True(values[0].IsNone())
	suite.True(values[1].IsNone())
	suite.InDelta(-1.0, values[2].Unwrap(), 1e-9)
	suite.InDelta(1.0, values[3].Unwrap(), 1e-9)
	suite.InDelta(4.0, values[4].Unwrap(), 1e-9)
}
