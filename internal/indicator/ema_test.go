package indicator

import (
	"testing"

	"github.com/primtrade/prim-trading/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type EMATestSuite struct {
	suite.Suite
}

func TestEMASuite(t *testing.T) {
	suite.Run(t, new(EMATestSuite))
}

func (suite *EMATestSuite) TestSeededWithSMA() {
	ema, err := NewEMA(3)
	suite.NoError(err)

	lines, err := ema.Compute(barsFromCloses(2, 4, 6, 8))
	suite.NoError(err)
	suite.Equal("ema_3", lines[0].Name)

	values := lines[0].Values
	suite.True(values[0].IsNone())
	suite.True(values[1].IsNone())
	// Seed: (2+4+6)/3 = 4
	suite.InDelta(4.0, values[2].Unwrap(), 1e-9)
	// Multiplier 2/(3+1) = 0.5: (8-4)*0.5 + 4 = 6
	suite.InDelta(6.0, values[3].Unwrap(), 1e-9)
}

func (suite *EMATestSuite) TestConstantSeriesStaysConstant() {
	ema, err := NewEMA(5)
	suite.NoError(err)

	lines, err := ema.Compute(barsFromCloses(7, 7, 7, 7, 7, 7, 7, 7))
	suite.NoError(err)

	for i := 4; i < 8; i++ {
		suite.InDelta(7.0, lines[0].Values[i].Unwrap(), 1e-9)
	}
}

func (suite *EMATestSuite) TestInsufficientData() {
	ema, err := NewEMA(10)
	suite.NoError(err)

	_, err = ema.Compute(barsFromCloses(1, 2))
	suite.True(errors.IsInsufficientDataError(err))
}
