package indicator

import (
	"testing"

	"github.com/primtrade/prim-trading/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SMATestSuite struct {
	suite.Suite
}

func TestSMASuite(t *testing.T) {
	suite.Run(t, new(SMATestSuite))
}

func (suite *SMATestSuite) TestWarmupThenDefined() {
	sma, err := NewSMA(3)
	suite.NoError(err)

	lines, err := sma.Compute(barsFromCloses(1, 2, 3, 4, 5))
	suite.NoError(err)
	suite.Len(lines, 1)
	suite.Equal("sma_3", lines[0].Name)

	values := lines[0].Values
	suite.True(values[0].IsNone())
	suite.True(values[1].IsNone())
	suite.InDelta(2.0, values[2].Unwrap(), 1e-9)
	suite.InDelta(3.0, values[3].Unwrap(), 1e-9)
	suite.InDelta(4.0, values[4].Unwrap(), 1e-9)
}

func (suite *SMATestSuite) TestExactMinimumLength() {
	sma, err := NewSMA(4)
	suite.NoError(err)

	lines, err := sma.Compute(barsFromCloses(2, 4, 6, 8))
	suite.NoError(err)

	values := lines[0].Values
	suite.True(values[2].IsNone())
	suite.InDelta(5.0, values[3].Unwrap(), 1e-9)
}

func (suite *SMATestSuite) TestInsufficientData() {
	sma, err := NewSMA(10)
	suite.NoError(err)

	_, err = sma.Compute(barsFromCloses(1, 2, 3))
	suite.Error(err)
	suite.True(errors.IsInsufficientDataError(err))

	var insufficientErr *errors.InsufficientDataError
	suite.True(errors.As(err, &insufficientErr))
	suite.Equal(10, insufficientErr.Required)
	suite.Equal(3, insufficientErr.Actual)
}

func (suite *SMATestSuite) TestInvalidPeriod() {
	_, err := NewSMA(0)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))

	_, err = NewSMA(-5)
	suite.Error(err)
}
