package indicator

import (
	"testing"

	"github.com/primtrade/prim-trading/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RSITestSuite struct {
	suite.Suite
}

func TestRSISuite(t *testing.T) {
	suite.Run(t, new(RSITestSuite))
}

func (suite *RSITestSuite) TestBoundedBetween0And100() {
	rsi, err := NewRSI(5)
	suite.NoError(err)

	lines, err := rsi.Compute(barsFromCloses(10, 11, 9, 12, 13, 12.5, 14, 13, 15, 16))
	suite.NoError(err)

	for i, value := range lines[0].Values {
		if i < 5 {
			suite.True(value.IsNone())
			continue
		}

		v := value.Unwrap()
		suite.GreaterOrEqual(v, 0.0)
		suite.LessOrEqual(v, 100.0)
	}
}

func (suite *RSITestSuite) TestPerfectUptrendIs100() {
	rsi, err := NewRSI(3)
	suite.NoError(err)

	lines, err := rsi.Compute(barsFromCloses(1, 2, 3, 4, 5, 6))
	suite.NoError(err)

	for i := 3; i < 6; i++ {
		suite.InDelta(100.0, lines[0].Values[i].Unwrap(), 1e-9)
	}
}

func (suite *RSITestSuite) TestPerfectDowntrendIs0() {
	rsi, err := NewRSI(3)
	suite.NoError(err)

	lines, err := rsi.Compute(barsFromCloses(6, 5, 4, 3, 2, 1))
	suite.NoError(err)

	for i := 3; i < 6; i++ {
		suite.InDelta(0.0, lines[0].Values[i].Unwrap(), 1e-9)
	}
}

func (suite *RSITestSuite) TestInsufficientData() {
	rsi, err := NewRSI(14)
	suite.NoError(err)

	_, err = rsi.Compute(barsFromCloses(1, 2, 3, 4, 5))
	suite.True(errors.IsInsufficientDataError(err))
}
