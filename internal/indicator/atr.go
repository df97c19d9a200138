package indicator

import (
	"fmt"
	"math"

	"github.com/moznion/go-optional"
	"github.com/primtrade/prim-trading/internal/types"
)

// ATR implements the Average True Range volatility indicator with Wilder's
// smoothing.
type ATR struct {
	period int
}

// NewATR creates a new ATR indicator for the given period.
func NewATR(period int) (*ATR, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	return &ATR{period: period}, nil
}

// Name returns the name of the indicator.
func (a *ATR) Name() types.IndicatorType {
	return types.IndicatorTypeATR
}

// MinBars returns the minimum required input length. The true range needs the
// previous close, so one extra bar is required.
func (a *ATR) MinBars() int {
	return a.period + 1
}

// Compute calculates the ATR line. The first defined value is at position
// period, seeded with the simple average of the first period true ranges.
func (a *ATR) Compute(bars []types.Bar) ([]Line, error) {
	if err := requireBars(a.Name(), bars, a.MinBars()); err != nil {
		return nil, err
	}

	line := newLine(fmt.Sprintf("atr_%d", a.period), len(bars))

	atr := 0.0

	for i := 1; i < len(bars); i++ {
		tr := trueRange(bars[i], bars[i-1])

		if i <= a.period {
			atr += tr / float64(a.period)
		} else {
			atr = (atr*float64(a.period-1) + tr) / float64(a.period)
		}

		if i >= a.period {
			line.Values[i] = optional.Some(atr)
		}
	}

	return []Line{line}, nil
}

// trueRange is the greatest of high-low, |high-prevClose| and |low-prevClose|.
func trueRange(bar, prev types.Bar) float64 {
	highLow := bar.High - bar.Low
	highClose := math.Abs(bar.High - prev.Close)
	lowClose := math.Abs(bar.Low - prev.Close)

	return math.Max(highLow, math.Max(highClose, lowClose))
}
