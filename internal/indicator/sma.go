package indicator

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/primtrade/prim-trading/internal/types"
)

// SMA implements the Simple Moving Average over close prices.
type SMA struct {
	period int
}

// NewSMA creates a new SMA indicator for the given period.
func NewSMA(period int) (*SMA, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	return &SMA{period: period}, nil
}

// Name returns the name of the indicator.
func (s *SMA) Name() types.IndicatorType {
	return types.IndicatorTypeSMA
}

// MinBars returns the minimum required input length.
func (s *SMA) MinBars() int {
	return s.period
}

// Compute calculates the moving average line. The first period-1 positions
// are absent.
func (s *SMA) Compute(bars []types.Bar) ([]Line, error) {
	if err := requireBars(s.Name(), bars, s.MinBars()); err != nil {
		return nil, err
	}

	line := newLine(fmt.Sprintf("sma_%d", s.period), len(bars))

	// Rolling sum keeps the computation linear in the number of bars.
	sum := 0.0

	for i, bar := range bars {
		sum += bar.Close
		if i >= s.period {
			sum -= bars[i-s.period].Close
		}

		if i >= s.period-1 {
			line.Values[i] = optional.Some(sum / float64(s.period))
		}
	}

	return []Line{line}, nil
}
