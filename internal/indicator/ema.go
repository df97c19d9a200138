package indicator

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/primtrade/prim-trading/internal/types"
)

// EMA implements the Exponential Moving Average over close prices.
type EMA struct {
	period int
}

// NewEMA creates a new EMA indicator for the given period.
func NewEMA(period int) (*EMA, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	return &EMA{period: period}, nil
}

// Name returns the name of the indicator.
func (e *EMA) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

// MinBars returns the minimum required input length.
func (e *EMA) MinBars() int {
	return e.period
}

// Compute calculates the exponential moving average line. The value at
// position period-1 is seeded with the simple average of the first period
// closes; earlier positions are absent.
func (e *EMA) Compute(bars []types.Bar) ([]Line, error) {
	if err := requireBars(e.Name(), bars, e.MinBars()); err != nil {
		return nil, err
	}

	line := newLine(fmt.Sprintf("ema_%d", e.period), len(bars))
	multiplier := 2.0 / (float64(e.period) + 1.0)

	// Seed with the SMA of the first period closes.
	seed := 0.0
	for i := 0; i < e.period; i++ {
		seed += bars[i].Close
	}

	ema := seed / float64(e.period)
	line.Values[e.period-1] = optional.Some(ema)

	for i := e.period; i < len(bars); i++ {
		ema = (bars[i].Close-ema)*multiplier + ema
		line.Values[i] = optional.Some(ema)
	}

	return []Line{line}, nil
}
