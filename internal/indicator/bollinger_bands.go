package indicator

import (
	"fmt"
	"math"

	"github.com/moznion/go-optional"
	"github.com/primtrade/prim-trading/internal/types"
	"github.com/primtrade/prim-trading/pkg/errors"
)

// BollingerBands implements volatility bands around a simple moving average:
// middle = SMA(period), upper/lower = middle +/- stdDev multiples of the
// population standard deviation over the same window.
type BollingerBands struct {
	period int
	stdDev float64
}

// NewBollingerBands creates a new Bollinger Bands indicator.
func NewBollingerBands(period int, stdDev float64) (*BollingerBands, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	if stdDev <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "stdDev must be a positive number, got %f", stdDev)
	}

	return &BollingerBands{period: period, stdDev: stdDev}, nil
}

// Name returns the name of the indicator.
func (bb *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// MinBars returns the minimum required input length.
func (bb *BollingerBands) MinBars() int {
	return bb.period
}

// Compute calculates the upper, middle and lower band lines.
func (bb *BollingerBands) Compute(bars []types.Bar) ([]Line, error) {
	if err := requireBars(bb.Name(), bars, bb.MinBars()); err != nil {
		return nil, err
	}

	upper := newLine(fmt.Sprintf("bb_upper_%d", bb.period), len(bars))
	middle := newLine(fmt.Sprintf("bb_middle_%d", bb.period), len(bars))
	lower := newLine(fmt.Sprintf("bb_lower_%d", bb.period), len(bars))

	for i := bb.period - 1; i < len(bars); i++ {
		window := bars[i-bb.period+1 : i+1]

		mean := 0.0
		for _, bar := range window {
			mean += bar.Close
		}

		mean /= float64(bb.period)

		squaredDiffSum := 0.0
		for _, bar := range window {
			diff := bar.Close - mean
			squaredDiffSum += diff * diff
		}

		sigma := math.Sqrt(squaredDiffSum / float64(bb.period))

		middle.Values[i] = optional.Some(mean)
		upper.Values[i] = optional.Some(mean + bb.stdDev*sigma)
		lower.Values[i] = optional.Some(mean - bb.stdDev*sigma)
	}

	return []Line{upper, middle, lower}, nil
}
