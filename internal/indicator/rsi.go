package indicator

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/primtrade/prim-trading/internal/types"
)

// RSI implements the Relative Strength Index, a bounded 0-100 oscillator,
// using Wilder's smoothing method.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator for the given period.
func NewRSI(period int) (*RSI, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	return &RSI{period: period}, nil
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// MinBars returns the minimum required input length. RSI needs one extra bar
// to form the first price change.
func (r *RSI) MinBars() int {
	return r.period + 1
}

// Compute calculates the RSI line. The first defined value is at position
// period (the first period price changes form the initial averages); later
// positions use Wilder's smoothing.
func (r *RSI) Compute(bars []types.Bar) ([]Line, error) {
	if err := requireBars(r.Name(), bars, r.MinBars()); err != nil {
		return nil, err
	}

	line := newLine(fmt.Sprintf("rsi_%d", r.period), len(bars))

	avgGain := 0.0
	avgLoss := 0.0

	for i := 1; i < len(bars); i++ {
		change := bars[i].Close - bars[i-1].Close

		gain := 0.0
		loss := 0.0

		if change > 0 {
			gain = change
		} else {
			loss = -change
		}

		if i <= r.period {
			// Accumulate the initial simple averages.
			avgGain += gain / float64(r.period)
			avgLoss += loss / float64(r.period)
		} else {
			avgGain = (avgGain*float64(r.period-1) + gain) / float64(r.period)
			avgLoss = (avgLoss*float64(r.period-1) + loss) / float64(r.period)
		}

		if i >= r.period {
			if avgLoss == 0 {
				// Perfect uptrend
				line.Values[i] = optional.Some(100.0)
				continue
			}

			rs := avgGain / avgLoss
			line.Values[i] = optional.Some(100.0 - (100.0 / (1.0 + rs)))
		}
	}

	return []Line{line}, nil
}
