package indicator

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/primtrade/prim-trading/internal/types"
	"github.com/primtrade/prim-trading/pkg/errors"
)

// MACD implements the Moving Average Convergence Divergence momentum
// difference: macd = EMA(fast) - EMA(slow), signal = EMA(macd, signalPeriod),
// histogram = macd - signal.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a new MACD indicator.
func NewMACD(fastPeriod, slowPeriod, signalPeriod int) (*MACD, error) {
	for _, period := range []int{fastPeriod, slowPeriod, signalPeriod} {
		if err := validatePeriod(period); err != nil {
			return nil, err
		}
	}

	if fastPeriod >= slowPeriod {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod,
			"fast period %d must be smaller than slow period %d", fastPeriod, slowPeriod)
	}

	return &MACD{
		fastPeriod:   fastPeriod,
		slowPeriod:   slowPeriod,
		signalPeriod: signalPeriod,
	}, nil
}

// Name returns the name of the indicator.
func (m *MACD) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// MinBars returns the minimum required input length: enough for the slow EMA
// plus the signal EMA seeded on top of it.
func (m *MACD) MinBars() int {
	return m.slowPeriod + m.signalPeriod - 1
}

// Compute calculates the macd, signal and histogram lines.
func (m *MACD) Compute(bars []types.Bar) ([]Line, error) {
	if err := requireBars(m.Name(), bars, m.MinBars()); err != nil {
		return nil, err
	}

	suffix := fmt.Sprintf("%d_%d_%d", m.fastPeriod, m.slowPeriod, m.signalPeriod)
	macdLine := newLine("macd_"+suffix, len(bars))
	signalLine := newLine("macd_signal_"+suffix, len(bars))
	histLine := newLine("macd_hist_"+suffix, len(bars))

	fastEMA := emaSeries(bars, m.fastPeriod)
	slowEMA := emaSeries(bars, m.slowPeriod)

	// macd is defined wherever both EMAs are, i.e. from slowPeriod-1 on.
	for i := m.slowPeriod - 1; i < len(bars); i++ {
		macdLine.Values[i] = optional.Some(fastEMA[i] - slowEMA[i])
	}

	// Signal line: EMA of the macd values, seeded with the simple average of
	// the first signalPeriod defined macd values.
	signalStart := m.slowPeriod - 1 + m.signalPeriod - 1
	multiplier := 2.0 / (float64(m.signalPeriod) + 1.0)

	seed := 0.0
	for i := m.slowPeriod - 1; i <= signalStart; i++ {
		seed += macdLine.Values[i].Unwrap()
	}

	signal := seed / float64(m.signalPeriod)
	signalLine.Values[signalStart] = optional.Some(signal)
	histLine.Values[signalStart] = optional.Some(macdLine.Values[signalStart].Unwrap() - signal)

	for i := signalStart + 1; i < len(bars); i++ {
		macd := macdLine.Values[i].Unwrap()
		signal = (macd-signal)*multiplier + signal
		signalLine.Values[i] = optional.Some(signal)
		histLine.Values[i] = optional.Some(macd - signal)
	}

	return []Line{macdLine, signalLine, histLine}, nil
}

// emaSeries computes a dense EMA over closes. Positions before period-1 hold
// the running seed and must not be read by callers.
func emaSeries(bars []types.Bar, period int) []float64 {
	values := make([]float64, len(bars))
	multiplier := 2.0 / (float64(period) + 1.0)

	seed := 0.0
	for i := 0; i < period; i++ {
		seed += bars[i].Close
	}

	ema := seed / float64(period)
	values[period-1] = ema

	for i := period; i < len(bars); i++ {
		ema = (bars[i].Close-ema)*multiplier + ema
		values[i] = ema
	}

	return values
}
