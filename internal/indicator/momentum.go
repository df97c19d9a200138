package indicator

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/primtrade/prim-trading/internal/types"
)

// Momentum implements the n-bar momentum difference: close[i] - close[i-n].
type Momentum struct {
	period int
}

// NewMomentum creates a new momentum indicator for the given lookback.
func NewMomentum(period int) (*Momentum, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	return &Momentum{period: period}, nil
}

// Name returns the name of the indicator.
func (m *Momentum) Name() types.IndicatorType {
	return types.IndicatorTypeMomentum
}

// MinBars returns the minimum required input length.
func (m *Momentum) MinBars() int {
	return m.period + 1
}

// Compute calculates the momentum line. The first period positions are absent.
func (m *Momentum) Compute(bars []types.Bar) ([]Line, error) {
	if err := requireBars(m.Name(), bars, m.MinBars()); err != nil {
		return nil, err
	}

	line := newLine(fmt.Sprintf("momentum_%d", m.period), len(bars))

	for i := m.period; i < len(bars); i++ {
		line.Values[i] = optional.Some(bars[i].Close - bars[i-m.period].Close)
	}

	return []Line{line}, nil
}
