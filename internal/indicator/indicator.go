package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/primtrade/prim-trading/internal/types"
	"github.com/primtrade/prim-trading/pkg/errors"
)

// Line is one named output series of an indicator, aligned one-to-one with the
// input bars. Warm-up positions hold None; callers must treat them as "not yet
// available", never as zero.
type Line struct {
	Name   string
	Values []optional.Option[float64]
}

// Indicator computes one or more output lines from an ordered bar sequence.
// Implementations must be causal (no forward-looking values), deterministic
// and idempotent: recomputing over the same input yields identical output.
type Indicator interface {
	// Name returns the indicator type.
	Name() types.IndicatorType
	// MinBars returns the minimum number of input bars required for the
	// indicator to produce at least one defined value.
	MinBars() int
	// Compute calculates the output lines for the given bars. It fails with
	// an InsufficientDataError when len(bars) < MinBars; a series that is
	// long enough never fails, it just yields None for warm-up positions.
	Compute(bars []types.Bar) ([]Line, error)
}

// newLine allocates a line of n absent values.
func newLine(name string, n int) Line {
	values := make([]optional.Option[float64], n)
	for i := range values {
		values[i] = optional.None[float64]()
	}

	return Line{Name: name, Values: values}
}

// requireBars checks the minimum window requirement shared by all indicators.
func requireBars(indicator types.IndicatorType, bars []types.Bar, minBars int) error {
	if len(bars) < minBars {
		return errors.NewInsufficientDataErrorf(minBars, len(bars),
			"%s requires at least %d bars, got %d", indicator, minBars, len(bars))
	}

	return nil
}

// validatePeriod rejects non-positive lookback periods.
func validatePeriod(period int) error {
	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	return nil
}
