package cost

import (
	"math"

	"github.com/primtrade/prim-trading/pkg/errors"
)

// Percent charges a fraction of the fill's notional value. Doubles as a crude
// slippage model for markets without per-unit commissions.
type Percent struct {
	rate float64
}

// NewPercent creates a Percent model.
func NewPercent(rate float64) (*Percent, error) {
	if rate < 0 || rate >= 1 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter,
			"percent cost model requires a rate in [0,1), got %.4f", rate)
	}

	return &Percent{rate: rate}, nil
}

// Calculate implements Model.
func (p *Percent) Calculate(quantity, price float64) float64 {
	return p.rate * math.Abs(quantity) * math.Abs(price)
}
