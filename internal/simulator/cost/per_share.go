package cost

import (
	"math"

	"github.com/primtrade/prim-trading/pkg/errors"
)

// PerShare charges a fixed rate per unit with a minimum fee per fill,
// the shape US equity brokers commonly use.
type PerShare struct {
	rate    float64
	minimum float64
}

// NewPerShare creates a PerShare model.
func NewPerShare(rate, minimum float64) (*PerShare, error) {
	if rate < 0 || minimum < 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter,
			"per-share cost model requires non-negative rate and minimum, got %.4f and %.4f", rate, minimum)
	}

	return &PerShare{rate: rate, minimum: minimum}, nil
}

// Calculate implements Model.
func (p *PerShare) Calculate(quantity, price float64) float64 {
	fee := p.rate * math.Abs(quantity)
	if fee < p.minimum {
		return p.minimum
	}

	return fee
}
