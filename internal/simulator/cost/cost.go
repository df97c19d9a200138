// Package cost models transaction costs charged on fills. The simulator
// applies the selected model once at entry and once at exit.
package cost

import (
	"github.com/primtrade/prim-trading/pkg/errors"
)

// Model calculates the fee in account currency for one fill.
type Model interface {
	// Calculate the fee for a fill of the given quantity at the given price.
	Calculate(quantity, price float64) float64
}

// Kind selects a cost model.
type Kind string

const (
	KindZero     Kind = "zero"
	KindPerShare Kind = "per_share"
	KindPercent  Kind = "percent"
)

// Config selects and parameterizes a cost model.
type Config struct {
	Kind Kind `yaml:"kind" json:"kind"`
	// RatePerShare is the fee per unit for the per_share model.
	RatePerShare float64 `yaml:"rate_per_share,omitempty" json:"rate_per_share,omitempty"`
	// MinimumFee floors the per_share fee per fill.
	MinimumFee float64 `yaml:"minimum_fee,omitempty" json:"minimum_fee,omitempty"`
	// Rate is the fraction of notional charged by the percent model,
	// e.g. 0.001 for 10 basis points.
	Rate float64 `yaml:"rate,omitempty" json:"rate,omitempty"`
}

// FromConfig constructs the model a config selects. An empty kind means no
// modeled costs.
func FromConfig(config Config) (Model, error) {
	switch config.Kind {
	case KindZero, "":
		return NewZero(), nil
	case KindPerShare:
		return NewPerShare(config.RatePerShare, config.MinimumFee)
	case KindPercent:
		return NewPercent(config.Rate)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unknown cost model %q", config.Kind)
	}
}
