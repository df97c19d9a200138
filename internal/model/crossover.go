package model

import (
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/primtrade/prim-trading/internal/types"
	"github.com/primtrade/prim-trading/pkg/errors"
)

// CrossoverConfig names the two moving-average features a CrossoverPredictor
// compares, e.g. "h1_sma_10" against "h1_sma_50".
type CrossoverConfig struct {
	FastFeature string `yaml:"fast_feature" json:"fast_feature" validate:"required"`
	SlowFeature string `yaml:"slow_feature" json:"slow_feature" validate:"required"`
}

// Validate checks the configuration.
func (c CrossoverConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid crossover config", err)
	}

	if c.FastFeature == c.SlowFeature {
		return errors.Newf(errors.ErrCodeInvalidConfiguration,
			"fast and slow feature are both %q", c.FastFeature)
	}

	return nil
}

// CrossoverPredictor goes long while the fast average is above the slow one
// and short while it is below. Strength scales with the relative separation of
// the two averages.
type CrossoverPredictor struct {
	config CrossoverConfig
}

// NewCrossoverPredictor creates a CrossoverPredictor from its config.
func NewCrossoverPredictor(config CrossoverConfig) (*CrossoverPredictor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &CrossoverPredictor{config: config}, nil
}

// Name implements Predictor.
func (p *CrossoverPredictor) Name() string {
	return "crossover"
}

// Predict implements Predictor.
func (p *CrossoverPredictor) Predict(vector types.FeatureVector) (types.Signal, error) {
	fast, err := requireFeature(p.Name(), vector, p.config.FastFeature)
	if err != nil {
		return types.Signal{}, err
	}

	slow, err := requireFeature(p.Name(), vector, p.config.SlowFeature)
	if err != nil {
		return types.Signal{}, err
	}

	if fast == slow {
		return types.FlatSignal(vector.Time), nil
	}

	direction := types.DirectionLong
	if fast < slow {
		direction = types.DirectionShort
	}

	// Separation of one percent of the slow average maps to full strength.
	strength := 1.0
	if slow != 0 {
		strength = clamp01(math.Abs(fast-slow) / math.Abs(slow) * 100)
	}

	return types.Signal{
		Time:      vector.Time,
		Direction: direction,
		Strength:  optional.Some(strength),
	}, nil
}
