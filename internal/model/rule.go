package model

import (
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/primtrade/prim-trading/internal/types"
	"github.com/primtrade/prim-trading/pkg/errors"
)

// RuleConfig configures a RulePredictor. PriceFeature is the current price as
// a feature; an SMA with period 1 on the base timeframe serves exactly that.
type RuleConfig struct {
	RSIFeature   string  `yaml:"rsi_feature" json:"rsi_feature" validate:"required"`
	PriceFeature string  `yaml:"price_feature" json:"price_feature" validate:"required"`
	TrendFeature string  `yaml:"trend_feature" json:"trend_feature" validate:"required"`
	Oversold     float64 `yaml:"oversold" json:"oversold" validate:"gt=0,lt=100"`
	Overbought   float64 `yaml:"overbought" json:"overbought" validate:"gt=0,lt=100"`
}

// Validate checks the configuration.
func (c RuleConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid rule config", err)
	}

	if c.Oversold >= c.Overbought {
		return errors.Newf(errors.ErrCodeInvalidThreshold,
			"oversold threshold %.1f must be below overbought %.1f", c.Oversold, c.Overbought)
	}

	return nil
}

// RulePredictor is a mean-reversion rule filtered by trend: long when the
// oscillator is oversold with price above its trend average, short when
// overbought with price below it.
type RulePredictor struct {
	config RuleConfig
}

// NewRulePredictor creates a RulePredictor from its config.
func NewRulePredictor(config RuleConfig) (*RulePredictor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &RulePredictor{config: config}, nil
}

// Name implements Predictor.
func (p *RulePredictor) Name() string {
	return "rule"
}

// Predict implements Predictor.
func (p *RulePredictor) Predict(vector types.FeatureVector) (types.Signal, error) {
	rsi, err := requireFeature(p.Name(), vector, p.config.RSIFeature)
	if err != nil {
		return types.Signal{}, err
	}

	price, err := requireFeature(p.Name(), vector, p.config.PriceFeature)
	if err != nil {
		return types.Signal{}, err
	}

	trend, err := requireFeature(p.Name(), vector, p.config.TrendFeature)
	if err != nil {
		return types.Signal{}, err
	}

	// Strength grows with the oscillator's distance from its midpoint.
	strength := optional.Some(clamp01(math.Abs(rsi-50) / 50))

	switch {
	case rsi <= p.config.Oversold && price > trend:
		return types.Signal{Time: vector.Time, Direction: types.DirectionLong, Strength: strength}, nil
	case rsi >= p.config.Overbought && price < trend:
		return types.Signal{Time: vector.Time, Direction: types.DirectionShort, Strength: strength}, nil
	default:
		return types.FlatSignal(vector.Time), nil
	}
}
