package model

import (
	"math"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/primtrade/prim-trading/internal/types"
	"github.com/primtrade/prim-trading/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LinearConfig holds an externally fitted linear model: per-feature weights
// plus a bias, squashed through a sigmoid into a probability of an upward
// move. Fitting happens outside this module; only the fitted weights are
// consumed here.
type LinearConfig struct {
	Weights map[string]float64 `yaml:"weights" json:"weights" validate:"required,min=1"`
	Bias    float64            `yaml:"bias" json:"bias"`
	// LongThreshold and ShortThreshold bound the flat band: probability at or
	// above LongThreshold goes long, at or below ShortThreshold goes short.
	LongThreshold  float64 `yaml:"long_threshold" json:"long_threshold" validate:"gt=0,lt=1"`
	ShortThreshold float64 `yaml:"short_threshold" json:"short_threshold" validate:"gt=0,lt=1"`
}

// Validate checks the configuration.
func (c LinearConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid linear model config", err)
	}

	if c.ShortThreshold >= c.LongThreshold {
		return errors.Newf(errors.ErrCodeInvalidThreshold,
			"short threshold %.3f must be below long threshold %.3f",
			c.ShortThreshold, c.LongThreshold)
	}

	return nil
}

// LinearPredictor scores a vector with fitted weights and maps the score to a
// direction through sigmoid probability thresholds.
type LinearPredictor struct {
	config LinearConfig
}

// NewLinearPredictor creates a LinearPredictor from fitted weights.
func NewLinearPredictor(config LinearConfig) (*LinearPredictor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &LinearPredictor{config: config}, nil
}

// LoadLinearPredictor reads fitted weights from a YAML file.
func LoadLinearPredictor(path string) (*LinearPredictor, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeModelNotLoaded, err, "cannot read model file %s", path)
	}

	var config LinearConfig
	if err := yaml.Unmarshal(content, &config); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeModelNotLoaded, err, "cannot parse model file %s", path)
	}

	return NewLinearPredictor(config)
}

// Name implements Predictor.
func (p *LinearPredictor) Name() string {
	return "linear"
}

// Predict implements Predictor.
func (p *LinearPredictor) Predict(vector types.FeatureVector) (types.Signal, error) {
	score := p.config.Bias

	// Every weighted feature is required. Iterate weights in sorted feature
	// order so floating-point summation is reproducible.
	for _, name := range sortedKeys(p.config.Weights) {
		value, err := requireFeature(p.Name(), vector, name)
		if err != nil {
			return types.Signal{}, err
		}

		score += p.config.Weights[name] * value
	}

	probability := sigmoid(score)

	switch {
	case probability >= p.config.LongThreshold:
		return types.Signal{
			Time:      vector.Time,
			Direction: types.DirectionLong,
			Strength:  optional.Some(clamp01(probability)),
		}, nil
	case probability <= p.config.ShortThreshold:
		return types.Signal{
			Time:      vector.Time,
			Direction: types.DirectionShort,
			Strength:  optional.Some(clamp01(1 - probability)),
		}, nil
	default:
		return types.FlatSignal(vector.Time), nil
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
