package model

import (
	"github.com/primtrade/prim-trading/pkg/errors"
)

// Type selects a built-in predictor.
type Type string

const (
	TypeCrossover Type = "crossover"
	TypeRule      Type = "rule"
	TypeLinear    Type = "linear"
)

// Config selects and configures one predictor. Exactly the section matching
// Type must be present.
type Config struct {
	Type      Type             `yaml:"type" json:"type" validate:"required"`
	Crossover *CrossoverConfig `yaml:"crossover,omitempty" json:"crossover,omitempty"`
	Rule      *RuleConfig      `yaml:"rule,omitempty" json:"rule,omitempty"`
	Linear    *LinearConfig    `yaml:"linear,omitempty" json:"linear,omitempty"`
	// LinearPath loads fitted linear weights from a YAML file instead of an
	// inline Linear section.
	LinearPath string `yaml:"linear_path,omitempty" json:"linear_path,omitempty"`
}

// FromConfig constructs the predictor a config selects.
func FromConfig(config Config) (Predictor, error) {
	switch config.Type {
	case TypeCrossover:
		if config.Crossover == nil {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration, "crossover predictor selected but crossover section missing")
		}

		return NewCrossoverPredictor(*config.Crossover)
	case TypeRule:
		if config.Rule == nil {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration, "rule predictor selected but rule section missing")
		}

		return NewRulePredictor(*config.Rule)
	case TypeLinear:
		if config.LinearPath != "" {
			return LoadLinearPredictor(config.LinearPath)
		}

		if config.Linear == nil {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration, "linear predictor selected but linear section missing")
		}

		return NewLinearPredictor(*config.Linear)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unknown predictor type %q", config.Type)
	}
}
