package indicator

import (
	"sync"

	"github.com/primtrade/prim-trading/internal/types"
	"github.com/primtrade/prim-trading/pkg/errors"
)

// Spec is a declarative indicator description, typically unmarshalled from a
// run configuration file.
type Spec struct {
	Type types.IndicatorType `yaml:"type" json:"type" validate:"required"`
	// Period is the lookback window for single-period indicators.
	Period int `yaml:"period" json:"period"`
	// FastPeriod, SlowPeriod and SignalPeriod configure MACD.
	FastPeriod   int `yaml:"fast_period" json:"fast_period"`
	SlowPeriod   int `yaml:"slow_period" json:"slow_period"`
	SignalPeriod int `yaml:"signal_period" json:"signal_period"`
	// StdDev is the band width multiplier for Bollinger Bands.
	StdDev float64 `yaml:"std_dev" json:"std_dev"`
}

// FromSpec constructs an indicator from its declarative description.
func FromSpec(spec Spec) (Indicator, error) {
	switch spec.Type {
	case types.IndicatorTypeSMA:
		return NewSMA(spec.Period)
	case types.IndicatorTypeEMA:
		return NewEMA(spec.Period)
	case types.IndicatorTypeRSI:
		return NewRSI(spec.Period)
	case types.IndicatorTypeBollingerBands:
		return NewBollingerBands(spec.Period, spec.StdDev)
	case types.IndicatorTypeMACD:
		return NewMACD(spec.FastPeriod, spec.SlowPeriod, spec.SignalPeriod)
	case types.IndicatorTypeATR:
		return NewATR(spec.Period)
	case types.IndicatorTypeMomentum:
		return NewMomentum(spec.Period)
	default:
		return nil, errors.Newf(errors.ErrCodeIndicatorNotFound, "unknown indicator type: %s", spec.Type)
	}
}

// Registry manages a set of constructed indicators keyed by type.
type Registry struct {
	indicators map[types.IndicatorType]Indicator
	mu         sync.RWMutex
}

// NewRegistry creates an empty indicator registry.
func NewRegistry() *Registry {
	return &Registry{
		indicators: make(map[types.IndicatorType]Indicator),
		mu:         sync.RWMutex{},
	}
}

// Register adds an indicator. Registering the same type twice is an error.
func (r *Registry) Register(indicator Indicator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.indicators[indicator.Name()]; exists {
		return errors.Newf(errors.ErrCodeIndicatorAlreadyExists, "indicator %s already registered", indicator.Name())
	}

	r.indicators[indicator.Name()] = indicator

	return nil
}

// Get returns the indicator registered under the given type.
func (r *Registry) Get(name types.IndicatorType) (Indicator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indicator, exists := r.indicators[name]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator %s not registered", name)
	}

	return indicator, nil
}

// List returns the registered indicator types.
func (r *Registry) List() []types.IndicatorType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]types.IndicatorType, 0, len(r.indicators))
	for name := range r.indicators {
		names = append(names, name)
	}

	return names
}
