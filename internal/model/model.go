// Package model defines the signal model contract and the built-in
// predictors. A predictor is polymorphic over how it was produced; the
// simulator only ever sees the Predict contract.
package model

import (
	"fmt"

	"github.com/primtrade/prim-trading/internal/types"
	"github.com/primtrade/prim-trading/pkg/errors"
)

// Predictor maps one feature vector to one trading signal.
//
// Implementations must be deterministic given fixed internal state: the same
// vector always yields the same signal. A flat signal means "no position" or
// "hold without action", never an error state.
type Predictor interface {
	// Name identifies the predictor in logs and reports.
	Name() string
	// Predict produces a signal for the vector's bar. A missing required
	// feature is a prediction failure, not a silent flat.
	Predict(vector types.FeatureVector) (types.Signal, error)
}

// requireFeature extracts a named feature, failing the prediction when it is
// absent. Degrading to flat on a missing feature would misrepresent
// performance, so absence is always an error at this layer.
func requireFeature(model string, vector types.FeatureVector, name string) (float64, error) {
	value, ok := vector.Get(name)
	if !ok {
		return 0, errors.NewModelPredictionError(model,
			fmt.Sprintf("feature %q missing from vector at %s", name, vector.Time), nil)
	}

	return value, nil
}

// clamp01 bounds a strength value to [0,1].
func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
