// Package feature assembles per-bar feature vectors from indicator outputs
// across one or more timeframes.
//
// The multi-timeframe alignment rule is the correctness-critical piece: for a
// base bar, a higher-timeframe value is usable only if its bar closed at or
// before the base bar's close. Anything later would leak future data into the
// vector.
package feature

import (
	"fmt"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/primtrade/prim-trading/internal/indicator"
	"github.com/primtrade/prim-trading/internal/types"
	"github.com/primtrade/prim-trading/pkg/errors"
)

// Spec declares one indicator computed on one timeframe.
type Spec struct {
	Timeframe types.Timeframe `yaml:"timeframe" json:"timeframe" validate:"required"`
	Indicator indicator.Spec  `yaml:"indicator" json:"indicator" validate:"required"`
}

// Config configures a Builder.
type Config struct {
	// Specs lists the indicators contributing features.
	Specs []Spec `yaml:"specs" json:"specs" validate:"required,min=1"`
	// AllowPartial keeps rows with absent features instead of excluding them.
	// Off by default: absent values are "not yet available", not zero.
	AllowPartial bool `yaml:"allow_partial" json:"allow_partial"`
}

// Builder is a pure transformation from bar series to feature vectors:
// identical input series always yield identical output vectors.
type Builder struct {
	config     Config
	indicators []indicator.Indicator
}

// NewBuilder creates a Builder, constructing every declared indicator.
func NewBuilder(config Config) (*Builder, error) {
	if len(config.Specs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "feature builder requires at least one spec")
	}

	indicators := make([]indicator.Indicator, len(config.Specs))

	for i, spec := range config.Specs {
		ind, err := indicator.FromSpec(spec.Indicator)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err,
				"invalid indicator spec %d (%s on %s)", i, spec.Indicator.Type, spec.Timeframe)
		}

		indicators[i] = ind
	}

	return &Builder{config: config, indicators: indicators}, nil
}

// FeatureName returns the name a spec's line contributes to the vector,
// e.g. "h4_rsi_14" for an RSI computed on the H4 series.
func FeatureName(tf types.Timeframe, lineName string) string {
	return fmt.Sprintf("%s_%s", strings.ToLower(string(tf)), lineName)
}

// Build assembles one feature vector per base bar, aligned one-to-one with
// base.Bars. Rows missing any feature are None unless AllowPartial is set.
//
// Higher-timeframe series must never contain a bar whose close lies beyond
// the base series' evaluation window start; the alignment below guarantees
// those bars are simply never selected.
func (b *Builder) Build(base types.Series, higher ...types.Series) ([]optional.Option[types.FeatureVector], error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}

	baseDuration, err := base.Timeframe.Duration()
	if err != nil {
		return nil, err
	}

	seriesByTimeframe := map[types.Timeframe]*types.Series{base.Timeframe: &base}

	for i := range higher {
		h := &higher[i]
		if err := h.Validate(); err != nil {
			return nil, err
		}

		higherDuration, err := h.Timeframe.Duration()
		if err != nil {
			return nil, err
		}

		if higherDuration <= baseDuration {
			return nil, errors.Newf(errors.ErrCodeTimeframeMismatch,
				"series %s is not a higher timeframe than base %s", h.Timeframe, base.Timeframe)
		}

		seriesByTimeframe[h.Timeframe] = h
	}

	// Compute every line up front; computed lines are aligned with the bars
	// of the series they came from.
	type computedLine struct {
		timeframe types.Timeframe
		name      string
		values    []optional.Option[float64]
	}

	var lines []computedLine

	for i, spec := range b.config.Specs {
		series, ok := seriesByTimeframe[spec.Timeframe]
		if !ok {
			return nil, errors.Newf(errors.ErrCodeFeatureNotAvailable,
				"no series loaded for timeframe %s required by spec %d", spec.Timeframe, i)
		}

		computed, err := b.indicators[i].Compute(series.Bars)
		if err != nil {
			return nil, err
		}

		for _, line := range computed {
			lines = append(lines, computedLine{
				timeframe: spec.Timeframe,
				name:      FeatureName(spec.Timeframe, line.Name),
				values:    line.Values,
			})
		}
	}

	// Precompute, for each higher timeframe, the index of the latest bar
	// whose close is at or before each base bar's close. Both series are
	// sorted, so a single forward sweep per timeframe suffices.
	alignment := make(map[types.Timeframe][]int)

	for tf, series := range seriesByTimeframe {
		if tf == base.Timeframe {
			continue
		}

		higherDuration, _ := tf.Duration()
		indexes := make([]int, len(base.Bars))
		j := -1

		for i, bar := range base.Bars {
			baseClose := bar.Time.Add(baseDuration)

			for j+1 < len(series.Bars) && !closeTime(series.Bars[j+1], higherDuration).After(baseClose) {
				j++
			}

			indexes[i] = j
		}

		alignment[tf] = indexes
	}

	vectors := make([]optional.Option[types.FeatureVector], len(base.Bars))

	for i, bar := range base.Bars {
		vector := types.NewFeatureVector(bar.Time)
		complete := true

		for _, line := range lines {
			var value optional.Option[float64]

			if line.timeframe == base.Timeframe {
				value = line.values[i]
			} else {
				j := alignment[line.timeframe][i]
				if j >= 0 {
					value = line.values[j]
				} else {
					value = optional.None[float64]()
				}
			}

			if value.IsNone() {
				complete = false
				continue
			}

			vector.Set(line.name, value.Unwrap())
		}

		if complete || (b.config.AllowPartial && len(vector.Values) > 0) {
			vectors[i] = optional.Some(vector)
		} else {
			vectors[i] = optional.None[types.FeatureVector]()
		}
	}

	return vectors, nil
}

// CompleteRows filters aligned build output down to the usable rows.
func CompleteRows(vectors []optional.Option[types.FeatureVector]) []types.FeatureVector {
	rows := make([]types.FeatureVector, 0, len(vectors))

	for _, vector := range vectors {
		if vector.IsSome() {
			rows = append(rows, vector.Unwrap())
		}
	}

	return rows
}

// closeTime is when a bar stops forming: its open time plus the interval.
func closeTime(bar types.Bar, interval time.Duration) time.Time {
	return bar.Time.Add(interval)
}
