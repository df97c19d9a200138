package feature

import (
	"fmt"
	"testing"
	"time"

	"github.com/primtrade/prim-trading/internal/indicator"
	"github.com/primtrade/prim-trading/internal/types"
	"github.com/primtrade/prim-trading/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type BuilderTestSuite struct {
	suite.Suite
}

func TestBuilderSuite(t *testing.T) {
	suite.Run(t, new(BuilderTestSuite))
}

func (suite *BuilderTestSuite) TestRequiresSpecs() {
	_, err := NewBuilder(Config{})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *BuilderTestSuite) TestRejectsInvalidIndicatorSpec() {
	_, err := NewBuilder(Config{Specs: []Spec{{
		Timeframe: types.TimeframeH1,
		Indicator: indicator.Spec{Type: types.IndicatorTypeSMA, Period: 0},
	}}})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *BuilderTestSuite) TestFeatureName() {
	suite.Equal("h4_rsi_14", FeatureName(types.TimeframeH4, "rsi_14"))
	suite.Equal("m15_sma_20", FeatureName(types.TimeframeM15, "sma_20"))
}

func (suite *BuilderTestSuite) TestSingleTimeframeWarmup() {
	builder, err := NewBuilder(Config{Specs: []Spec{{
		Timeframe: types.TimeframeH1,
		Indicator: indicator.Spec{Type: types.IndicatorTypeSMA, Period: 3},
	}}})
	suite.NoError(err)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	base := hourlySeries(start, 1, 2, 3, 4, 5)

	vectors, err := builder.Build(base)
	suite.NoError(err)
	suite.Len(vectors, 5)

	suite.True(vectors[0].IsNone())
	suite.True(vectors[1].IsNone())

	for i, want := range map[int]float64{2: 2, 3: 3, 4: 4} {
		vector := vectors[i].Unwrap()
		suite.Equal(base.Bars[i].Time, vector.Time)

		value, ok := vector.Get("h1_sma_3")
		suite.True(ok)
		suite.InDelta(want, value, 1e-9)
	}
}

func (suite *BuilderTestSuite) TestHigherTimeframeAlignment() {
	builder, err := NewBuilder(Config{Specs: []Spec{{
		Timeframe: types.TimeframeH4,
		Indicator: indicator.Spec{Type: types.IndicatorTypeSMA, Period: 1},
	}}})
	suite.NoError(err)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	base := hourlySeries(start, 10, 11, 12, 13, 20, 21, 22, 23, 30)

	higher, err := Resample(base, types.TimeframeH4)
	suite.NoError(err)
	suite.Len(higher.Bars, 2)

	vectors, err := builder.Build(base, higher)
	suite.NoError(err)
	suite.Len(vectors, 9)

	// The first H4 bar closes at 04:00, the close of base bar index 3. Before
	// that no higher value exists at all.
	for i := 0; i < 3; i++ {
		suite.True(vectors[i].IsNone(), "bar %d should have no closed H4 bar", i)
	}

	// Bars 3..6 see the first H4 bar (close 13); bar 7 onward sees the second
	// (close 23).
	for i := 3; i < 7; i++ {
		value, ok := vectors[i].Unwrap().Get("h4_sma_1")
		suite.True(ok)
		suite.InDelta(13.0, value, 1e-9, "bar %d", i)
	}

	value, ok := vectors[7].Unwrap().Get("h4_sma_1")
	suite.True(ok)
	suite.InDelta(23.0, value, 1e-9)

	value, ok = vectors[8].Unwrap().Get("h4_sma_1")
	suite.True(ok)
	suite.InDelta(23.0, value, 1e-9)
}

func (suite *BuilderTestSuite) TestNoLookAhead() {
	builder, err := NewBuilder(Config{Specs: []Spec{
		{
			Timeframe: types.TimeframeH1,
			Indicator: indicator.Spec{Type: types.IndicatorTypeSMA, Period: 3},
		},
		{
			Timeframe: types.TimeframeH4,
			Indicator: indicator.Spec{Type: types.IndicatorTypeSMA, Period: 1},
		},
	}})
	suite.NoError(err)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	closes := []float64{10, 11, 12, 13, 20, 21, 22, 23, 30, 31, 32, 33, 40}

	build := func(closes []float64) []string {
		base := hourlySeries(start, closes...)
		higher, err := Resample(base, types.TimeframeH4)
		suite.NoError(err)

		vectors, err := builder.Build(base, higher)
		suite.NoError(err)

		rendered := make([]string, len(vectors))
		for i, vector := range vectors {
			if vector.IsNone() {
				rendered[i] = "none"
				continue
			}

			v := vector.Unwrap()
			rendered[i] = ""
			for _, name := range v.Names() {
				value, _ := v.Get(name)
				rendered[i] += fmt.Sprintf("%s=%.9f;", name, value)
			}
		}

		return rendered
	}

	original := build(closes)

	// Rewriting everything after bar 8 must not change any vector up to and
	// including bar 8.
	mutated := append([]float64{}, closes...)
	for i := 9; i < len(mutated); i++ {
		mutated[i] = 999
	}

	changed := build(mutated)

	for i := 0; i <= 8; i++ {
		suite.Equal(original[i], changed[i], "bar %d changed after future mutation", i)
	}
}

func (suite *BuilderTestSuite) TestAllowPartialKeepsIncompleteRows() {
	builder, err := NewBuilder(Config{
		Specs: []Spec{
			{
				Timeframe: types.TimeframeH1,
				Indicator: indicator.Spec{Type: types.IndicatorTypeSMA, Period: 1},
			},
			{
				Timeframe: types.TimeframeH1,
				Indicator: indicator.Spec{Type: types.IndicatorTypeSMA, Period: 4},
			},
		},
		AllowPartial: true,
	})
	suite.NoError(err)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	base := hourlySeries(start, 1, 2, 3, 4, 5)

	vectors, err := builder.Build(base)
	suite.NoError(err)

	// Bar 0 has the period-1 SMA but not the period-4 one; with AllowPartial
	// it survives as a partial row.
	vector := vectors[0].Unwrap()
	_, ok := vector.Get("h1_sma_1")
	suite.True(ok)
	_, ok = vector.Get("h1_sma_4")
	suite.False(ok)
}

func (suite *BuilderTestSuite) TestMissingSeriesForSpec() {
	builder, err := NewBuilder(Config{Specs: []Spec{{
		Timeframe: types.TimeframeH4,
		Indicator: indicator.Spec{Type: types.IndicatorTypeSMA, Period: 2},
	}}})
	suite.NoError(err)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err = builder.Build(hourlySeries(start, 1, 2, 3))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeFeatureNotAvailable))
}

func (suite *BuilderTestSuite) TestRejectsLowerHigherSeries() {
	builder, err := NewBuilder(Config{Specs: []Spec{{
		Timeframe: types.TimeframeH1,
		Indicator: indicator.Spec{Type: types.IndicatorTypeSMA, Period: 2},
	}}})
	suite.NoError(err)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	base := hourlySeries(start, 1, 2, 3)
	notHigher := hourlySeries(start, 1, 2, 3)

	_, err = builder.Build(base, notHigher)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeTimeframeMismatch))
}

func (suite *BuilderTestSuite) TestCompleteRows() {
	builder, err := NewBuilder(Config{Specs: []Spec{{
		Timeframe: types.TimeframeH1,
		Indicator: indicator.Spec{Type: types.IndicatorTypeSMA, Period: 3},
	}}})
	suite.NoError(err)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	vectors, err := builder.Build(hourlySeries(start, 1, 2, 3, 4, 5))
	suite.NoError(err)

	rows := CompleteRows(vectors)
	suite.Len(rows, 3)
	suite.Equal(start.Add(2*time.Hour), rows[0].Time)
}
