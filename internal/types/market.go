package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/primtrade/prim-trading/pkg/errors"
)

// Bar is one OHLCV observation for a fixed time interval. Bars are immutable
// once produced.
type Bar struct {
	Time   time.Time `csv:"time" yaml:"time" validate:"required"`
	Open   float64   `csv:"open" yaml:"open" validate:"required,gt=0"`
	High   float64   `csv:"high" yaml:"high" validate:"required,gt=0"`
	Low    float64   `csv:"low" yaml:"low" validate:"required,gt=0"`
	Close  float64   `csv:"close" yaml:"close" validate:"required,gt=0"`
	Volume float64   `csv:"volume" yaml:"volume" validate:"gte=0"`
}

// Validate validates the Bar struct.
func (b *Bar) Validate() error {
	validate := validator.New()
	if err := validate.Struct(b); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "invalid bar", err)
	}

	if b.High < b.Low {
		return errors.Newf(errors.ErrCodeInvalidParameter, "bar at %s has high %f below low %f", b.Time, b.High, b.Low)
	}

	return nil
}

// Series is an ordered sequence of bars for a single timeframe. Multiple
// series for the same instrument share a common time origin.
type Series struct {
	Timeframe Timeframe `yaml:"timeframe"`
	Bars      []Bar     `yaml:"bars"`
}

// Validate checks the series invariant: strictly increasing timestamps with
// no duplicates. The engine assumes input series are already deduplicated and
// sorted; this fails loudly when that assumption is violated.
func (s *Series) Validate() error {
	if _, err := s.Timeframe.Duration(); err != nil {
		return err
	}

	for i := 1; i < len(s.Bars); i++ {
		if !s.Bars[i].Time.After(s.Bars[i-1].Time) {
			return errors.Newf(errors.ErrCodeDataNotSorted,
				"series %s is not strictly increasing at index %d (%s followed by %s)",
				s.Timeframe, i, s.Bars[i-1].Time, s.Bars[i].Time)
		}
	}

	return nil
}

// Len returns the number of bars in the series.
func (s *Series) Len() int {
	return len(s.Bars)
}

// Closes returns the close prices of all bars in order.
func (s *Series) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, bar := range s.Bars {
		closes[i] = bar.Close
	}

	return closes
}
