package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// Direction is the trade direction requested by a signal.
type Direction string

const (
	// DirectionLong requests a long position.
	DirectionLong Direction = "long"
	// DirectionShort requests a short position.
	DirectionShort Direction = "short"
	// DirectionFlat means no position should be opened, or an open position
	// should be closed.
	DirectionFlat Direction = "flat"
)

// Sign returns +1 for long, -1 for short and 0 for flat.
func (d Direction) Sign() float64 {
	switch d {
	case DirectionLong:
		return 1
	case DirectionShort:
		return -1
	default:
		return 0
	}
}

// Opposes reports whether the direction is the opposite side of other.
func (d Direction) Opposes(other Direction) bool {
	return (d == DirectionLong && other == DirectionShort) ||
		(d == DirectionShort && other == DirectionLong)
}

// Signal is one model prediction for a base-timeframe bar.
type Signal struct {
	// Time is the timestamp of the bar the signal was produced on.
	Time time.Time `yaml:"time"`
	// Direction is the requested trade direction.
	Direction Direction `yaml:"direction"`
	// Strength is the model confidence in [0,1]. None when the predictor does
	// not report confidence.
	Strength optional.Option[float64] `yaml:"strength"`
}

// FlatSignal returns a flat signal for the given time.
func FlatSignal(t time.Time) Signal {
	return Signal{
		Time:      t,
		Direction: DirectionFlat,
		Strength:  optional.None[float64](),
	}
}
