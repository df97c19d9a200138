package types

import (
	"time"

	"github.com/primtrade/prim-trading/pkg/errors"
)

// Timeframe is the fixed interval size of a bar series.
type Timeframe string

const (
	TimeframeM1  Timeframe = "M1"
	TimeframeM5  Timeframe = "M5"
	TimeframeM15 Timeframe = "M15"
	TimeframeM30 Timeframe = "M30"
	TimeframeH1  Timeframe = "H1"
	TimeframeH4  Timeframe = "H4"
	TimeframeD1  Timeframe = "D1"
	TimeframeW1  Timeframe = "W1"
)

// AllTimeframes lists every supported timeframe in ascending duration order.
var AllTimeframes = []Timeframe{
	TimeframeM1,
	TimeframeM5,
	TimeframeM15,
	TimeframeM30,
	TimeframeH1,
	TimeframeH4,
	TimeframeD1,
	TimeframeW1,
}

// Duration returns the bar interval for the timeframe.
func (t Timeframe) Duration() (time.Duration, error) {
	switch t {
	case TimeframeM1:
		return time.Minute, nil
	case TimeframeM5:
		return 5 * time.Minute, nil
	case TimeframeM15:
		return 15 * time.Minute, nil
	case TimeframeM30:
		return 30 * time.Minute, nil
	case TimeframeH1:
		return time.Hour, nil
	case TimeframeH4:
		return 4 * time.Hour, nil
	case TimeframeD1:
		return 24 * time.Hour, nil
	case TimeframeW1:
		return 7 * 24 * time.Hour, nil
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidTimeframe, "unknown timeframe: %s", string(t))
	}
}

// ParseTimeframe converts a string into a Timeframe, failing on unknown values.
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(s)
	if _, err := tf.Duration(); err != nil {
		return "", err
	}

	return tf, nil
}
