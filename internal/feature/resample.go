package feature

import (
	"github.com/primtrade/prim-trading/internal/types"
	"github.com/primtrade/prim-trading/pkg/errors"
)

// Resample derives a higher-timeframe series from a base series: first open,
// max high, min low, last close, summed volume per bucket. Bar timestamps are
// bucket open times aligned to the target duration.
//
// Only fully closed buckets are emitted. A trailing partial bucket would
// reference data that is still forming at the base timeframe's edge, so it is
// dropped rather than emitted early.
func Resample(base types.Series, target types.Timeframe) (types.Series, error) {
	baseDuration, err := base.Timeframe.Duration()
	if err != nil {
		return types.Series{}, err
	}

	targetDuration, err := target.Duration()
	if err != nil {
		return types.Series{}, err
	}

	if targetDuration <= baseDuration || targetDuration%baseDuration != 0 {
		return types.Series{}, errors.Newf(errors.ErrCodeTimeframeMismatch,
			"cannot resample %s into %s: target must be a larger multiple of the base interval",
			base.Timeframe, target)
	}

	if err := base.Validate(); err != nil {
		return types.Series{}, err
	}

	barsPerBucket := int(targetDuration / baseDuration)
	result := types.Series{Timeframe: target, Bars: nil}

	var (
		current types.Bar
		count   int
	)

	flush := func() {
		// A bucket is closed only when every base bar inside it was seen.
		if count == barsPerBucket {
			result.Bars = append(result.Bars, current)
		}

		count = 0
	}

	for _, bar := range base.Bars {
		bucketStart := bar.Time.Truncate(targetDuration)

		if count > 0 && !bucketStart.Equal(current.Time) {
			flush()
		}

		if count == 0 {
			current = types.Bar{
				Time:   bucketStart,
				Open:   bar.Open,
				High:   bar.High,
				Low:    bar.Low,
				Close:  bar.Close,
				Volume: bar.Volume,
			}
			count = 1

			continue
		}

		if bar.High > current.High {
			current.High = bar.High
		}

		if bar.Low < current.Low {
			current.Low = bar.Low
		}

		current.Close = bar.Close
		current.Volume += bar.Volume
		count++
	}

	flush()

	return result, nil
}
