// Package datasource loads bar series from disk and writes run artifacts
// back out. The engine itself never touches the filesystem; everything here
// happens before a run starts or after it finishes.
package datasource

import (
	"os"

	"github.com/gocarina/gocsv"
	"github.com/primtrade/prim-trading/internal/types"
	"github.com/primtrade/prim-trading/pkg/errors"
)

// LoadSeriesCSV reads OHLCV bars from a CSV file with a
// time,open,high,low,close,volume header into a validated series.
//
// The file must already be deduplicated and sorted by timestamp; a violation
// fails the load rather than being silently repaired.
func LoadSeriesCSV(path string, timeframe types.Timeframe) (types.Series, error) {
	if _, err := timeframe.Duration(); err != nil {
		return types.Series{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		return types.Series{}, errors.Wrapf(errors.ErrCodeDataNotFound, err, "cannot open data file %s", path)
	}
	defer file.Close()

	var bars []types.Bar
	if err := gocsv.UnmarshalFile(file, &bars); err != nil {
		return types.Series{}, errors.Wrapf(errors.ErrCodeDataParseFailed, err, "cannot parse data file %s", path)
	}

	if len(bars) == 0 {
		return types.Series{}, errors.Newf(errors.ErrCodeDataNotFound, "data file %s contains no bars", path)
	}

	series := types.Series{Timeframe: timeframe, Bars: bars}
	if err := series.Validate(); err != nil {
		return types.Series{}, err
	}

	for i := range series.Bars {
		series.Bars[i].Time = series.Bars[i].Time.UTC()

		if err := series.Bars[i].Validate(); err != nil {
			return types.Series{}, err
		}
	}

	return series, nil
}
