// Package mocks generates synthetic market data for tests, benchmarks and
// demo runs without a real data file.
package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/primtrade/prim-trading/internal/types"
)

// DataGenerator produces synthetic OHLCV bars. Use a fixed seed for
// reproducible series.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a generator seeded deterministically.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	// Timeframe of the generated series.
	Timeframe types.Timeframe
	// StartTime is the timestamp of the first bar.
	StartTime time.Time
	// Count is the number of bars to generate.
	Count int
	// InitialPrice is the starting price.
	InitialPrice float64
	// Volatility controls per-bar price movement (0.002 = 0.2% per bar).
	Volatility float64
	// Trend is the total drift across the whole series, e.g. 0.1 for a 10%
	// rise end to end.
	Trend float64
	// VolumeBase is the average volume per bar.
	VolumeBase float64
	// VolumeVariance is the relative variance in volume (0.0 to 1.0).
	VolumeVariance float64
}

// DefaultConfig returns a sensible default configuration: a year of hourly
// bars with mild volatility and no drift.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Timeframe:      types.TimeframeH1,
		StartTime:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Count:          24 * 365,
		InitialPrice:   100.0,
		Volatility:     0.002,
		Trend:          0.0,
		VolumeBase:     10000,
		VolumeVariance: 0.3,
	}
}

// Generate produces a bar series following geometric Brownian motion.
// Identical seed and config always yield an identical series.
func (g *DataGenerator) Generate(config GeneratorConfig) (types.Series, error) {
	interval, err := config.Timeframe.Duration()
	if err != nil {
		return types.Series{}, err
	}

	bars := make([]types.Bar, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		open := currentPrice

		// Box-Muller transform for a normally distributed shock.
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		priceChange := config.Volatility * z
		drift := config.Trend / float64(config.Count)

		close := open * (1 + priceChange + drift)
		if close <= 0 {
			close = open * 0.99
		}

		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, close) + highExtension
		low := math.Min(open, close) - lowExtension
		if low <= 0 {
			low = math.Min(open, close) * 0.99
		}

		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance
		volume := config.VolumeBase * volumeVariation
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		bars[i] = types.Bar{
			Time:   currentTime,
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(high, 4),
			Low:    roundToDecimals(low, 4),
			Close:  roundToDecimals(close, 4),
			Volume: roundToDecimals(volume, 2),
		}

		currentPrice = close
		currentTime = currentTime.Add(interval)
	}

	return types.Series{Timeframe: config.Timeframe, Bars: bars}, nil
}

func roundToDecimals(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))

	return math.Round(value*factor) / factor
}
