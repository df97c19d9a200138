// Package analyzer turns a completed trade log and equity curve into a
// performance report. Analysis is a pure function of its inputs: it never
// re-runs the simulation, and identical inputs reproduce the report
// byte for byte.
package analyzer

import (
	"math"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/primtrade/prim-trading/internal/types"
	"github.com/primtrade/prim-trading/pkg/errors"
	"github.com/shopspring/decimal"
)

// Config parameterizes the analysis of one run.
type Config struct {
	// RunID and Symbol are copied into the report.
	RunID  string `yaml:"run_id" json:"run_id"`
	Symbol string `yaml:"symbol" json:"symbol"`
	// BarsPerYear annualizes per-bar return statistics, e.g. 252 for daily
	// bars on an equity calendar or 252*24 for hourly crypto bars.
	BarsPerYear float64 `yaml:"bars_per_year" json:"bars_per_year" validate:"gt=0"`
	// PositionSize, FirstOpen and LastClose parameterize the buy-and-hold
	// benchmark: one position of the configured size held across the whole
	// dataset.
	PositionSize float64 `yaml:"position_size" json:"position_size" validate:"gte=0"`
	FirstOpen    float64 `yaml:"first_open" json:"first_open" validate:"gte=0"`
	LastClose    float64 `yaml:"last_close" json:"last_close" validate:"gte=0"`
	// GeneratedAt stamps the report. The zero value means time.Now, which
	// callers needing reproducible output should override.
	GeneratedAt time.Time `yaml:"-" json:"-"`
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid analyzer config", err)
	}

	return nil
}

// Analyze computes the performance report for a completed run.
//
// Statistics that are undefined for the input (win rate with no trades,
// profit factor with no losses, ratios over a constant equity curve) come
// back as None, never as NaN or a fabricated zero.
func Analyze(trades []types.TradeRecord, curve types.EquityCurve, config Config) (types.PerformanceReport, error) {
	if err := config.Validate(); err != nil {
		return types.PerformanceReport{}, err
	}

	generatedAt := config.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}

	report := types.PerformanceReport{
		RunID:       config.RunID,
		Symbol:      config.Symbol,
		GeneratedAt: generatedAt,
	}

	analyzeTrades(&report, trades)
	analyzeDrawdown(&report, curve)
	analyzeRatios(&report, curve, config.BarsPerYear)

	report.Monthly = monthlyStats(trades)
	report.TradeHoldingTime = holdingTimes(trades)
	report.BuyAndHoldPnL = buyAndHold(config)

	return report, nil
}

func analyzeTrades(report *types.PerformanceReport, trades []types.TradeRecord) {
	totalPnL := decimal.Zero
	grossProfit := decimal.Zero
	grossLoss := decimal.Zero
	totalFees := decimal.Zero

	for i, trade := range trades {
		pnl := decimal.NewFromFloat(trade.PnL)
		totalPnL = totalPnL.Add(pnl)
		totalFees = totalFees.Add(decimal.NewFromFloat(trade.Fees))

		switch {
		case trade.PnL > 0:
			report.NumberOfWinningTrades++
			grossProfit = grossProfit.Add(pnl)
		case trade.PnL < 0:
			report.NumberOfLosingTrades++
			grossLoss = grossLoss.Sub(pnl)
		}

		if i == 0 || trade.PnL > report.MaximumProfit {
			report.MaximumProfit = trade.PnL
		}

		if i == 0 || trade.PnL < report.MaximumLoss {
			report.MaximumLoss = trade.PnL
		}
	}

	report.NumberOfTrades = len(trades)
	report.TotalPnL, _ = totalPnL.Float64()
	report.GrossProfit, _ = grossProfit.Float64()
	report.GrossLoss, _ = grossLoss.Float64()
	report.TotalFees, _ = totalFees.Float64()

	if len(trades) > 0 {
		report.WinRate = optional.Some(float64(report.NumberOfWinningTrades) / float64(len(trades)))
	}

	if report.GrossLoss > 0 {
		report.ProfitFactor = optional.Some(report.GrossProfit / report.GrossLoss)
	}
}

// analyzeDrawdown finds the largest peak-to-trough decline along the curve.
func analyzeDrawdown(report *types.PerformanceReport, curve types.EquityCurve) {
	if len(curve) == 0 {
		return
	}

	peak := curve[0].Equity

	for _, point := range curve {
		if point.Equity > peak {
			peak = point.Equity
		}

		drawdown := peak - point.Equity
		if drawdown > report.MaxDrawdown {
			report.MaxDrawdown = drawdown

			if peak > 0 {
				report.MaxDrawdownPct = drawdown / peak
			}
		}
	}
}

// analyzeRatios computes annualized Sharpe and Sortino over per-bar equity
// returns.
func analyzeRatios(report *types.PerformanceReport, curve types.EquityCurve, barsPerYear float64) {
	returns := barReturns(curve)
	if len(returns) < 2 {
		return
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	downside := 0.0

	for _, r := range returns {
		diff := r - mean
		variance += diff * diff

		if r < 0 {
			downside += r * r
		}
	}

	// Sample standard deviation over per-bar returns.
	stdDev := math.Sqrt(variance / float64(len(returns)-1))
	annualize := math.Sqrt(barsPerYear)

	if stdDev > 0 {
		report.SharpeRatio = optional.Some(mean / stdDev * annualize)
	}

	downsideDev := math.Sqrt(downside / float64(len(returns)))
	if downsideDev > 0 {
		report.SortinoRatio = optional.Some(mean / downsideDev * annualize)
	}
}

// barReturns converts the equity curve into simple per-bar returns.
func barReturns(curve types.EquityCurve) []float64 {
	if len(curve) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(curve)-1)

	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev == 0 {
			continue
		}

		returns = append(returns, (curve[i].Equity-prev)/prev)
	}

	return returns
}

// monthlyStats groups realized P&L by the calendar month of the exit.
func monthlyStats(trades []types.TradeRecord) types.MonthlyStats {
	byMonth := make(map[string]decimal.Decimal)

	for _, trade := range trades {
		month := trade.ExitTime.UTC().Format("2006-01")
		byMonth[month] = byMonth[month].Add(decimal.NewFromFloat(trade.PnL))
	}

	if len(byMonth) == 0 {
		return types.MonthlyStats{PositiveRatio: optional.None[float64]()}
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}

	sort.Strings(months)

	stats := types.MonthlyStats{Months: make([]types.MonthlyPnL, 0, len(months))}
	sum := 0.0
	positive := 0

	for _, month := range months {
		pnl, _ := byMonth[month].Float64()
		stats.Months = append(stats.Months, types.MonthlyPnL{Month: month, PnL: pnl})
		sum += pnl

		if pnl > 0 {
			positive++
		}
	}

	n := float64(len(months))
	stats.AvgProfit = sum / n

	variance := 0.0
	for _, monthly := range stats.Months {
		diff := monthly.PnL - stats.AvgProfit
		variance += diff * diff
	}

	stats.StdDev = math.Sqrt(variance / n)
	stats.PositiveRatio = optional.Some(float64(positive) / n)

	return stats
}

func holdingTimes(trades []types.TradeRecord) types.TradeHoldingTime {
	if len(trades) == 0 {
		return types.TradeHoldingTime{}
	}

	var result types.TradeHoldingTime
	total := 0

	for i, trade := range trades {
		seconds := int(trade.HoldingTime().Seconds())
		total += seconds

		if i == 0 || seconds < result.Min {
			result.Min = seconds
		}

		if seconds > result.Max {
			result.Max = seconds
		}
	}

	result.Avg = total / len(trades)

	return result
}

// buyAndHold is the benchmark P&L of holding the configured size from the
// first bar's open to the last bar's close, with no modeled costs.
func buyAndHold(config Config) float64 {
	result, _ := decimal.NewFromFloat(config.LastClose).
		Sub(decimal.NewFromFloat(config.FirstOpen)).
		Mul(decimal.NewFromFloat(config.PositionSize)).
		Float64()

	return result
}
