package types

import (
	"fmt"
	"os"
	"time"

	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v3"
)

// TradeHoldingTime summarizes holding durations across closed trades.
type TradeHoldingTime struct {
	// Minimum holding time of a trade in seconds
	Min int `yaml:"min"`
	// Maximum holding time of a trade in seconds
	Max int `yaml:"max"`
	// Average holding time of a trade in seconds
	Avg int `yaml:"avg"`
}

// MonthlyPnL is the realized profit and loss of one calendar month.
type MonthlyPnL struct {
	// Month in "2006-01" format.
	Month string `yaml:"month"`
	// PnL realized during the month.
	PnL float64 `yaml:"pnl"`
}

// MonthlyStats aggregates realized P&L by calendar month.
type MonthlyStats struct {
	// Months lists per-month realized P&L in chronological order.
	Months []MonthlyPnL `yaml:"months"`
	// AvgProfit is the mean monthly realized P&L.
	AvgProfit float64 `yaml:"avg_profit"`
	// StdDev is the standard deviation of monthly P&L across months.
	StdDev float64 `yaml:"std_dev"`
	// PositiveRatio is the fraction of months with positive P&L. None when
	// there are no months with closed trades.
	PositiveRatio optional.Option[float64] `yaml:"positive_ratio"`
}

// PerformanceReport is the aggregate statistics of a completed run. Computed
// once from the trade log and equity curve; immutable afterwards.
//
// Statistics that are mathematically undefined for the input (win rate with
// zero trades, profit factor with zero gross loss, ratios with zero variance)
// are None rather than NaN so they cannot silently propagate.
type PerformanceReport struct {
	// RunID is the unique identifier of the backtest run.
	RunID string `yaml:"run_id"`
	// Symbol of the instrument.
	Symbol string `yaml:"symbol"`
	// GeneratedAt is when the report was produced.
	GeneratedAt time.Time `yaml:"generated_at"`

	// NumberOfTrades counts all closed trades.
	NumberOfTrades int `yaml:"number_of_trades"`
	// NumberOfWinningTrades counts closed trades with positive realized P&L.
	NumberOfWinningTrades int `yaml:"number_of_winning_trades"`
	// NumberOfLosingTrades counts closed trades with negative realized P&L.
	NumberOfLosingTrades int `yaml:"number_of_losing_trades"`
	// WinRate is winning trades over total closed trades. None with no trades.
	WinRate optional.Option[float64] `yaml:"win_rate"`

	// TotalPnL is the sum of realized P&L across all closed trades.
	TotalPnL float64 `yaml:"total_pnl"`
	// GrossProfit is the sum of positive realized P&L.
	GrossProfit float64 `yaml:"gross_profit"`
	// GrossLoss is the magnitude of the sum of negative realized P&L.
	GrossLoss float64 `yaml:"gross_loss"`
	// ProfitFactor is gross profit over gross loss magnitude. None when gross
	// loss is zero.
	ProfitFactor optional.Option[float64] `yaml:"profit_factor"`
	// TotalFees is the sum of transaction costs across all closed trades.
	TotalFees float64 `yaml:"total_fees"`
	// MaximumProfit is the largest single-trade realized P&L.
	MaximumProfit float64 `yaml:"maximum_profit"`
	// MaximumLoss is the smallest single-trade realized P&L.
	MaximumLoss float64 `yaml:"maximum_loss"`

	// MaxDrawdown is the largest peak-to-trough equity decline, absolute.
	MaxDrawdown float64 `yaml:"max_drawdown"`
	// MaxDrawdownPct is the same decline as a fraction of the peak.
	MaxDrawdownPct float64 `yaml:"max_drawdown_pct"`

	// SharpeRatio is mean per-bar equity return over its standard deviation,
	// annualized with the configured bars-per-year factor. None when the
	// return series has zero variance or too few points.
	SharpeRatio optional.Option[float64] `yaml:"sharpe_ratio"`
	// SortinoRatio uses downside deviation (returns below zero) instead of
	// full standard deviation. None when there is no downside deviation.
	SortinoRatio optional.Option[float64] `yaml:"sortino_ratio"`

	// TradeHoldingTime summarizes holding durations.
	TradeHoldingTime TradeHoldingTime `yaml:"trade_holding_time"`
	// Monthly aggregates realized P&L by calendar month.
	Monthly MonthlyStats `yaml:"monthly"`
	// BuyAndHoldPnL is the benchmark P&L of holding one position of the
	// configured size from the first bar's open to the last bar's close.
	BuyAndHoldPnL float64 `yaml:"buy_and_hold_pnl"`
}

// optionalScalar renders an Option as a plain scalar or null in YAML output.
func optionalScalar(o optional.Option[float64]) *float64 {
	if o.IsNone() {
		return nil
	}

	v := o.Unwrap()

	return &v
}

// MarshalYAML implements yaml.Marshaler so undefined statistics render as
// null instead of empty sequences.
func (m MonthlyStats) MarshalYAML() (interface{}, error) {
	type plain struct {
		Months        []MonthlyPnL `yaml:"months"`
		AvgProfit     float64      `yaml:"avg_profit"`
		StdDev        float64      `yaml:"std_dev"`
		PositiveRatio *float64     `yaml:"positive_ratio"`
	}

	return plain{
		Months:        m.Months,
		AvgProfit:     m.AvgProfit,
		StdDev:        m.StdDev,
		PositiveRatio: optionalScalar(m.PositiveRatio),
	}, nil
}

// MarshalYAML implements yaml.Marshaler.
func (r PerformanceReport) MarshalYAML() (interface{}, error) {
	type plain struct {
		RunID                 string           `yaml:"run_id"`
		Symbol                string           `yaml:"symbol"`
		GeneratedAt           time.Time        `yaml:"generated_at"`
		NumberOfTrades        int              `yaml:"number_of_trades"`
		NumberOfWinningTrades int              `yaml:"number_of_winning_trades"`
		NumberOfLosingTrades  int              `yaml:"number_of_losing_trades"`
		WinRate               *float64         `yaml:"win_rate"`
		TotalPnL              float64          `yaml:"total_pnl"`
		GrossProfit           float64          `yaml:"gross_profit"`
		GrossLoss             float64          `yaml:"gross_loss"`
		ProfitFactor          *float64         `yaml:"profit_factor"`
		TotalFees             float64          `yaml:"total_fees"`
		MaximumProfit         float64          `yaml:"maximum_profit"`
		MaximumLoss           float64          `yaml:"maximum_loss"`
		MaxDrawdown           float64          `yaml:"max_drawdown"`
		MaxDrawdownPct        float64          `yaml:"max_drawdown_pct"`
		SharpeRatio           *float64         `yaml:"sharpe_ratio"`
		SortinoRatio          *float64         `yaml:"sortino_ratio"`
		TradeHoldingTime      TradeHoldingTime `yaml:"trade_holding_time"`
		Monthly               MonthlyStats     `yaml:"monthly"`
		BuyAndHoldPnL         float64          `yaml:"buy_and_hold_pnl"`
	}

	return plain{
		RunID:                 r.RunID,
		Symbol:                r.Symbol,
		GeneratedAt:           r.GeneratedAt,
		NumberOfTrades:        r.NumberOfTrades,
		NumberOfWinningTrades: r.NumberOfWinningTrades,
		NumberOfLosingTrades:  r.NumberOfLosingTrades,
		WinRate:               optionalScalar(r.WinRate),
		TotalPnL:              r.TotalPnL,
		GrossProfit:           r.GrossProfit,
		GrossLoss:             r.GrossLoss,
		ProfitFactor:          optionalScalar(r.ProfitFactor),
		TotalFees:             r.TotalFees,
		MaximumProfit:         r.MaximumProfit,
		MaximumLoss:           r.MaximumLoss,
		MaxDrawdown:           r.MaxDrawdown,
		MaxDrawdownPct:        r.MaxDrawdownPct,
		SharpeRatio:           optionalScalar(r.SharpeRatio),
		SortinoRatio:          optionalScalar(r.SortinoRatio),
		TradeHoldingTime:      r.TradeHoldingTime,
		Monthly:               r.Monthly,
		BuyAndHoldPnL:         r.BuyAndHoldPnL,
	}, nil
}

// WritePerformanceReport marshals the report to YAML and writes it to path.
func WritePerformanceReport(path string, report PerformanceReport) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal performance report to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write performance report to file: %w", err)
	}

	return nil
}
