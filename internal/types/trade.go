package types

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// ExitReason records why a position was closed.
type ExitReason string

const (
	// ExitReasonSignal means an opposing or flat signal closed the position.
	ExitReasonSignal ExitReason = "signal"
	// ExitReasonStopLoss means the stop level was touched intrabar.
	ExitReasonStopLoss ExitReason = "stop_loss"
	// ExitReasonTakeProfit means the target level was touched intrabar.
	ExitReasonTakeProfit ExitReason = "take_profit"
	// ExitReasonEndOfData means the dataset ended with the position open and
	// it was force-closed at the last available price.
	ExitReasonEndOfData ExitReason = "end_of_data"
)

// Position is an open holding. The simulator keeps at most one open position
// per instrument at a time.
type Position struct {
	Symbol     string                   `yaml:"symbol"`
	Direction  Direction                `yaml:"direction"`
	Size       float64                  `yaml:"size"`
	EntryTime  time.Time                `yaml:"entry_time"`
	EntryPrice float64                  `yaml:"entry_price"`
	EntryFee   float64                  `yaml:"entry_fee"`
	StopLoss   optional.Option[float64] `yaml:"stop_loss"`
	TakeProfit optional.Option[float64] `yaml:"take_profit"`
}

// UnrealizedPnL marks the open position to the given price, before exit costs.
func (p *Position) UnrealizedPnL(price float64) float64 {
	priceDiff := decimal.NewFromFloat(price).Sub(decimal.NewFromFloat(p.EntryPrice))
	gross := priceDiff.
		Mul(decimal.NewFromFloat(p.Direction.Sign())).
		Mul(decimal.NewFromFloat(p.Size))
	result, _ := gross.Sub(decimal.NewFromFloat(p.EntryFee)).Float64()

	return result
}

// TradeRecord is a closed position. Immutable once appended to the trade log.
type TradeRecord struct {
	ID         string     `csv:"id" yaml:"id"`
	Symbol     string     `csv:"symbol" yaml:"symbol"`
	Direction  Direction  `csv:"direction" yaml:"direction"`
	Size       float64    `csv:"size" yaml:"size"`
	EntryTime  time.Time  `csv:"entry_time" yaml:"entry_time"`
	EntryPrice float64    `csv:"entry_price" yaml:"entry_price"`
	ExitTime   time.Time  `csv:"exit_time" yaml:"exit_time"`
	ExitPrice  float64    `csv:"exit_price" yaml:"exit_price"`
	ExitReason ExitReason `csv:"exit_reason" yaml:"exit_reason"`
	// PnL is the realized profit and loss net of fees:
	// (exit_price - entry_price) * direction_sign * size - fees.
	PnL float64 `csv:"pnl" yaml:"pnl"`
	// Fees is the total transaction cost paid at entry and exit.
	Fees float64 `csv:"fees" yaml:"fees"`
}

// HoldingTime returns how long the position was held.
func (t *TradeRecord) HoldingTime() time.Duration {
	return t.ExitTime.Sub(t.EntryTime)
}

// CalculatePnL computes realized profit and loss for a closed position using
// decimal arithmetic: (exit - entry) * direction_sign * size - fees.
func CalculatePnL(direction Direction, size, entryPrice, exitPrice, fees float64) float64 {
	priceDiff := decimal.NewFromFloat(exitPrice).Sub(decimal.NewFromFloat(entryPrice))
	gross := priceDiff.
		Mul(decimal.NewFromFloat(direction.Sign())).
		Mul(decimal.NewFromFloat(size))
	result, _ := gross.Sub(decimal.NewFromFloat(fees)).Float64()

	return result
}
