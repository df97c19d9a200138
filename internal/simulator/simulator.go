// Package simulator executes signals against historical bars and records the
// resulting trades and equity curve.
//
// The simulator is a per-instrument state machine over FLAT, LONG and SHORT.
// A signal produced on bar i never fills on bar i: entries and signal-driven
// exits execute at bar i+1's open, which keeps fills strictly causal.
package simulator

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/primtrade/prim-trading/internal/logger"
	"github.com/primtrade/prim-trading/internal/simulator/cost"
	"github.com/primtrade/prim-trading/internal/types"
	"github.com/primtrade/prim-trading/pkg/errors"
	"go.uber.org/zap"
)

// Config parameterizes one simulation run.
type Config struct {
	Symbol         string  `yaml:"symbol" json:"symbol" validate:"required"`
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital" validate:"gt=0"`
	// PositionSize is the fixed number of units per trade.
	PositionSize float64 `yaml:"position_size" json:"position_size" validate:"gt=0"`
	// EntryThreshold is the minimum signal strength to open a position.
	// Signals without a strength always pass.
	EntryThreshold float64 `yaml:"entry_threshold" json:"entry_threshold" validate:"gte=0,lte=1"`
	// StopLossPct and TakeProfitPct are fractions of the entry price,
	// e.g. 0.02 places a long stop two percent below the fill. None disables
	// the level.
	StopLossPct   optional.Option[float64] `yaml:"stop_loss_pct" json:"stop_loss_pct,omitempty"`
	TakeProfitPct optional.Option[float64] `yaml:"take_profit_pct" json:"take_profit_pct,omitempty"`
	// GapTolerance scales the allowed spacing between consecutive bars:
	// spacing beyond timeframe duration times this factor aborts the run.
	// Zero means the default factor of 1, exact spacing only.
	GapTolerance float64     `yaml:"gap_tolerance" json:"gap_tolerance" validate:"gte=0"`
	Cost         cost.Config `yaml:"cost" json:"cost"`
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid simulator config", err)
	}

	for name, pct := range map[string]optional.Option[float64]{
		"stop_loss_pct":   c.StopLossPct,
		"take_profit_pct": c.TakeProfitPct,
	} {
		if pct.IsSome() {
			v := pct.Unwrap()
			if v <= 0 || v >= 1 {
				return errors.Newf(errors.ErrCodeInvalidStopLevel,
					"%s must be a fraction in (0,1), got %.4f", name, v)
			}
		}
	}

	if c.GapTolerance != 0 && c.GapTolerance < 1 {
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"gap_tolerance %.2f would reject correctly spaced bars; use at least 1", c.GapTolerance)
	}

	return nil
}

type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingExit
	pendingEntry
)

// pendingAction is a decision taken at a bar's close that fills at the next
// bar's open.
type pendingAction struct {
	kind      pendingKind
	direction types.Direction
}

// Simulator executes one run. Not safe for concurrent use; parallel runs each
// get their own Simulator.
type Simulator struct {
	config Config
	cost   cost.Model
	trades *TradeLog
	logger *logger.Logger

	position optional.Option[types.Position]
	pending  pendingAction
	realized float64
	curve    types.EquityCurve
}

// New creates a Simulator writing closed trades to the given log.
func New(config Config, trades *TradeLog, l *logger.Logger) (*Simulator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	costModel, err := cost.FromConfig(config.Cost)
	if err != nil {
		return nil, err
	}

	if config.GapTolerance == 0 {
		config.GapTolerance = 1
	}

	return &Simulator{
		config:   config,
		cost:     costModel,
		trades:   trades,
		logger:   l,
		position: optional.None[types.Position](),
		pending:  pendingAction{kind: pendingNone},
	}, nil
}

// Run processes bars in order against their aligned signals. signals[i] is
// the signal produced at bar i's close; None means no usable features existed
// for that bar and the simulator holds its current state.
//
// The returned equity curve has one point per bar. Closed trades land in the
// trade log; an open position at the end of data is force-closed at the last
// close.
func (s *Simulator) Run(series types.Series, signals []optional.Option[types.Signal]) (types.EquityCurve, error) {
	if len(series.Bars) == 0 {
		return nil, errors.New(errors.ErrCodeBacktestNoData, "no bars to simulate")
	}

	if len(signals) != len(series.Bars) {
		return nil, errors.Newf(errors.ErrCodeSimulationFailed,
			"signal count %d does not match bar count %d", len(signals), len(series.Bars))
	}

	duration, err := series.Timeframe.Duration()
	if err != nil {
		return nil, err
	}

	for i, bar := range series.Bars {
		if i > 0 {
			if err := s.checkSpacing(series.Bars[i-1], bar, duration); err != nil {
				return nil, err
			}
		}

		// The previous bar's decision fills at this bar's open, before any
		// intrabar movement.
		if err := s.applyPending(bar); err != nil {
			return nil, err
		}

		if err := s.checkLevels(bar); err != nil {
			return nil, err
		}

		s.decide(signals[i])

		s.curve = append(s.curve, types.EquityPoint{
			Time:   bar.Time,
			Equity: s.equityAt(bar.Close),
		})
	}

	if err := s.forceClose(series.Bars[len(series.Bars)-1], duration); err != nil {
		return nil, err
	}

	return s.curve, nil
}

// checkSpacing fails the run when consecutive bars are out of order,
// duplicated, or further apart than the configured tolerance allows. Gaps are
// reported, never interpolated over.
func (s *Simulator) checkSpacing(prev, bar types.Bar, duration time.Duration) error {
	spacing := bar.Time.Sub(prev.Time)

	if spacing <= 0 {
		return errors.NewDataGapError(bar.Time, duration, spacing,
			fmt.Sprintf("bars out of order at %s: spacing %s", bar.Time, spacing))
	}

	limit := time.Duration(float64(duration) * s.config.GapTolerance)
	if spacing > limit {
		return errors.NewDataGapError(bar.Time, duration, spacing,
			fmt.Sprintf("gap at %s: spacing %s exceeds allowed %s", bar.Time, spacing, limit))
	}

	return nil
}

// applyPending executes the decision queued on the previous bar at this bar's
// open price.
func (s *Simulator) applyPending(bar types.Bar) error {
	action := s.pending
	s.pending = pendingAction{kind: pendingNone}

	switch action.kind {
	case pendingExit:
		if s.position.IsSome() {
			return s.closePosition(bar.Time, bar.Open, types.ExitReasonSignal)
		}
	case pendingEntry:
		if s.position.IsNone() {
			return s.openPosition(bar, action.direction)
		}
	}

	return nil
}

// checkLevels closes the position when a stop or target is touched intrabar.
// When both are touched on the same bar the stop fills, the conservative
// tie-break.
func (s *Simulator) checkLevels(bar types.Bar) error {
	if s.position.IsNone() {
		return nil
	}

	position := s.position.Unwrap()

	if position.StopLoss.IsSome() {
		stop := position.StopLoss.Unwrap()
		touched := (position.Direction == types.DirectionLong && bar.Low <= stop) ||
			(position.Direction == types.DirectionShort && bar.High >= stop)

		if touched {
			return s.closePosition(bar.Time, stop, types.ExitReasonStopLoss)
		}
	}

	if position.TakeProfit.IsSome() {
		target := position.TakeProfit.Unwrap()
		touched := (position.Direction == types.DirectionLong && bar.High >= target) ||
			(position.Direction == types.DirectionShort && bar.Low <= target)

		if touched {
			return s.closePosition(bar.Time, target, types.ExitReasonTakeProfit)
		}
	}

	return nil
}

// decide converts this bar's signal into next bar's action. An absent signal
// holds the current state.
func (s *Simulator) decide(signal optional.Option[types.Signal]) {
	if signal.IsNone() {
		return
	}

	sig := signal.Unwrap()

	if s.position.IsSome() {
		position := s.position.Unwrap()
		if sig.Direction == types.DirectionFlat || sig.Direction.Opposes(position.Direction) {
			s.pending = pendingAction{kind: pendingExit}
		}

		// Same-direction signals while open are ignored: no pyramiding.
		return
	}

	if sig.Direction == types.DirectionFlat {
		return
	}

	if sig.Strength.TakeOr(1) < s.config.EntryThreshold {
		return
	}

	s.pending = pendingAction{kind: pendingEntry, direction: sig.Direction}
}

func (s *Simulator) openPosition(bar types.Bar, direction types.Direction) error {
	entryFee := s.cost.Calculate(s.config.PositionSize, bar.Open)

	position := types.Position{
		Symbol:     s.config.Symbol,
		Direction:  direction,
		Size:       s.config.PositionSize,
		EntryTime:  bar.Time,
		EntryPrice: bar.Open,
		EntryFee:   entryFee,
		StopLoss:   levelFromPct(bar.Open, s.config.StopLossPct, -direction.Sign()),
		TakeProfit: levelFromPct(bar.Open, s.config.TakeProfitPct, direction.Sign()),
	}

	s.position = optional.Some(position)

	s.logger.Debug("position opened",
		zap.String("direction", string(direction)),
		zap.Time("time", bar.Time),
		zap.Float64("price", bar.Open),
	)

	return nil
}

func (s *Simulator) closePosition(exitTime time.Time, exitPrice float64, reason types.ExitReason) error {
	position := s.position.Unwrap()
	exitFee := s.cost.Calculate(position.Size, exitPrice)
	fees := position.EntryFee + exitFee

	trade := types.TradeRecord{
		Symbol:     position.Symbol,
		Direction:  position.Direction,
		Size:       position.Size,
		EntryTime:  position.EntryTime,
		EntryPrice: position.EntryPrice,
		ExitTime:   exitTime,
		ExitPrice:  exitPrice,
		ExitReason: reason,
		PnL:        types.CalculatePnL(position.Direction, position.Size, position.EntryPrice, exitPrice, fees),
		Fees:       fees,
	}

	recorded, err := s.trades.Append(trade)
	if err != nil {
		return err
	}

	s.realized += recorded.PnL
	s.position = optional.None[types.Position]()

	return nil
}

// forceClose closes any position left open when the data ends, at the last
// bar's close. The exit reason separates these from signal-driven exits so
// the analyzer can tell them apart.
func (s *Simulator) forceClose(last types.Bar, duration time.Duration) error {
	if s.position.IsNone() {
		return nil
	}

	return s.closePosition(last.Time.Add(duration), last.Close, types.ExitReasonEndOfData)
}

// equityAt marks the account to the given price: capital plus realized P&L
// plus unrealized P&L on any open position.
func (s *Simulator) equityAt(price float64) float64 {
	equity := s.config.InitialCapital + s.realized

	if s.position.IsSome() {
		position := s.position.Unwrap()
		equity += position.UnrealizedPnL(price)
	}

	return equity
}

// levelFromPct turns a percent distance into an absolute price level. sign
// +1 places the level above the entry, -1 below.
func levelFromPct(entry float64, pct optional.Option[float64], sign float64) optional.Option[float64] {
	if pct.IsNone() {
		return optional.None[float64]()
	}

	return optional.Some(entry * (1 + sign*pct.Unwrap()))
}
