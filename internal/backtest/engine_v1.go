package backtest

import (
	"context"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/primtrade/prim-trading/internal/analyzer"
	"github.com/primtrade/prim-trading/internal/feature"
	"github.com/primtrade/prim-trading/internal/logger"
	"github.com/primtrade/prim-trading/internal/model"
	"github.com/primtrade/prim-trading/internal/simulator"
	"github.com/primtrade/prim-trading/internal/types"
	"github.com/primtrade/prim-trading/pkg/errors"
	"go.uber.org/zap"
)

// engineV1 is the reference Engine implementation: a single-threaded,
// synchronous pipeline over one instrument.
type engineV1 struct {
	logger *logger.Logger

	config      optional.Option[Config]
	predictor   model.Predictor
	base        optional.Option[types.Series]
	higher      []types.Series
	initialized bool

	result *Result
}

// NewEngineV1 creates the v1 backtest engine.
func NewEngineV1(l *logger.Logger) Engine {
	return &engineV1{
		logger: l,
		config: optional.None[Config](),
		base:   optional.None[types.Series](),
	}
}

// Initialize implements Engine.
func (e *engineV1) Initialize(config string) error {
	parsed, err := ParseConfig(config)
	if err != nil {
		return err
	}

	if err := parsed.Validate(); err != nil {
		return err
	}

	e.config = optional.Some(parsed)
	e.initialized = true

	e.logger.Info("engine initialized",
		zap.String("symbol", parsed.Symbol),
		zap.String("base_timeframe", string(parsed.BaseTimeframe)),
	)

	return nil
}

// SetConfigPath implements Engine.
func (e *engineV1) SetConfigPath(path string) error {
	parsed, err := LoadConfig(path)
	if err != nil {
		return err
	}

	if err := parsed.Validate(); err != nil {
		return err
	}

	e.config = optional.Some(parsed)
	e.initialized = true

	return nil
}

// SetPredictor implements Engine.
func (e *engineV1) SetPredictor(predictor model.Predictor) error {
	if predictor == nil {
		return errors.New(errors.ErrCodeBacktestNoPredictor, "predictor is nil")
	}

	e.predictor = predictor

	return nil
}

// SetData implements Engine.
func (e *engineV1) SetData(base types.Series, higher ...types.Series) error {
	if err := base.Validate(); err != nil {
		return err
	}

	for _, h := range higher {
		if err := h.Validate(); err != nil {
			return err
		}
	}

	e.base = optional.Some(base)
	e.higher = higher

	return nil
}

// Run implements Engine. The pipeline is strictly ordered: features for all
// bars, one prediction per usable bar, then simulation and analysis. Identical
// inputs produce identical trades, equity curve and statistics.
func (e *engineV1) Run(ctx context.Context, callbacks LifecycleCallbacks) error {
	if !e.initialized || e.config.IsNone() {
		return errors.New(errors.ErrCodeBacktestInitFailed, "engine not initialized with a config")
	}

	if e.base.IsNone() {
		return errors.New(errors.ErrCodeBacktestNoData, "no market data set")
	}

	config := e.config.Unwrap()

	predictor, err := e.resolvePredictor(config)
	if err != nil {
		return err
	}

	base, higher, err := e.windowedData(config)
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	totalBars := len(base.Bars)

	e.logger.Info("run starting",
		zap.String("run_id", runID),
		zap.String("predictor", predictor.Name()),
		zap.Int("bars", totalBars),
	)

	if callbacks.OnRunStart != nil {
		if err := (*callbacks.OnRunStart)(runID, totalBars); err != nil {
			return err
		}
	}

	builder, err := feature.NewBuilder(config.Features)
	if err != nil {
		return err
	}

	vectors, err := builder.Build(base, higher...)
	if err != nil {
		return err
	}

	signals := make([]optional.Option[types.Signal], totalBars)

	for i, vector := range vectors {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(errors.ErrCodeBacktestCancelled, "run cancelled", err)
		}

		if vector.IsSome() {
			signal, err := predictor.Predict(vector.Unwrap())
			if err != nil {
				return err
			}

			signals[i] = optional.Some(signal)
		} else {
			signals[i] = optional.None[types.Signal]()
		}

		if callbacks.OnProcessData != nil {
			if err := (*callbacks.OnProcessData)(i+1, totalBars); err != nil {
				return err
			}
		}
	}

	trades, err := simulator.NewTradeLog(e.logger)
	if err != nil {
		return err
	}
	defer trades.Close()

	if err := trades.Initialize(); err != nil {
		return err
	}

	sim, err := simulator.New(simulator.Config{
		Symbol:         config.Symbol,
		InitialCapital: config.InitialCapital,
		PositionSize:   config.PositionSize,
		EntryThreshold: config.EntryThreshold,
		StopLossPct:    config.StopLossPct,
		TakeProfitPct:  config.TakeProfitPct,
		GapTolerance:   config.GapTolerance,
		Cost:           config.Cost,
	}, trades, e.logger)
	if err != nil {
		return err
	}

	curve, err := sim.Run(base, signals)
	if err != nil {
		return err
	}

	closed, err := trades.Trades()
	if err != nil {
		return err
	}

	report, err := analyzer.Analyze(closed, curve, analyzer.Config{
		RunID:        runID,
		Symbol:       config.Symbol,
		BarsPerYear:  config.BarsPerYear,
		PositionSize: config.PositionSize,
		FirstOpen:    base.Bars[0].Open,
		LastClose:    base.Bars[len(base.Bars)-1].Close,
	})
	if err != nil {
		return err
	}

	e.result = &Result{
		RunID:       runID,
		Trades:      closed,
		EquityCurve: curve,
		Report:      report,
	}

	e.logger.Info("run finished",
		zap.String("run_id", runID),
		zap.Int("trades", report.NumberOfTrades),
		zap.Float64("total_pnl", report.TotalPnL),
	)

	if callbacks.OnRunEnd != nil {
		(*callbacks.OnRunEnd)(e.result)
	}

	return nil
}

// Result implements Engine.
func (e *engineV1) Result() (*Result, error) {
	if e.result == nil {
		return nil, errors.New(errors.ErrCodeBacktestInitFailed, "no completed run")
	}

	return e.result, nil
}

// GetConfigSchema implements Engine.
func (e *engineV1) GetConfigSchema() (string, error) {
	config := EmptyConfig()

	return config.GenerateSchemaJSON()
}

// resolvePredictor prefers an explicitly set predictor over the
// config-selected one.
func (e *engineV1) resolvePredictor(config Config) (model.Predictor, error) {
	if e.predictor != nil {
		return e.predictor, nil
	}

	if config.Predictor.Type == "" {
		return nil, errors.New(errors.ErrCodeBacktestNoPredictor,
			"no predictor set and none selected in config")
	}

	return model.FromConfig(config.Predictor)
}

// windowedData clips the loaded series to the configured start and end times.
// Higher-timeframe series keep their history before the window start: their
// indicators need warm-up bars, and alignment already prevents any bar closing
// inside the window from leaking forward.
func (e *engineV1) windowedData(config Config) (types.Series, []types.Series, error) {
	base := e.base.Unwrap()

	if config.StartTime.IsNone() && config.EndTime.IsNone() {
		return base, e.higher, nil
	}

	clipped := types.Series{Timeframe: base.Timeframe}

	for _, bar := range base.Bars {
		if config.StartTime.IsSome() && bar.Time.Before(config.StartTime.Unwrap()) {
			continue
		}

		if config.EndTime.IsSome() && !bar.Time.Before(config.EndTime.Unwrap()) {
			continue
		}

		clipped.Bars = append(clipped.Bars, bar)
	}

	if len(clipped.Bars) == 0 {
		return types.Series{}, nil, errors.New(errors.ErrCodeBacktestNoData,
			"no bars inside the configured time window")
	}

	higher := e.higher

	if config.EndTime.IsSome() {
		end := config.EndTime.Unwrap()
		higher = make([]types.Series, 0, len(e.higher))

		for _, h := range e.higher {
			clippedHigher := types.Series{Timeframe: h.Timeframe}

			for _, bar := range h.Bars {
				if bar.Time.Before(end) {
					clippedHigher.Bars = append(clippedHigher.Bars, bar)
				}
			}

			higher = append(higher, clippedHigher)
		}
	}

	return clipped, higher, nil
}
