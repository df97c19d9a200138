// Package backtest orchestrates a full run: features, predictions, simulated
// execution and analysis, in a single pass over the data in strictly
// increasing timestamp order.
package backtest

import (
	"context"

	"github.com/primtrade/prim-trading/internal/model"
	"github.com/primtrade/prim-trading/internal/types"
)

// Lifecycle callback types for run phases. A callback returning an error
// aborts the run.

// OnRunStartCallback is called once the run is set up, before the first bar.
// runID uniquely identifies this run.
type OnRunStartCallback func(runID string, totalBars int) error

// OnProcessDataCallback is called for each bar processed.
type OnProcessDataCallback func(current int, total int) error

// OnRunEndCallback is called when the run completes successfully.
type OnRunEndCallback func(result *Result)

// LifecycleCallbacks holds the lifecycle callbacks for a run. All fields are
// pointers; nil means no callback is invoked.
type LifecycleCallbacks struct {
	OnRunStart    *OnRunStartCallback
	OnProcessData *OnProcessDataCallback
	OnRunEnd      *OnRunEndCallback
}

// Result is everything a completed run emits. Trades and the equity curve are
// handed back for optional persistence; the report is computed once and
// immutable.
type Result struct {
	RunID       string
	Trades      []types.TradeRecord
	EquityCurve types.EquityCurve
	Report      types.PerformanceReport
}

// Engine runs backtests. Implementations are not safe for concurrent use;
// parallelism happens across engines, never within one.
type Engine interface {
	// Initialize configures the engine from YAML config content.
	Initialize(config string) error
	// SetConfigPath configures the engine from a YAML config file.
	SetConfigPath(path string) error
	// SetPredictor overrides the config-selected predictor, e.g. with an
	// externally fitted model.
	SetPredictor(predictor model.Predictor) error
	// SetData hands the engine its in-memory bar series. The base series
	// drives the simulation; higher series feed multi-timeframe features.
	SetData(base types.Series, higher ...types.Series) error
	// Run executes the backtest. The context cancels between bars.
	Run(ctx context.Context, callbacks LifecycleCallbacks) error
	// Result returns the output of the last completed run.
	Result() (*Result, error)
	// GetConfigSchema returns the JSON schema of the run configuration.
	GetConfigSchema() (string, error)
}
