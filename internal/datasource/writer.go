package datasource

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/primtrade/prim-trading/internal/types"
	"github.com/primtrade/prim-trading/pkg/errors"
)

// ResultWriter persists the artifacts of one completed run.
type ResultWriter interface {
	// WriteTrades writes the closed trade log.
	WriteTrades(trades []types.TradeRecord) error
	// WriteEquityCurve writes the per-bar equity points.
	WriteEquityCurve(curve types.EquityCurve) error
	// WriteReport writes the performance report.
	WriteReport(report types.PerformanceReport) error
	// Dir returns the directory the artifacts land in.
	Dir() string
}

// CSVWriter writes trades and the equity curve as CSV and the report as YAML
// into one directory per run.
type CSVWriter struct {
	runDir string
}

// NewCSVWriter creates the run directory under baseDir, named by the run ID.
func NewCSVWriter(baseDir, runID string) (*CSVWriter, error) {
	runDir := filepath.Join(baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeUnknown, err, "cannot create results directory %s", runDir)
	}

	return &CSVWriter{runDir: runDir}, nil
}

// Dir implements ResultWriter.
func (w *CSVWriter) Dir() string {
	return w.runDir
}

// WriteTrades implements ResultWriter.
func (w *CSVWriter) WriteTrades(trades []types.TradeRecord) error {
	path := filepath.Join(w.runDir, "trades.csv")

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeUnknown, err, "cannot create %s", path)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&trades, file); err != nil {
		return errors.Wrapf(errors.ErrCodeUnknown, err, "cannot write trades to %s", path)
	}

	return nil
}

// WriteEquityCurve implements ResultWriter.
func (w *CSVWriter) WriteEquityCurve(curve types.EquityCurve) error {
	path := filepath.Join(w.runDir, "equity_curve.csv")

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeUnknown, err, "cannot create %s", path)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"time", "equity"}); err != nil {
		return errors.Wrapf(errors.ErrCodeUnknown, err, "cannot write equity curve header")
	}

	for _, point := range curve {
		record := []string{
			point.Time.UTC().Format(time.RFC3339),
			strconv.FormatFloat(point.Equity, 'f', -1, 64),
		}

		if err := writer.Write(record); err != nil {
			return errors.Wrapf(errors.ErrCodeUnknown, err, "cannot write equity curve row")
		}
	}

	return nil
}

// WriteReport implements ResultWriter.
func (w *CSVWriter) WriteReport(report types.PerformanceReport) error {
	return types.WritePerformanceReport(filepath.Join(w.runDir, "report.yaml"), report)
}
