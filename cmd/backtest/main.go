package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/primtrade/prim-trading/internal/backtest"
	"github.com/primtrade/prim-trading/internal/datasource"
	"github.com/primtrade/prim-trading/internal/feature"
	"github.com/primtrade/prim-trading/internal/logger"
	"github.com/primtrade/prim-trading/internal/types"
	"github.com/primtrade/prim-trading/mocks"
)

// backtestAction loads config and data, runs the engine with a progress bar,
// and writes the run artifacts.
func backtestAction(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	dataPath := cmd.String("data")
	higherPaths := cmd.StringSlice("higher-data")
	outputDir := cmd.String("output")
	syntheticBars := cmd.Int("synthetic")
	seed := cmd.Int("seed")

	l, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer l.Sync()

	config, err := backtest.LoadConfig(configPath)
	if err != nil {
		return err
	}

	base, higher, err := loadData(config, dataPath, higherPaths, int(syntheticBars), int64(seed))
	if err != nil {
		return err
	}

	engine := backtest.NewEngineV1(l)
	if err := engine.SetConfigPath(configPath); err != nil {
		return err
	}

	if err := engine.SetData(base, higher...); err != nil {
		return err
	}

	var bar *progressbar.ProgressBar

	onStart := backtest.OnRunStartCallback(func(runID string, totalBars int) error {
		log.Printf("Run %s starting over %d bars", runID, totalBars)
		bar = progressbar.Default(int64(totalBars))

		return nil
	})
	onProcess := backtest.OnProcessDataCallback(func(current, total int) error {
		return bar.Set(current)
	})

	err = engine.Run(ctx, backtest.LifecycleCallbacks{
		OnRunStart:    &onStart,
		OnProcessData: &onProcess,
	})
	if err != nil {
		return err
	}

	result, err := engine.Result()
	if err != nil {
		return err
	}

	writer, err := datasource.NewCSVWriter(outputDir, result.RunID)
	if err != nil {
		return err
	}

	if err := writer.WriteTrades(result.Trades); err != nil {
		return err
	}

	if err := writer.WriteEquityCurve(result.EquityCurve); err != nil {
		return err
	}

	if err := writer.WriteReport(result.Report); err != nil {
		return err
	}

	report := result.Report
	log.Printf("Run %s complete: %d trades, total P&L %.2f, results in %s",
		result.RunID, report.NumberOfTrades, report.TotalPnL, writer.Dir())

	return nil
}

// loadData assembles the base and higher-timeframe series, either from CSV
// files or synthetically. Higher series missing a file are resampled from the
// base series.
func loadData(config backtest.Config, dataPath string, higherPaths []string, syntheticBars int, seed int64) (types.Series, []types.Series, error) {
	var base types.Series

	switch {
	case dataPath != "":
		loaded, err := datasource.LoadSeriesCSV(dataPath, config.BaseTimeframe)
		if err != nil {
			return types.Series{}, nil, err
		}

		base = loaded
	case syntheticBars > 0:
		generatorConfig := mocks.DefaultConfig()
		generatorConfig.Timeframe = config.BaseTimeframe
		generatorConfig.Count = syntheticBars

		generated, err := mocks.NewDataGenerator(seed).Generate(generatorConfig)
		if err != nil {
			return types.Series{}, nil, err
		}

		base = generated
	default:
		return types.Series{}, nil, fmt.Errorf("either --data or --synthetic is required")
	}

	supplied := make(map[types.Timeframe]types.Series)

	for _, entry := range higherPaths {
		tf, path, ok := strings.Cut(entry, "=")
		if !ok {
			return types.Series{}, nil, fmt.Errorf("invalid --higher-data %q, expected TIMEFRAME=PATH", entry)
		}

		timeframe, err := types.ParseTimeframe(tf)
		if err != nil {
			return types.Series{}, nil, err
		}

		series, err := datasource.LoadSeriesCSV(path, timeframe)
		if err != nil {
			return types.Series{}, nil, err
		}

		supplied[timeframe] = series
	}

	// Every feature timeframe above the base needs a series: use the supplied
	// file when given, otherwise resample the base data.
	var higher []types.Series

	seen := make(map[types.Timeframe]bool)

	for _, spec := range config.Features.Specs {
		if spec.Timeframe == config.BaseTimeframe || seen[spec.Timeframe] {
			continue
		}

		seen[spec.Timeframe] = true

		if series, ok := supplied[spec.Timeframe]; ok {
			higher = append(higher, series)

			continue
		}

		resampled, err := feature.Resample(base, spec.Timeframe)
		if err != nil {
			return types.Series{}, nil, err
		}

		higher = append(higher, resampled)
	}

	return base, higher, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Run a backtest over historical or synthetic market data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to the YAML run configuration",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to the base-timeframe OHLCV CSV file",
			},
			&cli.StringSliceFlag{
				Name:  "higher-data",
				Usage: "Higher-timeframe CSV as TIMEFRAME=PATH, repeatable (e.g. H4=data/h4.csv)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory for run artifacts",
				Value:   "results",
			},
			&cli.IntFlag{
				Name:  "synthetic",
				Usage: "Generate this many synthetic bars instead of loading --data",
			},
			&cli.IntFlag{
				Name:  "seed",
				Usage: "Seed for synthetic data generation",
				Value: 42,
			},
		},
		Action: backtestAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
