package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/aggregate"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/datasource"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/engine"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/optimizer"
	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/internal/version"
	"github.com/rxtech-lab/argo-crossover/pkg/marketdata/writer"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(cmd *cli.Command) (*logger.Logger, error) {
	level := zapcore.InfoLevel
	if cmd.Bool("debug") {
		level = zapcore.DebugLevel
	}

	return logger.NewLoggerWithLevel(level)
}

// loadConfig starts from the config file if one is given and applies flag overrides.
func loadConfig(cmd *cli.Command) (engine.Config, error) {
	config := engine.DefaultConfig()

	if path := cmd.String("config"); path != "" {
		loaded, err := engine.LoadConfig(path)
		if err != nil {
			return engine.Config{}, err
		}

		config = loaded
	}

	if cmd.IsSet("data") {
		config.DataPath = cmd.String("data")
	}

	if cmd.IsSet("interval") {
		interval, err := aggregate.ParseInterval(cmd.String("interval"))
		if err != nil {
			return engine.Config{}, err
		}

		config.Interval = interval
	}

	if cmd.IsSet("results") {
		config.ResultsFolder = cmd.String("results")
	}

	if cmd.IsSet("sequential") {
		config.Sequential = cmd.Bool("sequential")
	}

	return config, nil
}

// runAction is the core logic executed by the run command.
func runAction(ctx context.Context, cmd *cli.Command) error {
	appLogger, err := newLogger(cmd)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer appLogger.Sync()

	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	source, err := datasource.NewTickSource("", appLogger)
	if err != nil {
		return err
	}
	defer source.Close()

	runner, err := engine.NewRunner(config, source, appLogger)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar

	onBarsReady := engine.OnBarsReadyCallback(func(totalBars int, trainingBars int, testBars int) error {
		appLogger.Info("Bars ready",
			zap.Int("bars", totalBars),
			zap.Int("training_bars", trainingBars),
			zap.Int("test_bars", testBars),
		)

		candidates := 0

		for _, params := range config.Grid.Candidates() {
			if optimizer.ValidParams(params) {
				candidates++
			}
		}

		bar = progressbar.NewOptions(candidates,
			progressbar.OptionSetDescription("Evaluating candidates"),
			progressbar.OptionShowCount(),
		)

		return nil
	})
	onEvaluated := optimizer.OnCandidateEvaluatedCallback(func(done int, total int) {
		if bar != nil {
			_ = bar.Add(1)
		}
	})

	report, err := runner.Run(ctx, engine.LifecycleCallbacks{
		OnBarsReady:          &onBarsReady,
		OnCandidateEvaluated: &onEvaluated,
	})
	if bar != nil {
		_ = bar.Finish()
	}

	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	printReport(report)

	return nil
}

func printReport(report types.SearchReport) {
	fmt.Println()
	fmt.Printf("Run %s (%s, %s bars, %d candidates)\n", report.ID, report.Symbol, report.Interval, report.Candidates)
	fmt.Printf("Training benchmark:    %.2f\n", report.Training.Benchmark)
	fmt.Printf("Best training profit:  %.2f\n", report.Training.Profit)
	fmt.Printf("Best parameters:       period_short=%d period_long=%d\n", report.Best.PeriodShort, report.Best.PeriodLong)
	fmt.Printf("Test benchmark:        %.2f\n", report.Test.Benchmark)
	fmt.Printf("Test profit:           %.2f (%d positions)\n", report.Test.Profit, report.Test.NumberOfPositions)
}

// resampleAction writes the OHLC bars of a tick file to parquet.
func resampleAction(ctx context.Context, cmd *cli.Command) error {
	appLogger, err := newLogger(cmd)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer appLogger.Sync()

	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	window := engine.Window{Start: optional.None[time.Time](), End: optional.None[time.Time]()}
	if cmd.IsSet("start") {
		window.Start = optional.Some(cmd.Timestamp("start").UTC())
	}

	if cmd.IsSet("end") {
		window.End = optional.Some(cmd.Timestamp("end").UTC())
	}

	config.Training = window
	config.Test = window

	source, err := datasource.NewTickSource("", appLogger)
	if err != nil {
		return err
	}
	defer source.Close()

	runner, err := engine.NewRunner(config, source, appLogger)
	if err != nil {
		return err
	}

	bars, err := runner.LoadBars(ctx)
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if err := writer.WriteBars(output, bars); err != nil {
		return fmt.Errorf("failed to write bars: %w", err)
	}

	appLogger.Info("Bars written", zap.String("output", output), zap.Int("bars", len(bars)))

	return nil
}

func schemaAction(_ context.Context, _ *cli.Command) error {
	config := engine.DefaultConfig()

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Println(schema)

	return nil
}

func sharedFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML backtest config",
		},
		&cli.StringFlag{
			Name:    "data",
			Aliases: []string{"d"},
			Usage:   "Tick file (headerless unixtime,price,amount CSV or parquet)",
		},
		&cli.StringFlag{
			Name:    "interval",
			Aliases: []string{"i"},
			Usage:   "Bar interval such as `1h`, 15min or 1d",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "backtest",
		Usage:   "Moving average crossover backtest with parameter grid search",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Search the parameter grid on the training window and evaluate the winner on the test window",
				Flags: append(sharedFlags(),
					&cli.StringFlag{
						Name:    "results",
						Aliases: []string{"r"},
						Usage:   "Folder receiving report.yaml, bars.parquet and equity.parquet",
					},
					&cli.BoolFlag{
						Name:  "sequential",
						Usage: "Evaluate candidates one at a time",
					},
				),
				Action: runAction,
			},
			{
				Name:  "resample",
				Usage: "Resample a tick file into OHLC bars and write them to parquet",
				Flags: append(sharedFlags(),
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Output parquet file",
						Required: true,
					},
					&cli.TimestampFlag{
						Name:  "start",
						Usage: "Inclusive start in `YYYY-MM-DD` format",
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02", time.RFC3339},
						},
					},
					&cli.TimestampFlag{
						Name:  "end",
						Usage: "Exclusive end in `YYYY-MM-DD` format",
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02", time.RFC3339},
						},
					},
				),
				Action: resampleAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the backtest config",
				Action: schemaAction,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
