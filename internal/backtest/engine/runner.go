package engine

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/aggregate"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/datasource"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/optimizer"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/profit"
	"github.com/rxtech-lab/argo-crossover/internal/indicator"
	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/internal/version"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/rxtech-lab/argo-crossover/pkg/marketdata/writer"
	"go.uber.org/zap"
)

const (
	ReportFileName = "report.yaml"
	BarsFileName   = "bars.parquet"
	EquityFileName = "equity.parquet"
)

// Runner loads ticks, builds bars, searches the parameter grid on the training
// window and evaluates the winner on the test window.
type Runner struct {
	config Config
	source datasource.TickSource
	log    *logger.Logger
}

func NewRunner(config Config, source datasource.TickSource, log *logger.Logger) (*Runner, error) {
	if source == nil {
		return nil, errors.New(errors.ErrCodeBacktestNoDatasource, "no tick source set")
	}

	if config.DataPath == "" {
		return nil, errors.New(errors.ErrCodeBacktestNoDataPath, "no data path set")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Runner{
		config: config,
		source: source,
		log:    log,
	}, nil
}

// Config returns the validated configuration.
func (r *Runner) Config() Config {
	return r.config
}

// LoadBars reads the ticks covering both windows and resamples them.
func (r *Runner) LoadBars(ctx context.Context) ([]types.MarketData, error) {
	return r.loadBars(ctx, "", LifecycleCallbacks{})
}

func (r *Runner) loadBars(ctx context.Context, runID string, callbacks LifecycleCallbacks) ([]types.MarketData, error) {
	if err := r.source.Initialize(r.config.DataPath); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to initialize tick source for %s", r.config.DataPath)
	}

	start, end := r.loadRange()

	count, err := r.source.Count(start, end)
	if err != nil {
		return nil, err
	}

	if callbacks.OnRunStart != nil {
		if err := (*callbacks.OnRunStart)(runID, count); err != nil {
			return nil, err
		}
	}

	if count == 0 {
		return nil, errors.Newf(errors.ErrCodeNoDataFound, "no ticks in %s for the configured windows", r.config.DataPath)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ticks, err := r.source.ReadTicks(start, end)
	if err != nil {
		return nil, err
	}

	deduplicated, err := aggregate.Deduplicate(ticks)
	if err != nil {
		return nil, err
	}

	bars, err := aggregate.Resample(deduplicated, r.config.Interval)
	if err != nil {
		return nil, err
	}

	r.log.Info("Loaded bars",
		zap.String("data", r.config.DataPath),
		zap.Int("ticks", len(ticks)),
		zap.Int("unique_ticks", len(deduplicated)),
		zap.Int("bars", len(bars)),
		zap.String("interval", r.config.Interval.String()),
	)

	return bars, nil
}

// loadRange is the smallest range covering both windows. A bound is open if
// either window leaves it open.
func (r *Runner) loadRange() (optional.Option[time.Time], optional.Option[time.Time]) {
	start := optional.None[time.Time]()
	if r.config.Training.Start.IsSome() && r.config.Test.Start.IsSome() {
		start = optional.Some(earliest(r.config.Training.Start.Unwrap(), r.config.Test.Start.Unwrap()))
	}

	end := optional.None[time.Time]()
	if r.config.Training.End.IsSome() && r.config.Test.End.IsSome() {
		end = optional.Some(latest(r.config.Training.End.Unwrap(), r.config.Test.End.Unwrap()))
	}

	return start, end
}

// Run executes the whole backtest. Results are written to the results folder
// when one is configured.
func (r *Runner) Run(ctx context.Context, callbacks LifecycleCallbacks) (report types.SearchReport, err error) {
	runID := uuid.New().String()

	if callbacks.OnRunEnd != nil {
		defer func() {
			(*callbacks.OnRunEnd)(report, err)
		}()
	}

	bars, err := r.loadBars(ctx, runID, callbacks)
	if err != nil {
		return types.SearchReport{}, err
	}

	training := aggregate.ClosePrices(aggregate.SliceByTime(bars, r.config.Training.Start, r.config.Training.End))
	test := aggregate.ClosePrices(aggregate.SliceByTime(bars, r.config.Test.Start, r.config.Test.End))

	if len(training) == 0 {
		return types.SearchReport{}, errors.NewInsufficientDataErrorf(1, 0, "training window has no bars")
	}

	if len(test) == 0 {
		return types.SearchReport{}, errors.NewInsufficientDataErrorf(1, 0, "test window has no bars")
	}

	if callbacks.OnBarsReady != nil {
		if err := (*callbacks.OnBarsReady)(len(bars), len(training), len(test)); err != nil {
			return types.SearchReport{}, err
		}
	}

	if err := ctx.Err(); err != nil {
		return types.SearchReport{}, err
	}

	fee := r.config.Fee.Handler()
	opts := []optimizer.SearcherOption{
		optimizer.WithCloseThreshold(r.config.CloseThreshold),
		optimizer.WithParallel(!r.config.Sequential),
		optimizer.WithLogger(r.log),
	}

	if callbacks.OnCandidateEvaluated != nil {
		opts = append(opts, optimizer.WithOnCandidateEvaluated(*callbacks.OnCandidateEvaluated))
	}

	result, err := optimizer.NewSearcher(r.config.InitialBalance, fee, opts...).
		Search(ctx, training, test, r.config.Grid.Candidates())
	if err != nil {
		return types.SearchReport{}, err
	}

	report = types.SearchReport{
		ID:             runID,
		Timestamp:      time.Now().UTC(),
		Symbol:         r.config.Symbol,
		Interval:       r.config.Interval.String(),
		InitialBalance: r.config.InitialBalance,
		Candidates:     result.Candidates,
		Best:           result.Best,
		Training:       result.Training,
		Test:           result.Test,
		DataPath:       r.config.DataPath,
		EngineVersion:  version.GetVersion(),
	}

	r.log.Info("Backtest finished",
		zap.String("run_id", runID),
		zap.Int("period_short", report.Best.PeriodShort),
		zap.Int("period_long", report.Best.PeriodLong),
		zap.Float64("training_benchmark", report.Training.Benchmark),
		zap.Float64("training_profit", report.Training.Profit),
		zap.Float64("test_benchmark", report.Test.Benchmark),
		zap.Float64("test_profit", report.Test.Profit),
	)

	if r.config.ResultsFolder == "" {
		return report, nil
	}

	if err := r.writeResults(ctx, report, bars, test, result); err != nil {
		return types.SearchReport{}, err
	}

	return report, nil
}

// writeResults checks ctx before each file, so a cancelled run may leave a
// partially written folder.
func (r *Runner) writeResults(ctx context.Context, report types.SearchReport, bars []types.MarketData, test []types.PricePoint, result optimizer.Result) error {
	folder := r.config.ResultsFolder
	if err := os.MkdirAll(folder, 0755); err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to create results folder %s", folder)
	}

	if err := types.WriteSearchReport(filepath.Join(folder, ReportFileName), report); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to write report", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := writer.WriteBars(filepath.Join(folder, BarsFileName), bars); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to write bars", err)
	}

	// seeded with the first close so the curve overlays the price series
	curve, err := profit.EquityCurve(result.TestPositions, test, test[0].Price, r.config.Fee.Handler())
	if err != nil {
		return err
	}

	rows, err := EquityRows(curve, test, result.Best)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := writer.WriteEquity(filepath.Join(folder, EquityFileName), rows); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to write equity curve", err)
	}

	r.log.Debug("Results written", zap.String("folder", folder))

	return nil
}

// EquityRows joins an equity curve with its price series and the short and long
// moving averages of params. curve and series must share timestamps.
func EquityRows(curve []types.EquityPoint, series []types.PricePoint, params types.StrategyParams) ([]writer.EquityRow, error) {
	if len(curve) != len(series) {
		return nil, errors.Newf(errors.ErrCodeDataIntegrity, "equity curve has %d points but series has %d", len(curve), len(series))
	}

	short, err := averagesByTime(series, params.PeriodShort)
	if err != nil {
		return nil, err
	}

	long, err := averagesByTime(series, params.PeriodLong)
	if err != nil {
		return nil, err
	}

	rows := make([]writer.EquityRow, len(curve))
	for i, point := range curve {
		key := series[i].Time.UnixNano()

		row := writer.EquityRow{
			Time:    point.Time,
			Price:   series[i].Price,
			Balance: point.Balance,
			ShortMA: optional.None[float64](),
			LongMA:  optional.None[float64](),
		}

		if v, ok := short[key]; ok {
			row.ShortMA = optional.Some(v)
		}

		if v, ok := long[key]; ok {
			row.LongMA = optional.Some(v)
		}

		rows[i] = row
	}

	return rows, nil
}

func averagesByTime(series []types.PricePoint, period int) (map[int64]float64, error) {
	averages, err := indicator.MovingAverage(series, period)
	if err != nil {
		return nil, err
	}

	byTime := make(map[int64]float64, len(averages))
	for _, p := range averages {
		byTime[p.Time.UnixNano()] = p.Price
	}

	return byTime, nil
}

func earliest(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}

	return b
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}

	return b
}
