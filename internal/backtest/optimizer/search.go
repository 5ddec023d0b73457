package optimizer

import (
	"context"
	"sync/atomic"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/commission_fee"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/profit"
	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/position"
	"github.com/rxtech-lab/argo-crossover/internal/strategy"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/samber/lo"
	lop "github.com/samber/lo/parallel"
	"go.uber.org/zap"
)

// OnCandidateEvaluatedCallback is called after each candidate evaluation. It may be
// called from several goroutines at once when the search runs in parallel.
type OnCandidateEvaluatedCallback func(done int, total int)

// Evaluation is the outcome of running one parameter pair over one series.
type Evaluation struct {
	Params    types.StrategyParams
	Profit    float64
	Positions []types.Position
}

// Result holds the selected pair and its training and test performance.
type Result struct {
	Best          types.StrategyParams
	Training      types.EvaluationResult
	Test          types.EvaluationResult
	Candidates    int
	TestPositions []types.Position
	// Evaluations holds every valid candidate's training evaluation in enumeration order.
	Evaluations []Evaluation
}

// Searcher runs a grid search of SMA crossover parameters.
type Searcher struct {
	initialBalance float64
	fee            commission_fee.CommissionFee
	closeThreshold float64
	parallel       bool
	log            *logger.Logger
	onEvaluated    optional.Option[OnCandidateEvaluatedCallback]
}

type SearcherOption func(*Searcher)

// WithCloseThreshold sets the strategy close threshold used for every candidate.
func WithCloseThreshold(threshold float64) SearcherOption {
	return func(s *Searcher) {
		s.closeThreshold = threshold
	}
}

// WithParallel toggles evaluating candidates concurrently. On by default.
func WithParallel(parallel bool) SearcherOption {
	return func(s *Searcher) {
		s.parallel = parallel
	}
}

func WithLogger(log *logger.Logger) SearcherOption {
	return func(s *Searcher) {
		s.log = log
	}
}

func WithOnCandidateEvaluated(callback OnCandidateEvaluatedCallback) SearcherOption {
	return func(s *Searcher) {
		s.onEvaluated = optional.Some(callback)
	}
}

func NewSearcher(initialBalance float64, fee commission_fee.CommissionFee, opts ...SearcherOption) *Searcher {
	s := &Searcher{
		initialBalance: initialBalance,
		fee:            fee,
		closeThreshold: strategy.DefaultCloseThreshold,
		parallel:       true,
		log:            logger.NewNopLogger(),
		onEvaluated:    optional.None[OnCandidateEvaluatedCallback](),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Evaluate runs a fresh strategy and position tracker for params over series and
// returns the final balance.
func (s *Searcher) Evaluate(params types.StrategyParams, series []types.PricePoint) (Evaluation, error) {
	crossover, err := strategy.NewSimpleMovingAverageCrossover(
		params.PeriodShort, params.PeriodLong, strategy.WithCloseThreshold(s.closeThreshold))
	if err != nil {
		return Evaluation{}, err
	}

	signals, err := crossover.GenerateSignals(series)
	if err != nil {
		return Evaluation{}, err
	}

	positions := position.Replay(signals)

	balance, err := profit.FinalBalance(positions, s.initialBalance, s.fee)
	if err != nil {
		return Evaluation{}, err
	}

	return Evaluation{Params: params, Profit: balance, Positions: positions}, nil
}

// Search evaluates every valid candidate on train, keeps the pair with the
// strictly greatest profit and re-runs it on test.
//
// Pairs with long <= short are skipped. Ties go to the pair enumerated first,
// also when candidates are evaluated in parallel, since the reduction walks the
// results in enumeration order. Candidates not yet started when ctx is done are
// skipped and ctx's error is returned.
func (s *Searcher) Search(ctx context.Context, train, test []types.PricePoint, candidates []types.StrategyParams) (Result, error) {
	valid := lo.Filter(candidates, func(p types.StrategyParams, _ int) bool {
		return ValidParams(p)
	})

	if len(valid) == 0 {
		return Result{}, errors.Newf(errors.ErrCodeNoValidCandidates,
			"none of the %d candidates has 0 < period_short < period_long", len(candidates))
	}

	trainBenchmark, err := profit.BuyAndHold(train, s.initialBalance)
	if err != nil {
		return Result{}, errors.Annotatef(errors.ErrCodeDataIntegrity, err, "training series")
	}

	testBenchmark, err := profit.BuyAndHold(test, s.initialBalance)
	if err != nil {
		return Result{}, errors.Annotatef(errors.ErrCodeDataIntegrity, err, "test series")
	}

	s.log.Debug("Starting parameter search",
		zap.Int("candidates", len(valid)),
		zap.Int("skipped", len(candidates)-len(valid)),
		zap.Int("training_points", len(train)),
		zap.Bool("parallel", s.parallel),
	)

	evaluations, err := s.evaluateAll(ctx, valid, train)
	if err != nil {
		return Result{}, err
	}

	best := evaluations[0]
	for _, evaluation := range evaluations[1:] {
		if evaluation.Profit > best.Profit {
			best = evaluation
		}
	}

	s.log.Info("Best training parameters",
		zap.Int("period_short", best.Params.PeriodShort),
		zap.Int("period_long", best.Params.PeriodLong),
		zap.Float64("training_profit", best.Profit),
		zap.Float64("training_benchmark", trainBenchmark),
	)

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	testEvaluation, err := s.Evaluate(best.Params, test)
	if err != nil {
		return Result{}, errors.Annotatef(errors.ErrCodeInvalidParameter, err,
			"failed to evaluate %s on the test series", best.Params)
	}

	s.log.Info("Test evaluation",
		zap.Float64("test_profit", testEvaluation.Profit),
		zap.Float64("test_benchmark", testBenchmark),
		zap.Int("positions", len(testEvaluation.Positions)),
	)

	return Result{
		Best: best.Params,
		Training: types.EvaluationResult{
			Profit:            best.Profit,
			Benchmark:         trainBenchmark,
			NumberOfPositions: len(best.Positions),
			Start:             train[0].Time,
			End:               train[len(train)-1].Time,
		},
		Test: types.EvaluationResult{
			Profit:            testEvaluation.Profit,
			Benchmark:         testBenchmark,
			NumberOfPositions: len(testEvaluation.Positions),
			Start:             test[0].Time,
			End:               test[len(test)-1].Time,
		},
		Candidates:    len(valid),
		TestPositions: testEvaluation.Positions,
		Evaluations:   evaluations,
	}, nil
}

type outcome struct {
	evaluation Evaluation
	err        error
}

func (s *Searcher) evaluateAll(ctx context.Context, candidates []types.StrategyParams, series []types.PricePoint) ([]Evaluation, error) {
	var done atomic.Int64

	total := len(candidates)
	run := func(params types.StrategyParams, _ int) outcome {
		if err := ctx.Err(); err != nil {
			return outcome{err: err}
		}

		evaluation, err := s.Evaluate(params, series)

		finished := int(done.Add(1))
		if s.onEvaluated.IsSome() {
			s.onEvaluated.Unwrap()(finished, total)
		}

		return outcome{evaluation: evaluation, err: err}
	}

	var outcomes []outcome
	if s.parallel {
		outcomes = lop.Map(candidates, run)
	} else {
		outcomes = lo.Map(candidates, run)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	evaluations := make([]Evaluation, len(outcomes))

	for i, o := range outcomes {
		if o.err != nil {
			return nil, errors.Annotatef(errors.ErrCodeInvalidParameter, o.err, "failed to evaluate %s", candidates[i])
		}

		evaluations[i] = o.evaluation
	}

	return evaluations, nil
}
