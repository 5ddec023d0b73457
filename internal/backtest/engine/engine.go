package engine

import (
	"github.com/rxtech-lab/argo-crossover/internal/backtest/optimizer"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// Lifecycle callback types for backtest phases
// All callbacks with error return can abort execution if they return an error

// OnRunStartCallback is called once the tick file is opened. runID is the
// identifier written to the report.
type OnRunStartCallback func(runID string, totalTicks int) error

// OnBarsReadyCallback is called after resampling and the train/test split.
type OnBarsReadyCallback func(totalBars int, trainingBars int, testBars int) error

// OnRunEndCallback is called when the run completes (always called via defer).
type OnRunEndCallback func(report types.SearchReport, err error)

// LifecycleCallbacks holds all lifecycle callback functions for the runner.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnRunStart           *OnRunStartCallback
	OnBarsReady          *OnBarsReadyCallback
	OnCandidateEvaluated *optimizer.OnCandidateEvaluatedCallback
	OnRunEnd             *OnRunEndCallback
}
