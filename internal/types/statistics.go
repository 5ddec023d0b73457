package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type StrategyParams struct {
	PeriodShort int `yaml:"period_short" json:"period_short"`
	PeriodLong  int `yaml:"period_long" json:"period_long"`
}

func (p StrategyParams) String() string {
	return fmt.Sprintf("period_short=%d period_long=%d", p.PeriodShort, p.PeriodLong)
}

type EvaluationResult struct {
	// Profit is the final balance reached by the strategy.
	Profit float64 `yaml:"profit"`
	// Benchmark is the final balance of buying at the first close and holding to the last.
	Benchmark float64 `yaml:"benchmark"`
	// NumberOfPositions is the count of completed positions.
	NumberOfPositions int `yaml:"number_of_positions"`
	// Start and End bound the evaluated series.
	Start time.Time `yaml:"start"`
	End   time.Time `yaml:"end"`
}

type SearchReport struct {
	// ID is the unique identifier for this run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when this run was executed.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	// Symbol of the traded asset.
	Symbol string `yaml:"symbol"`
	// Interval is the bar interval the series was resampled to.
	Interval string `yaml:"interval"`
	// InitialBalance used for both evaluations.
	InitialBalance float64 `yaml:"initial_balance"`
	// Candidates is the number of valid parameter pairs evaluated.
	Candidates int `yaml:"candidates"`
	// Best holds the selected parameter pair.
	Best StrategyParams `yaml:"best"`
	// Training is the result of the best pair on the training series.
	Training EvaluationResult `yaml:"training"`
	// Test is the result of the best pair re-run on the test series.
	Test EvaluationResult `yaml:"test"`
	// DataPath is the path to the tick file used for this run.
	DataPath string `yaml:"data_path" json:"data_path"`
	// EngineVersion is the backtester version that produced the report.
	EngineVersion string `yaml:"engine_version" json:"engine_version"`
}

func WriteSearchReport(path string, report SearchReport) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal search report to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write search report to file: %w", err)
	}

	return nil
}
