package optimizer

import (
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/samber/lo"
)

// Grid enumerates candidate (short, long) period pairs as every short period
// combined with every long offset, long = short + offset. Short periods form the
// outer loop, so enumeration order is stable for a given Grid.
type Grid struct {
	ShortPeriods []int `yaml:"short_periods" json:"short_periods" validate:"required,min=1,dive,gt=0" jsonschema:"title=Short Periods,description=Candidate short moving average periods"`
	LongOffsets  []int `yaml:"long_offsets" json:"long_offsets" validate:"required,min=1,dive,gt=0" jsonschema:"title=Long Offsets,description=Offsets added to each short period to form the long period"`
}

// DefaultGrid is short periods 10..50 and long offsets 10..50, both in steps of 10.
func DefaultGrid() Grid {
	return Grid{
		ShortPeriods: lo.RangeWithSteps(10, 60, 10),
		LongOffsets:  lo.RangeWithSteps(10, 60, 10),
	}
}

// Validate checks both lists are non-empty and hold positive values.
func (g Grid) Validate() error {
	if err := validator.New().Struct(g); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "invalid parameter grid", err)
	}

	return nil
}

// Candidates returns the pairs in enumeration order.
func (g Grid) Candidates() []types.StrategyParams {
	return lo.CrossJoinBy2(g.ShortPeriods, g.LongOffsets, func(short int, offset int) types.StrategyParams {
		return types.StrategyParams{PeriodShort: short, PeriodLong: short + offset}
	})
}

// ValidParams reports whether p can be searched: both periods positive and long > short.
func ValidParams(p types.StrategyParams) bool {
	return p.PeriodShort > 0 && p.PeriodLong > p.PeriodShort
}
