package aggregate

import (
	"math"
	"slices"

	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/shopspring/decimal"
)

// PricePrecision is the number of decimal places kept on a volume weighted price.
const PricePrecision = 5

// Deduplicate collapses ticks sharing a timestamp into a single tick whose volume is
// the group's total volume and whose price is the volume weighted average price
// rounded to PricePrecision decimals.
//
// Input order does not matter; output is sorted ascending with unique timestamps.
// Zero-volume ticks carry no weight. A group whose total volume is zero is dropped.
// An empty input yields an empty output.
func Deduplicate(ticks []types.Tick) ([]types.Tick, error) {
	if len(ticks) == 0 {
		return nil, nil
	}

	for _, tick := range ticks {
		if err := validateTick(tick); err != nil {
			return nil, err
		}
	}

	sorted := slices.Clone(ticks)
	slices.SortStableFunc(sorted, func(a, b types.Tick) int {
		return a.Time.Compare(b.Time)
	})

	result := make([]types.Tick, 0, len(sorted))

	for i := 0; i < len(sorted); {
		j := i
		weighted := 0.0
		volume := 0.0

		for ; j < len(sorted) && sorted[j].Time.Equal(sorted[i].Time); j++ {
			weighted += sorted[j].Price * sorted[j].Volume
			volume += sorted[j].Volume
		}

		if volume > 0 {
			result = append(result, types.Tick{
				Time:   sorted[i].Time,
				Price:  roundPrice(weighted / volume),
				Volume: volume,
			})
		}

		i = j
	}

	return result, nil
}

func validateTick(tick types.Tick) error {
	if math.IsNaN(tick.Price) || math.IsInf(tick.Price, 0) || tick.Price <= 0 {
		return errors.Newf(errors.ErrCodeDataIntegrity, "tick at %s has non-positive price %v", tick.Time, tick.Price)
	}

	if math.IsNaN(tick.Volume) || math.IsInf(tick.Volume, 0) || tick.Volume < 0 {
		return errors.Newf(errors.ErrCodeDataIntegrity, "tick at %s has invalid volume %v", tick.Time, tick.Volume)
	}

	return nil
}

func roundPrice(price float64) float64 {
	return decimal.NewFromFloat(price).Round(PricePrecision).InexactFloat64()
}
