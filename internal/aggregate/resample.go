package aggregate

import (
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// Resample buckets a deduplicated, time-ordered tick series into consecutive
// OHLC bars of the given interval covering [first tick, last tick].
//
// For a bucket with ticks: open and close are the first and last tick prices,
// high and low the extremes, and volume is the volume of the last tick in the
// bucket (a snapshot of the last trade, not the bucket total).
// For a bucket without ticks every price is the previous close and volume is 0.
// Leading empty buckets have nothing to carry forward and are dropped.
func Resample(ticks []types.Tick, interval Interval) ([]types.MarketData, error) {
	if err := interval.Validate(); err != nil {
		return nil, err
	}

	if len(ticks) == 0 {
		return nil, nil
	}

	for i := 1; i < len(ticks); i++ {
		if ticks[i].Time.Before(ticks[i-1].Time) {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter,
				"ticks must be sorted by time: %s comes after %s", ticks[i].Time, ticks[i-1].Time)
		}
	}

	step := interval.Duration()
	first := interval.BucketStart(ticks[0].Time)
	last := interval.BucketStart(ticks[len(ticks)-1].Time)
	bars := make([]types.MarketData, 0, int(last.Sub(first)/step)+1)

	idx := 0

	for start := first; !start.After(last); start = start.Add(step) {
		end := start.Add(step)

		if idx < len(ticks) && ticks[idx].Time.Before(end) {
			bar := types.MarketData{
				Time: start,
				Open: ticks[idx].Price,
				High: ticks[idx].Price,
				Low:  ticks[idx].Price,
			}

			for ; idx < len(ticks) && ticks[idx].Time.Before(end); idx++ {
				bar.High = max(bar.High, ticks[idx].Price)
				bar.Low = min(bar.Low, ticks[idx].Price)
				bar.Close = ticks[idx].Price
				bar.Volume = ticks[idx].Volume
			}

			bars = append(bars, bar)

			continue
		}

		if len(bars) == 0 {
			continue
		}

		prev := bars[len(bars)-1].Close
		bars = append(bars, types.MarketData{
			Time:   start,
			Open:   prev,
			High:   prev,
			Low:    prev,
			Close:  prev,
			Volume: 0,
			Filled: true,
		})
	}

	return bars, nil
}
