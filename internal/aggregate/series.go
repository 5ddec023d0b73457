package aggregate

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// ClosePrices extracts the close price series from a bar sequence.
func ClosePrices(bars []types.MarketData) []types.PricePoint {
	series := make([]types.PricePoint, len(bars))
	for i, bar := range bars {
		series[i] = types.PricePoint{Time: bar.Time, Price: bar.Close}
	}

	return series
}

// SliceByTime returns the bars whose time lies in [start, end). A missing bound
// leaves that side open. The returned slice shares memory with bars.
func SliceByTime(bars []types.MarketData, start optional.Option[time.Time], end optional.Option[time.Time]) []types.MarketData {
	from := 0
	to := len(bars)

	if start.IsSome() {
		bound := start.Unwrap()
		for from < to && bars[from].Time.Before(bound) {
			from++
		}
	}

	if end.IsSome() {
		bound := end.Unwrap()
		for to > from && !bars[to-1].Time.Before(bound) {
			to--
		}
	}

	return bars[from:to]
}
