package strategy

import "github.com/rxtech-lab/argo-crossover/internal/types"

// TradingStrategy turns a price series into an ordered sequence of buy/sell signals.
// Implementations hold no state between calls.
type TradingStrategy interface {
	// GenerateSignals evaluates the strategy over series, oldest point first.
	GenerateSignals(series []types.PricePoint) ([]types.Signal, error)
	// Name returns the name of the strategy
	Name() string
}
