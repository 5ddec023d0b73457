package writer

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// MarketDataWriter defines the interface for writing OHLC bars to a destination.
type MarketDataWriter interface {
	// Initialize sets up the writer, potentially creating tables or files.
	Initialize() error
	// Write persists a single bar.
	Write(data types.MarketData) error
	// Finalize completes the writing process (e.g., commits transactions, exports files).
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
}

// EquityRow is one point of a strategy's equity curve together with the price and
// the moving averages the strategy traded on. Averages are unset during warm-up.
type EquityRow struct {
	Time    time.Time
	Price   float64
	Balance float64
	ShortMA optional.Option[float64]
	LongMA  optional.Option[float64]
}

// EquityWriter defines the interface for writing an equity curve to a destination.
type EquityWriter interface {
	Initialize() error
	Write(row EquityRow) error
	Finalize() (outputPath string, err error)
	Close() error
	GetOutputPath() string
}
