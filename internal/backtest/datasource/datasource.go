package datasource

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// TickSource reads raw trades for the backtest.
type TickSource interface {
	// Initialize points the source at a tick file. Files ending in .parquet are read
	// as parquet, everything else as headerless CSV with unixtime,price,amount rows.
	Initialize(path string) error
	// ReadTicks returns the ticks in [start, end) ordered by time. Unset bounds are open.
	ReadTicks(start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.Tick, error)
	// Count returns the number of ticks in [start, end).
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// Close releases the underlying database.
	Close() error
}
