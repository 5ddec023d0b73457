package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// DataGenerator generates realistic raw trades for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how ticks are generated.
type GeneratorConfig struct {
	// StartTime is the time of the first tick
	StartTime time.Time
	// MeanGap is the average time between two trades
	MeanGap time.Duration
	// Count is the number of ticks to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement per tick (0.001 = 0.1%)
	Volatility float64
	// Trend is the total drift over the series (-0.5 to 0.5 for bearish to bullish)
	Trend float64
	// VolumeBase is the average amount per trade
	VolumeBase float64
	// DuplicateRatio is the share of ticks reusing the previous tick's timestamp
	DuplicateRatio float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		StartTime:      time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC),
		MeanGap:        5 * time.Minute,
		Count:          10000,
		InitialPrice:   5.0,
		Volatility:     0.003,
		Trend:          0.0,
		VolumeBase:     2.0,
		DuplicateRatio: 0.1,
	}
}

// Generate creates ticks following a geometric Brownian motion. Timestamps are
// whole seconds, non-decreasing, and repeat with probability DuplicateRatio.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.Tick {
	ticks := make([]types.Tick, config.Count)
	price := config.InitialPrice
	current := config.StartTime.Truncate(time.Second)

	for i := 0; i < config.Count; i++ {
		if i > 0 && g.rng.Float64() >= config.DuplicateRatio {
			gap := time.Duration(g.rng.ExpFloat64() * float64(config.MeanGap)).Truncate(time.Second)
			if gap < time.Second {
				gap = time.Second
			}

			current = current.Add(gap)
		}

		// Box-Muller transform for normal distribution
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		next := price * (1 + config.Volatility*z + config.Trend/float64(config.Count))
		if next <= 0 {
			next = price * 0.99
		}

		price = next

		volume := config.VolumeBase * g.rng.ExpFloat64()

		ticks[i] = types.Tick{
			Time:   current,
			Price:  roundToDecimals(price, 5),
			Volume: roundToDecimals(volume, 8),
		}
	}

	return ticks
}

// Generate10K is a convenience function to generate 10,000 ticks
// with default settings for benchmarking.
func Generate10K() []types.Tick {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Count = 10000

	return gen.Generate(config)
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
