package types

import "time"

// Tick is a single timestamped trade observation.
type Tick struct {
	Time   time.Time `csv:"time"`
	Price  float64   `csv:"price"`
	Volume float64   `csv:"volume"`
}
