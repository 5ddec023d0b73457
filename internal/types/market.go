package types

import "time"

// MarketData is one OHLC bar. Time is the start of the bucket the bar covers.
type MarketData struct {
	Time   time.Time `csv:"time" yaml:"time"`
	Open   float64   `csv:"open" yaml:"open"`
	High   float64   `csv:"high" yaml:"high"`
	Low    float64   `csv:"low" yaml:"low"`
	Close  float64   `csv:"close" yaml:"close"`
	Volume float64   `csv:"volume" yaml:"volume"`
	// Filled is true when no tick fell into the bucket and the bar was carried
	// forward from the previous close.
	Filled bool `csv:"filled" yaml:"filled"`
}

// PricePoint is a single observation of a price series.
type PricePoint struct {
	Time  time.Time
	Price float64
}
