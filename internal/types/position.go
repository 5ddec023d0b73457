package types

import "time"

// Position is a completed long position. Positions are values and are never
// modified once they have been handed out by the tracker.
type Position struct {
	StartDate  time.Time `yaml:"start_date" json:"start_date" csv:"start_date"`
	StartPrice float64   `yaml:"start_price" json:"start_price" csv:"start_price"`
	EndDate    time.Time `yaml:"end_date" json:"end_date" csv:"end_date"`
	EndPrice   float64   `yaml:"end_price" json:"end_price" csv:"end_price"`
}

// EquityPoint is the account balance at a single timestamp of the equity curve.
type EquityPoint struct {
	Time    time.Time `csv:"time"`
	Balance float64   `csv:"balance"`
}
