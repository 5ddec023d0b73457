package types

import "time"

type SignalType string

const (
	// SignalTypeBuyLong asks the position tracker to enter a long position
	SignalTypeBuyLong SignalType = "buy_long"
	// SignalTypeSellLong asks the position tracker to leave the long position
	SignalTypeSellLong SignalType = "sell_long"
)

type Signal struct {
	// Time is the time of the signal
	Time time.Time
	// Type is the type of the signal
	Type SignalType
	// Price is the price of the asset at Time
	Price float64
	// Reason is the reason for the signal
	Reason string
}
