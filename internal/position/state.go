package position

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// Entry is the open half of a long position that has not been closed yet.
type Entry struct {
	Date  time.Time
	Price float64
}

// State is either Flat or Long. A Long state carries the entry of the open position.
// State is a value: transitions return a new State and never modify the receiver.
type State struct {
	entry optional.Option[Entry]
}

// Flat is the initial state.
func Flat() State {
	return State{entry: optional.None[Entry]()}
}

// Long returns the state holding an open position entered at date and price.
func Long(date time.Time, price float64) State {
	return State{entry: optional.Some(Entry{Date: date, Price: price})}
}

func (s State) IsLong() bool {
	return s.entry.IsSome()
}

func (s State) IsFlat() bool {
	return s.entry.IsNone()
}

// Entry returns the open position's entry, or None when flat.
func (s State) Entry() optional.Option[Entry] {
	return s.entry
}

// Open enters a long position. Opening while already long keeps the existing entry.
func (s State) Open(date time.Time, price float64) State {
	if s.IsLong() {
		return s
	}

	return Long(date, price)
}

// Close leaves the long position and returns the completed Position.
// Closing while flat is a no-op and returns None.
//
// A close at or before the entry date would produce a position with no holding
// period; the entry is dropped and no Position is returned. With the strategy's
// end-of-series close this happens whenever the final point emits an open.
func (s State) Close(date time.Time, price float64) (State, optional.Option[types.Position]) {
	if s.IsFlat() {
		return s, optional.None[types.Position]()
	}

	entry := s.entry.Unwrap()
	if !date.After(entry.Date) {
		return Flat(), optional.None[types.Position]()
	}

	return Flat(), optional.Some(types.Position{
		StartDate:  entry.Date,
		StartPrice: entry.Price,
		EndDate:    date,
		EndPrice:   price,
	})
}
