package position

import (
	"slices"
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// Tracker consumes open/close signals for a single long-only position and keeps
// the ordered list of completed positions.
//
// The caller must end with a CloseSignal. A position still open when the caller
// stops is never added to Positions.
type Tracker struct {
	state     State
	positions []types.Position
}

// NewTracker returns a flat tracker with no positions.
func NewTracker() *Tracker {
	return &Tracker{state: Flat()}
}

// OpenSignal enters a long position if flat. It is a no-op while long.
func (t *Tracker) OpenSignal(date time.Time, price float64) {
	t.state = t.state.Open(date, price)
}

// CloseSignal closes the open position and records it. It is a no-op while flat.
func (t *Tracker) CloseSignal(date time.Time, price float64) {
	next, completed := t.state.Close(date, price)
	t.state = next

	if completed.IsSome() {
		t.positions = append(t.positions, completed.Unwrap())
	}
}

// Apply dispatches a strategy signal to OpenSignal or CloseSignal.
func (t *Tracker) Apply(signal types.Signal) {
	switch signal.Type {
	case types.SignalTypeBuyLong:
		t.OpenSignal(signal.Time, signal.Price)
	case types.SignalTypeSellLong:
		t.CloseSignal(signal.Time, signal.Price)
	}
}

// Positions returns a copy of the completed positions in the order they were closed.
func (t *Tracker) Positions() []types.Position {
	return slices.Clone(t.positions)
}

// Replay runs signals through a fresh tracker and returns the completed positions.
func Replay(signals []types.Signal) []types.Position {
	tracker := NewTracker()
	for _, signal := range signals {
		tracker.Apply(signal)
	}

	return tracker.Positions()
}
