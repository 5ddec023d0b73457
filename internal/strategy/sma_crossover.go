package strategy

import (
	"fmt"

	"github.com/rxtech-lab/argo-crossover/internal/indicator"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// DefaultCloseThreshold is the fraction of the long average the short average must
// fall below before an open position is closed.
const DefaultCloseThreshold = 0.95

// SimpleMovingAverageCrossover opens a long position while the short moving average is
// above the long one and closes it once the short average drops below
// closeThreshold * long average. Between the two levels no signal is emitted.
//
// shortPeriod < longPeriod is expected but not checked here; with any other
// ordering the strategy simply rarely or never opens a position.
type SimpleMovingAverageCrossover struct {
	shortPeriod    int
	longPeriod     int
	closeThreshold float64
}

type Option func(*SimpleMovingAverageCrossover)

// WithCloseThreshold overrides DefaultCloseThreshold.
func WithCloseThreshold(threshold float64) Option {
	return func(s *SimpleMovingAverageCrossover) {
		s.closeThreshold = threshold
	}
}

// NewSimpleMovingAverageCrossover creates a new SMA crossover strategy with the given periods.
func NewSimpleMovingAverageCrossover(shortPeriod, longPeriod int, opts ...Option) (*SimpleMovingAverageCrossover, error) {
	s := &SimpleMovingAverageCrossover{
		shortPeriod:    shortPeriod,
		longPeriod:     longPeriod,
		closeThreshold: DefaultCloseThreshold,
	}

	for _, opt := range opts {
		opt(s)
	}

	if shortPeriod <= 0 || longPeriod <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod,
			"periods must be positive integers, got short=%d long=%d", shortPeriod, longPeriod)
	}

	if s.closeThreshold <= 0 || s.closeThreshold > 1 {
		return nil, errors.Newf(errors.ErrCodeInvalidThreshold,
			"close threshold must be in (0, 1], got %v", s.closeThreshold)
	}

	return s, nil
}

func (s *SimpleMovingAverageCrossover) Name() string {
	return fmt.Sprintf("SMA_Cross_%d_%d", s.shortPeriod, s.longPeriod)
}

func (s *SimpleMovingAverageCrossover) ShortPeriod() int {
	return s.shortPeriod
}

func (s *SimpleMovingAverageCrossover) LongPeriod() int {
	return s.longPeriod
}

// GenerateSignals walks the series from the first point with a full long window.
// A final sell signal is always emitted at the last point so no position is
// left open. An empty series yields no signals.
func (s *SimpleMovingAverageCrossover) GenerateSignals(series []types.PricePoint) ([]types.Signal, error) {
	if len(series) == 0 {
		return nil, nil
	}

	shortMA, err := indicator.NewMA(s.shortPeriod)
	if err != nil {
		return nil, err
	}

	longMA, err := indicator.NewMA(s.longPeriod)
	if err != nil {
		return nil, err
	}

	var signals []types.Signal

	for _, point := range series {
		short, shortOK := shortMA.Push(point.Price)
		long, longOK := longMA.Push(point.Price)

		if !longOK || !shortOK {
			continue
		}

		switch {
		case short > long:
			signals = append(signals, types.Signal{
				Time:   point.Time,
				Type:   types.SignalTypeBuyLong,
				Price:  point.Price,
				Reason: "short MA above long MA",
			})
		case short < s.closeThreshold*long:
			signals = append(signals, types.Signal{
				Time:   point.Time,
				Type:   types.SignalTypeSellLong,
				Price:  point.Price,
				Reason: "short MA below close threshold",
			})
		}
	}

	last := series[len(series)-1]
	signals = append(signals, types.Signal{
		Time:   last.Time,
		Type:   types.SignalTypeSellLong,
		Price:  last.Price,
		Reason: "end of series",
	})

	return signals, nil
}
