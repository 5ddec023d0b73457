package indicator

import (
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// MA is a simple moving average over the trailing period observations,
// maintained incrementally with a ring buffer and a running sum.
type MA struct {
	period int
	window []float64
	next   int
	count  int
	sum    float64
	// evictions since the running sum was last rebuilt from the window
	evictions int
}

// NewMA creates a simple moving average over period observations.
func NewMA(period int) (*MA, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	return &MA{
		period: period,
		window: make([]float64, period),
	}, nil
}

// Push adds an observation and returns the average of the last period
// observations. ok is false until the window is full.
func (m *MA) Push(value float64) (average float64, ok bool) {
	if m.count == m.period {
		m.sum -= m.window[m.next]
		m.evictions++
	} else {
		m.count++
	}

	m.window[m.next] = value
	m.sum += value
	m.next = (m.next + 1) % m.period

	// Rebuild the sum once per full rotation so rounding error cannot accumulate.
	if m.evictions >= m.period {
		m.sum = 0
		for _, v := range m.window {
			m.sum += v
		}

		m.evictions = 0
	}

	return m.Value()
}

// Value returns the current average. ok is false until the window is full.
func (m *MA) Value() (average float64, ok bool) {
	if m.count < m.period {
		return 0, false
	}

	return m.sum / float64(m.period), true
}

// MovingAverage computes the simple moving average of series. Leading points
// without a full window are dropped, so the result starts at series[period-1].
func MovingAverage(series []types.PricePoint, period int) ([]types.PricePoint, error) {
	ma, err := NewMA(period)
	if err != nil {
		return nil, err
	}

	if len(series) < period {
		return nil, nil
	}

	result := make([]types.PricePoint, 0, len(series)-period+1)

	for _, point := range series {
		if average, ok := ma.Push(point.Price); ok {
			result = append(result, types.PricePoint{Time: point.Time, Price: average})
		}
	}

	return result, nil
}
