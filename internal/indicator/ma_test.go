package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type MATestSuite struct {
	suite.Suite
}

func TestMATestSuite(t *testing.T) {
	suite.Run(t, new(MATestSuite))
}

func naiveAverage(values []float64, end, period int) float64 {
	sum := 0.0
	for _, v := range values[end-period+1 : end+1] {
		sum += v
	}

	return sum / float64(period)
}

func (suite *MATestSuite) TestNewMAInvalidPeriod() {
	for _, period := range []int{0, -3} {
		_, err := NewMA(period)
		suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))
	}
}

func (suite *MATestSuite) TestPushWarmup() {
	ma, err := NewMA(3)
	suite.Require().NoError(err)

	_, ok := ma.Push(1)
	suite.False(ok)
	_, ok = ma.Push(2)
	suite.False(ok)

	avg, ok := ma.Push(3)
	suite.True(ok)
	suite.Equal(2.0, avg)

	avg, ok = ma.Push(10)
	suite.True(ok)
	suite.Equal(5.0, avg)
}

func (suite *MATestSuite) TestMatchesNaiveComputation() {
	values := make([]float64, 500)
	for i := range values {
		values[i] = 100 + 10*math.Sin(float64(i)/7) + float64(i%13)*0.37
	}

	for _, period := range []int{1, 2, 5, 20, 50} {
		ma, err := NewMA(period)
		suite.Require().NoError(err)

		for i, v := range values {
			avg, ok := ma.Push(v)
			if i < period-1 {
				suite.False(ok)

				continue
			}

			suite.True(ok)
			suite.InDelta(naiveAverage(values, i, period), avg, 1e-9)
		}
	}
}

func (suite *MATestSuite) TestMovingAverageAlignment() {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make([]types.PricePoint, 6)

	for i := range series {
		series[i] = types.PricePoint{Time: base.Add(time.Duration(i) * time.Hour), Price: float64(i + 1)}
	}

	result, err := MovingAverage(series, 4)
	suite.Require().NoError(err)
	suite.Require().Len(result, 3)
	suite.Equal(series[3].Time, result[0].Time)
	suite.Equal(2.5, result[0].Price)
	suite.Equal(4.5, result[2].Price)
}

func (suite *MATestSuite) TestMovingAverageShortSeries() {
	result, err := MovingAverage([]types.PricePoint{{Price: 1}}, 3)
	suite.NoError(err)
	suite.Empty(result)
}
