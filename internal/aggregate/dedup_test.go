package aggregate

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type DeduplicateTestSuite struct {
	suite.Suite
	base time.Time
}

func TestDeduplicateSuite(t *testing.T) {
	suite.Run(t, new(DeduplicateTestSuite))
}

func (suite *DeduplicateTestSuite) SetupTest() {
	suite.base = time.Unix(1325376000, 0).UTC()
}

func (suite *DeduplicateTestSuite) at(seconds int) time.Time {
	return suite.base.Add(time.Duration(seconds) * time.Second)
}

func (suite *DeduplicateTestSuite) TestVolumeWeightedPrice() {
	ticks := []types.Tick{
		{Time: suite.at(0), Price: 10, Volume: 1},
		{Time: suite.at(0), Price: 20, Volume: 1},
	}

	result, err := Deduplicate(ticks)
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(suite.at(0), result[0].Time)
	suite.Equal(15.0, result[0].Price)
	suite.Equal(2.0, result[0].Volume)
}

func (suite *DeduplicateTestSuite) TestRoundsToFiveDecimals() {
	ticks := []types.Tick{
		{Time: suite.at(0), Price: 1, Volume: 1},
		{Time: suite.at(0), Price: 2, Volume: 2},
	}

	result, err := Deduplicate(ticks)
	suite.Require().NoError(err)
	suite.Equal(1.66667, result[0].Price)
}

func (suite *DeduplicateTestSuite) TestSortsUnorderedInput() {
	ticks := []types.Tick{
		{Time: suite.at(20), Price: 3, Volume: 1},
		{Time: suite.at(0), Price: 1, Volume: 1},
		{Time: suite.at(10), Price: 2, Volume: 4},
		{Time: suite.at(0), Price: 3, Volume: 3},
	}

	result, err := Deduplicate(ticks)
	suite.Require().NoError(err)
	suite.Require().Len(result, 3)

	for i := 1; i < len(result); i++ {
		suite.True(result[i].Time.After(result[i-1].Time))
	}

	suite.Equal(2.5, result[0].Price)
	suite.Equal(4.0, result[0].Volume)
}

func (suite *DeduplicateTestSuite) TestPreservesTotalVolume() {
	ticks := []types.Tick{
		{Time: suite.at(0), Price: 100, Volume: 0.5},
		{Time: suite.at(0), Price: 101, Volume: 1.25},
		{Time: suite.at(1), Price: 102, Volume: 2},
		{Time: suite.at(2), Price: 99, Volume: 0},
		{Time: suite.at(2), Price: 98, Volume: 3},
		{Time: suite.at(3), Price: 97, Volume: 0.25},
	}

	total := 0.0
	for _, tick := range ticks {
		total += tick.Volume
	}

	result, err := Deduplicate(ticks)
	suite.Require().NoError(err)

	deduped := 0.0
	for _, tick := range result {
		deduped += tick.Volume
	}

	suite.InDelta(total, deduped, 1e-12)
}

func (suite *DeduplicateTestSuite) TestZeroVolumeTicksExcluded() {
	ticks := []types.Tick{
		{Time: suite.at(0), Price: 50, Volume: 0},
		{Time: suite.at(0), Price: 10, Volume: 2},
		{Time: suite.at(5), Price: 70, Volume: 0},
	}

	result, err := Deduplicate(ticks)
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(10.0, result[0].Price)
	suite.Equal(suite.at(0), result[0].Time)
}

func (suite *DeduplicateTestSuite) TestEmptyInput() {
	result, err := Deduplicate(nil)
	suite.NoError(err)
	suite.Empty(result)
}

func (suite *DeduplicateTestSuite) TestRejectsCorruptTicks() {
	tests := []struct {
		name string
		tick types.Tick
	}{
		{"zero price", types.Tick{Time: suite.at(0), Price: 0, Volume: 1}},
		{"negative price", types.Tick{Time: suite.at(0), Price: -1, Volume: 1}},
		{"negative volume", types.Tick{Time: suite.at(0), Price: 1, Volume: -1}},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := Deduplicate([]types.Tick{tc.tick})
			suite.True(errors.HasCode(err, errors.ErrCodeDataIntegrity))
		})
	}
}

func (suite *DeduplicateTestSuite) TestDoesNotModifyInput() {
	ticks := []types.Tick{
		{Time: suite.at(5), Price: 1, Volume: 1},
		{Time: suite.at(0), Price: 2, Volume: 1},
	}

	_, err := Deduplicate(ticks)
	suite.Require().NoError(err)
	suite.Equal(suite.at(5), ticks[0].Time)
}
