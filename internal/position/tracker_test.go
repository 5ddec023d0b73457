package position

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/stretchr/testify/suite"
)

type TrackerTestSuite struct {
	suite.Suite
	t0 time.Time
}

func TestTrackerSuite(t *testing.T) {
	suite.Run(t, new(TrackerTestSuite))
}

func (suite *TrackerTestSuite) SetupTest() {
	suite.t0 = time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *TrackerTestSuite) at(hours int) time.Time {
	return suite.t0.Add(time.Duration(hours) * time.Hour)
}

func (suite *TrackerTestSuite) TestOpenCloseCycles() {
	tracker := NewTracker()

	tracker.OpenSignal(suite.at(1), 10)
	tracker.OpenSignal(suite.at(2), 11)
	tracker.CloseSignal(suite.at(3), 12)
	tracker.CloseSignal(suite.at(4), 13)
	tracker.OpenSignal(suite.at(5), 14)
	tracker.CloseSignal(suite.at(8), 9)

	positions := tracker.Positions()
	suite.Require().Len(positions, 2)
	suite.Equal(types.Position{StartDate: suite.at(1), StartPrice: 10, EndDate: suite.at(3), EndPrice: 12}, positions[0])
	suite.Equal(types.Position{StartDate: suite.at(5), StartPrice: 14, EndDate: suite.at(8), EndPrice: 9}, positions[1])
}

func (suite *TrackerTestSuite) TestUnclosedPositionIsNotRecorded() {
	tracker := NewTracker()
	tracker.OpenSignal(suite.at(1), 10)

	suite.Empty(tracker.Positions())

	// still long: a second open keeps the first entry
	tracker.OpenSignal(suite.at(2), 11)
	tracker.CloseSignal(suite.at(3), 12)
	suite.Equal([]types.Position{{StartDate: suite.at(1), StartPrice: 10, EndDate: suite.at(3), EndPrice: 12}}, tracker.Positions())
}

func (suite *TrackerTestSuite) TestPositionsReturnsCopy() {
	tracker := NewTracker()
	tracker.OpenSignal(suite.at(1), 10)
	tracker.CloseSignal(suite.at(2), 20)

	positions := tracker.Positions()
	positions[0].EndPrice = 0

	suite.Equal(20.0, tracker.Positions()[0].EndPrice)
}

func (suite *TrackerTestSuite) TestStartBeforeEnd() {
	signals := []types.Signal{
		{Time: suite.at(0), Type: types.SignalTypeBuyLong, Price: 1},
		{Time: suite.at(0), Type: types.SignalTypeSellLong, Price: 1},
		{Time: suite.at(1), Type: types.SignalTypeBuyLong, Price: 2},
		{Time: suite.at(4), Type: types.SignalTypeSellLong, Price: 3},
		{Time: suite.at(6), Type: types.SignalTypeBuyLong, Price: 2},
		{Time: suite.at(6), Type: types.SignalTypeSellLong, Price: 2},
	}

	positions := Replay(signals)
	suite.Require().Len(positions, 1)

	for _, p := range positions {
		suite.True(p.StartDate.Before(p.EndDate))
	}
}

func (suite *TrackerTestSuite) TestReplayUsesFreshTracker() {
	signals := []types.Signal{
		{Time: suite.at(0), Type: types.SignalTypeBuyLong, Price: 1},
		{Time: suite.at(2), Type: types.SignalTypeSellLong, Price: 2},
	}

	suite.Len(Replay(signals), 1)
	suite.Len(Replay(signals), 1)
	suite.Empty(Replay(nil))
}
