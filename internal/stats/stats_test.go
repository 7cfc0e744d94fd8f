package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/acbscout/internal/models"
)

func TestAggregate_MissingCountsAsZero(t *testing.T) {
	perfs := []models.GamePerformance{
		{PlayerName: "Miles Norris", Points: models.Ptr(10)},
		{PlayerName: "Miles Norris"},
		{PlayerName: "Miles Norris", Points: models.Ptr(8)},
	}

	agg := Aggregate(models.PlayerIdentity{Name: "Miles Norris"}, perfs)

	assert.Equal(t, 3, agg.GamesPlayed)
	assert.Equal(t, 6.0, agg.PPG)
	assert.Equal(t, 0.0, agg.RPG)
	assert.Equal(t, 0.0, agg.APG)
	assert.Len(t, agg.Performances, 3)
}

func TestAggregate_Empty(t *testing.T) {
	agg := Aggregate(models.PlayerIdentity{Name: "Nobody"}, nil)
	assert.Zero(t, agg.GamesPlayed)
	assert.Zero(t, agg.PPG)
}

func TestAggregate_Rounding(t *testing.T) {
	perfs := []models.GamePerformance{
		{Points: models.Ptr(7), Rebounds: models.Ptr(1), Assists: models.Ptr(2)},
		{Points: models.Ptr(3), Rebounds: models.Ptr(1), Assists: models.Ptr(2)},
		{Points: models.Ptr(0), Rebounds: models.Ptr(0), Assists: models.Ptr(3)},
	}
	agg := Aggregate(models.PlayerIdentity{}, perfs)

	assert.Equal(t, 3.3, agg.PPG)
	assert.Equal(t, 0.7, agg.RPG)
	assert.Equal(t, 2.3, agg.APG)
}

func TestRound1(t *testing.T) {
	cases := map[float64]float64{
		0.25:  0.2, // tie, rounds to even
		0.35:  0.3, // binary value is below .35
		2.675: 2.7,
		6.0:   6.0,
		1.05:  1.1, // binary value is above 1.05
		-0.25: -0.2,
	}
	for in, want := range cases {
		assert.Equal(t, want, Round1(in), "Round1(%v)", in)
	}
}

func TestGroupBy_FirstSeenOrder(t *testing.T) {
	perfs := []models.GamePerformance{
		{PlayerName: "B", MatchID: "1"},
		{PlayerName: "A", MatchID: "1"},
		{PlayerName: "B", MatchID: "2"},
		{PlayerName: "C", MatchID: "2"},
		{PlayerName: "A", MatchID: "3"},
	}

	groups := GroupBy(perfs, ByPlayerName)
	require.Len(t, groups, 3)

	assert.Equal(t, "B", groups[0].Key)
	assert.Equal(t, "A", groups[1].Key)
	assert.Equal(t, "C", groups[2].Key)
	assert.Equal(t, "1", groups[0].Performances[0].MatchID)
	assert.Equal(t, "2", groups[0].Performances[1].MatchID)
	assert.Len(t, groups[1].Performances, 2)
}

func TestSum(t *testing.T) {
	tot := Sum([]models.GamePerformance{
		{Points: models.Ptr(12), Assists: models.Ptr(4)},
		{Rebounds: models.Ptr(9)},
	})
	assert.Equal(t, Totals{Points: 12, Rebounds: 9, Assists: 4}, tot)
}
