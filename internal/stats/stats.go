// Package stats computes per-game averages from box-score lines.
package stats

import (
	"strconv"

	"github.com/fortuna/acbscout/internal/models"
)

// Totals are the summed counting stats of a set of performances.
type Totals struct {
	Points   int
	Rebounds int
	Assists  int
}

// Sum adds points, rebounds and assists. Missing values count as zero.
func Sum(perfs []models.GamePerformance) Totals {
	var t Totals
	for _, p := range perfs {
		t.Points += deref(p.Points)
		t.Rebounds += deref(p.Rebounds)
		t.Assists += deref(p.Assists)
	}
	return t
}

// Aggregate builds the season line for one player. Every performance counts
// as a game played, including those with missing statistics, so a missing
// value lowers the average instead of being excluded from it.
func Aggregate(player models.PlayerIdentity, perfs []models.GamePerformance) models.PlayerSeasonAggregate {
	agg := models.PlayerSeasonAggregate{
		Player:       player,
		Performances: perfs,
		GamesPlayed:  len(perfs),
	}
	if agg.GamesPlayed == 0 {
		return agg
	}
	t := Sum(perfs)
	agg.PPG = PerGame(t.Points, agg.GamesPlayed)
	agg.RPG = PerGame(t.Rebounds, agg.GamesPlayed)
	agg.APG = PerGame(t.Assists, agg.GamesPlayed)
	return agg
}

// PerGame returns total/games rounded to one decimal. games must be positive.
func PerGame(total, games int) float64 {
	return Round1(float64(total) / float64(games))
}

// Round1 rounds to one decimal place the way Python's round(x, 1) does:
// the decimal nearest to the exact binary value, ties to even.
func Round1(x float64) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 1, 64), 64)
	if err != nil {
		return x
	}
	return v
}

// Group is the performances sharing one key, in scan order.
type Group struct {
	Key          string
	Performances []models.GamePerformance
}

// GroupBy partitions perfs by key. Groups appear in first-seen order.
func GroupBy(perfs []models.GamePerformance, key func(models.GamePerformance) string) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, p := range perfs {
		k := key(p)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Performances = append(groups[i].Performances, p)
	}
	return groups
}

// ByPlayerName keys performances by display name.
func ByPlayerName(p models.GamePerformance) string {
	return p.PlayerName
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
