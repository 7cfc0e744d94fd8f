package join

import (
	"sort"

	"github.com/fortuna/acbscout/internal/models"
)

// TeamSchedules holds each team's games split into played and upcoming.
type TeamSchedules struct {
	Past     map[string][]models.TeamGame
	Upcoming map[string][]models.TeamGame
}

// PartitionSchedule gives every game to both of its teams. A game is past
// only when both scores are present, whatever its Played flag says. Past
// games are sorted newest first, upcoming games oldest first; equal dates keep
// schedule order.
func PartitionSchedule(games []models.Game) TeamSchedules {
	ts := TeamSchedules{
		Past:     make(map[string][]models.TeamGame),
		Upcoming: make(map[string][]models.TeamGame),
	}
	for _, g := range games {
		target := ts.Upcoming
		if hasScores(g) {
			target = ts.Past
		}
		if g.HomeTeam != "" {
			target[g.HomeTeam] = append(target[g.HomeTeam], teamGame(g, true))
		}
		if g.AwayTeam != "" {
			target[g.AwayTeam] = append(target[g.AwayTeam], teamGame(g, false))
		}
	}
	for _, list := range ts.Past {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Date > list[j].Date })
	}
	for _, list := range ts.Upcoming {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Date < list[j].Date })
	}
	return ts
}

// For returns copies of a team's past and upcoming lists, never nil.
func (ts TeamSchedules) For(team string) (past, upcoming []models.TeamGame) {
	past = append([]models.TeamGame{}, ts.Past[team]...)
	upcoming = append([]models.TeamGame{}, ts.Upcoming[team]...)
	return past, upcoming
}

func teamGame(g models.Game, home bool) models.TeamGame {
	tg := models.TeamGame{
		Date:      g.Date,
		Round:     g.Round,
		Venue:     g.Venue,
		HomeTeam:  g.HomeTeam,
		AwayTeam:  g.AwayTeam,
		HomeScore: g.HomeScore,
		AwayScore: g.AwayScore,
		Played:    hasScores(g),
	}
	if home {
		tg.Opponent, tg.HomeAway = g.AwayTeam, "Home"
		tg.TeamScore, tg.OpponentScore = g.HomeScore, g.AwayScore
	} else {
		tg.Opponent, tg.HomeAway = g.HomeTeam, "Away"
		tg.TeamScore, tg.OpponentScore = g.AwayScore, g.HomeScore
	}
	if tg.Played {
		tg.Result = models.Ptr("L")
		if value(tg.TeamScore) > value(tg.OpponentScore) {
			tg.Result = models.Ptr("W")
		}
	}
	return tg
}

func hasScores(g models.Game) bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

func value(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
