package pipeline

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/fortuna/acbscout/internal/classify"
	"github.com/fortuna/acbscout/internal/models"
	"github.com/fortuna/acbscout/internal/report"
	"github.com/fortuna/acbscout/internal/snapshot"
	"github.com/fortuna/acbscout/internal/stats"
)

// matchedNationality marks players found by name in box scores rather than
// by a profile page.
const matchedNationality = "USA (matched)"

// ACBSource reads acb.com. *acb.Client implements it.
type ACBSource interface {
	SeasonMatches(ctx context.Context, maxJornadas int) ([]models.Match, error)
	TeamRoster(ctx context.Context, teamID int) ([]models.RosterPlayer, error)
	PlayerDetails(ctx context.Context, playerID string) (*models.PlayerDetails, error)
	BoxScore(ctx context.Context, match models.Match) (*models.BoxScore, error)
}

// ACBOptions configure an acb.com run.
type ACBOptions struct {
	Season      string
	League      string
	MaxJornadas int
	MaxMatches  int
	// Rosters scans every team page; Details also reads each rostered
	// player's profile to find Americans by nationality.
	Rosters bool
	Details bool
	TeamIDs []int
}

// ACBResult summarizes an acb.com run.
type ACBResult struct {
	RunID        string
	Rostered     int
	Matches      int
	BoxScores    int
	Performances int
	Americans    []models.ACBAmericanPlayer
}

// ACB scans acb.com box scores for American players and writes the
// acb_rosters, acb_american_players and acb_boxscores snapshots.
func (r *Runner) ACB(ctx context.Context, src ACBSource, known Matcher, opts ACBOptions) (*ACBResult, error) {
	rn := r.begin("acb", opts.Season, opts.League)
	res := &ACBResult{RunID: rn.id}

	var (
		rosters   []models.RosterPlayer
		americans []models.ACBAmericanPlayer
	)
	americanIDs := make(map[string]bool)

	if opts.Rosters {
		var err error
		rosters, americans, err = r.scanRosters(ctx, rn, src, opts)
		if err != nil {
			return nil, err
		}
		for _, a := range americans {
			americanIDs[a.ACBID] = true
		}
	}
	res.Rostered = len(rosters)

	matches, err := src.SeasonMatches(ctx, opts.MaxJornadas)
	if err != nil {
		return nil, errors.Wrap(err, "scan calendar")
	}
	res.Matches = len(matches)
	if opts.MaxMatches > 0 && len(matches) > opts.MaxMatches {
		matches = matches[:opts.MaxMatches]
	}
	rn.logger.Info("matches found", zap.Int("total", res.Matches), zap.Int("scanning", len(matches)))

	var (
		boxScores []models.BoxScore
		perfs     []models.GamePerformance
	)
	for i, m := range matches {
		box, err := src.BoxScore(ctx, m)
		if err != nil {
			return nil, errors.Wrapf(err, "box score %s", m.MatchID)
		}
		if (i+1)%10 == 0 {
			rn.logger.Info("box score progress", zap.Int("done", i+1), zap.Int("total", len(matches)))
		}
		if box == nil || len(box.Players) == 0 {
			continue
		}
		boxScores = append(boxScores, *box)

		for _, p := range box.Players {
			id := deref(p.PlayerID)
			if !americanIDs[id] && !known.IsAmerican(p.PlayerName) {
				continue
			}
			perfs = append(perfs, p)
			if id != "" && !americanIDs[id] {
				americanIDs[id] = true
				americans = append(americans, models.ACBAmericanPlayer{
					ACBID:       id,
					Name:        p.PlayerName,
					Nationality: matchedNationality,
				})
			}
		}
	}
	res.BoxScores = len(boxScores)
	res.Performances = len(perfs)

	attachGameLogs(americans, perfs)
	res.Americans = americans

	if _, err := r.save(ctx, rn, snapshot.ACBRosters, false, len(rosters), snapshot.RostersFile{
		Header: rn.header, PlayerCount: len(rosters), Players: rosters,
	}); err != nil {
		return nil, err
	}
	if _, err := r.save(ctx, rn, snapshot.ACBAmericanPlayers, true, len(americans), snapshot.ACBAmericansFile{
		Header: rn.header, PlayerCount: len(americans), Players: americans,
	}); err != nil {
		return nil, err
	}
	if _, err := r.save(ctx, rn, snapshot.ACBBoxScores, false, len(boxScores), snapshot.BoxScoresFile{
		Header: rn.header, MatchCount: len(boxScores), BoxScores: boxScores,
	}); err != nil {
		return nil, err
	}

	report.Totals(r.report, "acb.com run", []report.Count{
		{Label: "Rostered players", Value: res.Rostered},
		{Label: "American players", Value: len(americans)},
		{Label: "Matches scraped", Value: res.BoxScores},
		{Label: "American performances", Value: res.Performances},
	})
	if len(americans) > 0 {
		report.ACBAmericans(r.report, americans, 15)
	}
	rn.logger.Info("run finished")
	return res, nil
}

// scanRosters reads every team page and, when requested, every player
// profile. Americans are those whose profile names the United States.
func (r *Runner) scanRosters(ctx context.Context, rn *run, src ACBSource, opts ACBOptions) ([]models.RosterPlayer, []models.ACBAmericanPlayer, error) {
	teamIDs := append([]int(nil), opts.TeamIDs...)
	sort.Ints(teamIDs)

	var (
		rosters   []models.RosterPlayer
		americans []models.ACBAmericanPlayer
	)
	for _, teamID := range teamIDs {
		players, err := src.TeamRoster(ctx, teamID)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "roster of team %d", teamID)
		}
		rn.logger.Info("roster scanned", zap.Int("team_id", teamID), zap.Int("players", len(players)))
		rosters = append(rosters, players...)

		if !opts.Details {
			continue
		}
		for _, p := range players {
			details, err := src.PlayerDetails(ctx, p.ACBID)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "player %s", p.ACBID)
			}
			if details == nil || details.Nationality == nil || !classify.IsAmericanNationality(*details.Nationality) {
				continue
			}
			americans = append(americans, models.ACBAmericanPlayer{
				ACBID:       p.ACBID,
				Name:        p.Name,
				Nationality: *details.Nationality,
				TeamID:      models.Ptr(p.TeamID),
				Position:    details.Position,
				Height:      details.Height,
			})
		}
	}
	return rosters, americans, nil
}

// attachGameLogs gives each American player the performances carrying their
// acb.com ID and the averages computed from them.
func attachGameLogs(americans []models.ACBAmericanPlayer, perfs []models.GamePerformance) {
	logs := make(map[string][]models.GamePerformance)
	for _, g := range stats.GroupBy(perfs, func(p models.GamePerformance) string { return deref(p.PlayerID) }) {
		if g.Key != "" {
			logs[g.Key] = g.Performances
		}
	}
	for i := range americans {
		log, ok := logs[americans[i].ACBID]
		if !ok {
			continue
		}
		agg := stats.Aggregate(models.PlayerIdentity{SourceID: americans[i].ACBID, Name: americans[i].Name}, log)
		americans[i].GameLog = log
		americans[i].GamesTracked = agg.GamesPlayed
		americans[i].CalculatedPPG = models.Ptr(agg.PPG)
		americans[i].CalculatedRPG = models.Ptr(agg.RPG)
		americans[i].CalculatedAPG = models.Ptr(agg.APG)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
