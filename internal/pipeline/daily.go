package pipeline

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/fortuna/acbscout/internal/classify"
	"github.com/fortuna/acbscout/internal/ingest/eurobasket"
	"github.com/fortuna/acbscout/internal/ingest/sportsdb"
	"github.com/fortuna/acbscout/internal/models"
	"github.com/fortuna/acbscout/internal/report"
	"github.com/fortuna/acbscout/internal/snapshot"
)

// LeagueSource reads the fixture API. *sportsdb.Client implements it.
type LeagueSource interface {
	Clubs(ctx context.Context) ([]sportsdb.Raw, error)
	Players(ctx context.Context, clubs []sportsdb.Raw) ([]sportsdb.RawPlayer, error)
	Schedule(ctx context.Context) ([]sportsdb.Raw, error)
}

// BoxScoreSource reads eurobasket.com. *eurobasket.Client implements it.
type BoxScoreSource interface {
	GameLinks(ctx context.Context, played []models.Game) ([]string, error)
	TrackedPerformances(ctx context.Context, links []string, matcher eurobasket.Matcher) ([]models.GamePerformance, error)
}

// DailyOptions configure a daily run. The *Only flags stop the run after
// the named step.
type DailyOptions struct {
	Season       string
	League       string
	LeagueID     string
	TeamsOnly    bool
	PlayersOnly  bool
	ScheduleOnly bool
	NoBoxScores  bool
}

// DailyResult summarizes a daily run.
type DailyResult struct {
	RunID        string
	Clubs        int
	Players      int
	Americans    []models.Player
	Games        int
	Played       int
	Upcoming     int
	Performances int
	Leaders      []models.PlayerStatSummary
}

// Daily refreshes clubs, players, the schedule and eurobasket.com box
// scores, writing one snapshot per step.
func (r *Runner) Daily(ctx context.Context, league LeagueSource, boxScores BoxScoreSource, opts DailyOptions) (*DailyResult, error) {
	rn := r.begin("daily", opts.Season, opts.League)
	res := &DailyResult{RunID: rn.id}
	defer func() { r.dailyReport(res) }()

	rawClubs, err := league.Clubs(ctx)
	if err != nil {
		return res, errors.Wrap(err, "fetch clubs")
	}
	clubs := sportsdb.ProcessClubs(rawClubs)
	res.Clubs = len(clubs)
	if len(rawClubs) > 0 {
		if _, err := r.save(ctx, rn, snapshot.Clubs, false, len(clubs), snapshot.ClubsFile{
			Header: rn.header, LeagueID: opts.LeagueID, Count: len(clubs), Clubs: clubs,
		}); err != nil {
			return res, err
		}
	}
	if opts.TeamsOnly {
		return res, nil
	}

	rawPlayers, err := league.Players(ctx, rawClubs)
	if err != nil {
		return res, errors.Wrap(err, "fetch players")
	}
	players := sportsdb.ProcessPlayers(rawPlayers)
	americans := make([]models.Player, 0)
	for _, p := range players {
		if p.Nationality != nil && classify.IsAmericanNationality(*p.Nationality) {
			americans = append(americans, p)
		}
	}
	res.Players = len(players)
	res.Americans = americans
	rn.logger.Info("players processed", zap.Int("players", len(players)), zap.Int("americans", len(americans)))

	if _, err := r.save(ctx, rn, snapshot.Players, false, len(players), snapshot.PlayersFile{
		Header: rn.header, Count: len(players), Players: players,
	}); err != nil {
		return res, err
	}
	if _, err := r.save(ctx, rn, snapshot.AmericanPlayers, false, len(americans), snapshot.PlayersFile{
		Header: rn.header, Count: len(americans), Players: americans,
	}); err != nil {
		return res, err
	}
	if opts.PlayersOnly {
		return res, nil
	}

	rawGames, err := league.Schedule(ctx)
	if err != nil {
		return res, errors.Wrap(err, "fetch schedule")
	}
	games := sportsdb.ProcessSchedule(rawGames)
	var played []models.Game
	for _, g := range games {
		if g.Played {
			played = append(played, g)
		}
	}
	res.Games, res.Played, res.Upcoming = len(games), len(played), len(games)-len(played)

	if _, err := r.save(ctx, rn, snapshot.Schedule, false, len(games), snapshot.ScheduleFile{
		Header: rn.header, TotalGames: res.Games, Played: res.Played, Upcoming: res.Upcoming, Games: games,
	}); err != nil {
		return res, err
	}
	if opts.ScheduleOnly || opts.NoBoxScores || len(played) == 0 {
		return res, nil
	}

	links, err := boxScores.GameLinks(ctx, played)
	if err != nil {
		return res, errors.Wrap(err, "find box scores")
	}
	names := make([]string, 0, len(americans))
	for _, p := range americans {
		names = append(names, p.Name)
	}
	perfs, err := boxScores.TrackedPerformances(ctx, links, classify.NewVariantSet(names))
	if err != nil {
		return res, errors.Wrap(err, "read box scores")
	}
	res.Performances = len(perfs)
	if len(perfs) == 0 {
		return res, nil
	}

	if _, err := r.save(ctx, rn, snapshot.AmericanPerformances, false, len(perfs), snapshot.PerformancesFile{
		Header: rn.header, PerformanceCount: len(perfs), Performances: perfs,
	}); err != nil {
		return res, err
	}
	leaders := eurobasket.Summaries(perfs)
	res.Leaders = leaders
	if _, err := r.save(ctx, rn, snapshot.AmericanPlayerStats, false, len(leaders), snapshot.PlayerStatsFile{
		Header: rn.header, PlayerCount: len(leaders), Players: leaders,
	}); err != nil {
		return res, err
	}

	rn.logger.Info("run finished")
	return res, nil
}

func (r *Runner) dailyReport(res *DailyResult) {
	report.Totals(r.report, "Daily run", []report.Count{
		{Label: "Clubs", Value: res.Clubs},
		{Label: "Total players", Value: res.Players},
		{Label: "American players", Value: len(res.Americans)},
		{Label: "Games", Value: res.Games},
		{Label: "Played", Value: res.Played},
		{Label: "Upcoming", Value: res.Upcoming},
		{Label: "American performances", Value: res.Performances},
	})
	if len(res.Americans) > 0 {
		report.Americans(r.report, res.Americans, 10)
	}
	if len(res.Leaders) > 0 {
		report.StatLeaders(r.report, res.Leaders, 10)
	}
}
