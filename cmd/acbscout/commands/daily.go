package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fortuna/acbscout/internal/pipeline"
)

var dailyOpts pipeline.DailyOptions

func init() {
	f := dailyCmd.Flags()
	f.BoolVar(&dailyOpts.TeamsOnly, "teams-only", false, "Only refresh clubs.")
	f.BoolVar(&dailyOpts.PlayersOnly, "players-only", false, "Stop after clubs and players.")
	f.BoolVar(&dailyOpts.ScheduleOnly, "schedule-only", false, "Stop after the schedule.")
	f.BoolVar(&dailyOpts.NoBoxScores, "no-boxscores", false, "Skip eurobasket.com box scores.")
	rootCmd.AddCommand(dailyCmd)
}

var dailyCmd = &cobra.Command{
	Use:   "daily [--teams-only | --players-only | --schedule-only] [--no-boxscores]",
	Short: "Refreshes clubs, players, the schedule and box-score stats.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		cfg := a.cfg
		opts := dailyOpts
		opts.Season = cfg.SeasonLabel
		opts.League = cfg.League
		opts.LeagueID = cfg.SportsDBLeagueID

		if _, err := a.runner(ctx).Daily(ctx, a.leagueClient(), a.eurobasketClient(), opts); err != nil {
			a.logger.Error("daily run failed", zap.Error(err))
		}
		return nil
	},
}
