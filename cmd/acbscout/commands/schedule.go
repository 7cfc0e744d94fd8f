package commands

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/fortuna/acbscout/internal/classify"
	"github.com/fortuna/acbscout/internal/pipeline"
	"github.com/fortuna/acbscout/internal/scheduler"
)

var (
	scheduleRunNow bool
	scheduleACB    bool
)

func init() {
	f := scheduleCmd.Flags()
	f.BoolVar(&scheduleRunNow, "run-now", false, "Run once immediately, then daily.")
	f.BoolVar(&scheduleACB, "acb", false, "Also scan acb.com box scores on each run.")
	rootCmd.AddCommand(scheduleCmd)
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule [--run-now] [--acb]",
	Short: "Runs daily, then join, every day at DAILY_RUN_HOUR.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		task := func(ctx context.Context) error {
			return a.refresh(ctx, scheduleACB)
		}
		o := scheduler.NewOrchestrator(task, scheduler.Config{
			DailyHour: a.cfg.DailyRunHour,
			RunNow:    scheduleRunNow,
		}, a.logger)
		_ = o.Run(ctx)
		return nil
	},
}

// refresh runs the daily stage, optionally the acb.com stage, and then the
// join. A failed scrape stage does not prevent the join.
func (a *app) refresh(ctx context.Context, withACB bool) error {
	cfg := a.cfg
	runner := a.runner(ctx)
	var errs error

	if _, err := runner.Daily(ctx, a.leagueClient(), a.eurobasketClient(), pipeline.DailyOptions{
		Season: cfg.SeasonLabel, League: cfg.League, LeagueID: cfg.SportsDBLeagueID,
	}); err != nil {
		errs = errors.CombineErrors(errs, errors.Wrap(err, "daily"))
	}

	if withACB {
		if _, err := runner.ACB(ctx, a.acbClient(), classify.NewNameClassifier(cfg.KnownAmericans), a.acbOptions()); err != nil {
			errs = errors.CombineErrors(errs, errors.Wrap(err, "acb"))
		}
	}

	if ctx.Err() != nil {
		return errors.CombineErrors(errs, ctx.Err())
	}
	if _, err := runner.Join(ctx, pipeline.JoinOptions{Season: cfg.SeasonLabel, League: cfg.League}); err != nil {
		errs = errors.CombineErrors(errs, errors.Wrap(err, "join"))
	}
	return errs
}
