package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fortuna/acbscout/internal/classify"
)

var (
	acbMaxMatches int
	acbRosters    bool
	acbDetails    bool
)

func init() {
	f := acbCmd.Flags()
	f.IntVar(&acbMaxMatches, "max-matches", -1, "Box scores to read (default ACB_MAX_MATCHES).")
	f.BoolVar(&acbRosters, "rosters", false, "Also scan every team roster.")
	f.BoolVar(&acbDetails, "details", false, "Read each rostered player's profile to find Americans by nationality (implies --rosters).")
	rootCmd.AddCommand(acbCmd)
}

var acbCmd = &cobra.Command{
	Use:   "acb [--max-matches N] [--rosters] [--details]",
	Short: "Scans acb.com box scores for American players.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		opts := a.acbOptions()
		opts.Rosters = acbRosters || acbDetails
		opts.Details = acbDetails
		if acbMaxMatches >= 0 {
			opts.MaxMatches = acbMaxMatches
		}

		known := classify.NewNameClassifier(a.cfg.KnownAmericans)
		if _, err := a.runner(ctx).ACB(ctx, a.acbClient(), known, opts); err != nil {
			a.logger.Error("acb run failed", zap.Error(err))
		}
		return nil
	},
}
