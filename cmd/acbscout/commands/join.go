package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fortuna/acbscout/internal/pipeline"
)

func init() {
	rootCmd.AddCommand(joinCmd)
}

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Joins the latest snapshots into unified player records.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		opts := pipeline.JoinOptions{Season: a.cfg.SeasonLabel, League: a.cfg.League}
		if _, err := a.runner(ctx).Join(ctx, opts); err != nil {
			a.logger.Error("join failed", zap.Error(err))
		}
		return nil
	},
}
