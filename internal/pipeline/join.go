package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/fortuna/acbscout/internal/join"
	"github.com/fortuna/acbscout/internal/report"
	"github.com/fortuna/acbscout/internal/snapshot"
	"github.com/fortuna/acbscout/internal/store"
)

// JoinOptions label the joined records.
type JoinOptions struct {
	Season string
	League string
}

// JoinResult summarizes a join run.
type JoinResult struct {
	RunID string
	*join.Result
}

// Join builds the unified and summary snapshots and archives the run when
// an archive is configured. Archive failures are logged, not returned.
func (r *Runner) Join(ctx context.Context, opts JoinOptions) (*JoinResult, error) {
	rn := r.begin("join", opts.Season, opts.League)

	joined, err := join.New(r.store, opts.Season, opts.League, rn.logger).Run()
	if err != nil {
		return nil, err
	}
	res := &JoinResult{RunID: rn.id, Result: joined}
	count := len(joined.Players)

	r.announce(ctx, rn, snapshot.UnifiedPlayers, joined.UnifiedPath, count)
	r.announce(ctx, rn, snapshot.PlayersSummary, joined.SummaryPath, count)

	if r.archive != nil {
		err := r.archive.Save(ctx, store.JoinRun{
			RunID:       rn.id,
			Stamp:       joined.Stamp,
			Season:      opts.Season,
			League:      opts.League,
			PlayerCount: count,
			UnifiedPath: joined.UnifiedPath,
			SummaryPath: joined.SummaryPath,
		}, joined.Players)
		if err != nil {
			rn.logger.Error("join run not archived", zap.Error(err))
		} else {
			rn.logger.Info("join run archived", zap.Int("players", count))
		}
	}

	report.Totals(r.report, "Join", []report.Count{
		{Label: "Total players", Value: count},
		{Label: "With hometown", Value: countIf(joined, func(i int) bool { return joined.Players[i].Hometown != nil })},
		{Label: "With college", Value: countIf(joined, func(i int) bool { return joined.Players[i].College != nil })},
	})
	report.Unified(r.report, joined.Players, 15)
	rn.logger.Info("run finished")
	return res, nil
}

func countIf(res *join.Result, pred func(int) bool) int {
	n := 0
	for i := range res.Players {
		if pred(i) {
			n++
		}
	}
	return n
}
