// Package pipeline runs the scrape and join stages end to end and writes
// their snapshots.
package pipeline

import (
	"context"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fortuna/acbscout/internal/logging"
	"github.com/fortuna/acbscout/internal/models"
	"github.com/fortuna/acbscout/internal/publisher"
	"github.com/fortuna/acbscout/internal/snapshot"
	"github.com/fortuna/acbscout/internal/store"
)

// Archive keeps a durable copy of each join.
type Archive interface {
	Save(ctx context.Context, run store.JoinRun, records []models.UnifiedPlayerRecord) error
}

// Matcher decides whether a name belongs to a tracked player.
type Matcher interface {
	IsAmerican(name string) bool
}

// Deps are the collaborators shared by every stage. Only Store is
// required.
type Deps struct {
	Store     *snapshot.Store
	Publisher publisher.Publisher
	Archive   Archive
	// Report receives the summary tables printed after each run.
	Report   io.Writer
	NewRunID func() string
	Logger   *zap.Logger
}

// Runner executes pipeline stages.
type Runner struct {
	store     *snapshot.Store
	publisher publisher.Publisher
	archive   Archive
	report    io.Writer
	newRunID  func() string
	logger    *zap.Logger
}

// New creates a Runner.
func New(deps Deps) *Runner {
	r := &Runner{
		store:     deps.Store,
		publisher: deps.Publisher,
		archive:   deps.Archive,
		report:    deps.Report,
		newRunID:  deps.NewRunID,
		logger:    logging.OrNop(deps.Logger).Named("pipeline"),
	}
	if r.publisher == nil {
		r.publisher = publisher.Nop{}
	}
	if r.report == nil {
		r.report = io.Discard
	}
	if r.newRunID == nil {
		r.newRunID = uuid.NewString
	}
	return r
}

// run is the bookkeeping of one stage execution.
type run struct {
	id     string
	stamp  string
	header snapshot.Header
	logger *zap.Logger
}

func (r *Runner) begin(stage, season, league string) *run {
	id := r.newRunID()
	logger := r.logger.With(zap.String("stage", stage), zap.String("run_id", id))
	logger.Info("run started")
	return &run{
		id:     id,
		stamp:  r.store.Stamp(),
		header: r.store.Header(season, league),
		logger: logger,
	}
}

// save writes a timestamped snapshot, optionally with its latest alias, and
// announces it. Publish failures are logged, never returned.
func (r *Runner) save(ctx context.Context, rn *run, dataset string, latest bool, count int, v any) (string, error) {
	var (
		path string
		err  error
	)
	if latest {
		path, err = r.store.SaveWithLatest(dataset, rn.stamp, v)
	} else {
		path, err = r.store.Save(dataset, rn.stamp, v)
	}
	if err != nil {
		return "", err
	}
	rn.logger.Info("snapshot saved", zap.String("dataset", dataset), zap.String("path", path), zap.Int("count", count))
	r.announce(ctx, rn, dataset, path, count)
	return path, nil
}

func (r *Runner) announce(ctx context.Context, rn *run, dataset, path string, count int) {
	err := r.publisher.PublishSnapshot(ctx, publisher.SnapshotEvent{
		RunID:      rn.id,
		Dataset:    dataset,
		Path:       path,
		Count:      count,
		ExportDate: rn.header.ExportDate,
	})
	if err != nil {
		rn.logger.Warn("snapshot event not published", zap.String("dataset", dataset), zap.Error(err))
	}
}
