// Package repository reads and writes archived join runs.
package repository

import (
	"context"
	"database/sql"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/fortuna/acbscout/internal/models"
	"github.com/fortuna/acbscout/internal/store"
)

// ErrNoRuns is returned when the archive is empty.
var ErrNoRuns = errors.New("no archived join runs")

// RunRepository handles join run data access.
type RunRepository struct {
	db *store.Database
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *store.Database) *RunRepository {
	return &RunRepository{db: db}
}

// Save stores a run and its players in one transaction.
func (r *RunRepository) Save(ctx context.Context, run store.JoinRun, records []models.UnifiedPlayerRecord) error {
	rows, err := PlayerRows(run.RunID, records)
	if err != nil {
		return err
	}

	tx, err := r.db.DB().BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx save join run")
	}
	defer func() { _ = tx.Rollback() }()

	const insertRun = `
		INSERT INTO join_runs (run_id, stamp, season, league, player_count, unified_path, summary_path)
		VALUES (:run_id, :stamp, :season, :league, :player_count, :unified_path, :summary_path)`
	if _, err := tx.NamedExecContext(ctx, insertRun, run); err != nil {
		return errors.Wrapf(err, "insert join run %s", run.RunID)
	}

	const insertPlayer = `
		INSERT INTO unified_players (run_id, code, name, team, games_played, ppg, record)
		VALUES (:run_id, :code, :name, :team, :games_played, :ppg, :record)`
	for _, row := range rows {
		if _, err := tx.NamedExecContext(ctx, insertPlayer, row); err != nil {
			return errors.Wrapf(err, "insert player %s", row.Code)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit join run")
	}
	return nil
}

// Latest returns the most recent run.
func (r *RunRepository) Latest(ctx context.Context) (*store.JoinRun, error) {
	var run store.JoinRun
	err := r.db.DB().GetContext(ctx, &run, `
		SELECT run_id, stamp, season, league, player_count, unified_path, summary_path, created_at
		FROM join_runs
		ORDER BY created_at DESC
		LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, errors.Wrap(err, "query latest join run")
	}
	return &run, nil
}

// Players returns a run's records ordered by name.
func (r *RunRepository) Players(ctx context.Context, runID string) ([]models.UnifiedPlayerRecord, error) {
	var rows []store.UnifiedPlayerRow
	err := r.db.DB().SelectContext(ctx, &rows, `
		SELECT run_id, code, name, team, games_played, ppg, record
		FROM unified_players
		WHERE run_id = $1
		ORDER BY name`, runID)
	if err != nil {
		return nil, errors.Wrapf(err, "query players of run %s", runID)
	}

	out := make([]models.UnifiedPlayerRecord, 0, len(rows))
	for _, row := range rows {
		var rec models.UnifiedPlayerRecord
		if err := sonic.UnmarshalString(row.Record, &rec); err != nil {
			return nil, errors.Wrapf(err, "decode player %s", row.Code)
		}
		out = append(out, rec)
	}
	return out, nil
}

// PlayerRows flattens records into archive rows. Codes must be unique
// within a run.
func PlayerRows(runID string, records []models.UnifiedPlayerRecord) ([]store.UnifiedPlayerRow, error) {
	seen := make(map[string]bool, len(records))
	rows := make([]store.UnifiedPlayerRow, 0, len(records))
	for _, rec := range records {
		if seen[rec.Code] {
			return nil, errors.Newf("duplicate player code %q", rec.Code)
		}
		seen[rec.Code] = true

		data, err := sonic.MarshalString(rec)
		if err != nil {
			return nil, errors.Wrapf(err, "encode player %s", rec.Code)
		}
		rows = append(rows, store.UnifiedPlayerRow{
			RunID:       runID,
			Code:        rec.Code,
			Name:        rec.Name,
			Team:        rec.Team,
			GamesPlayed: rec.GamesPlayed,
			PPG:         rec.PPG,
			Record:      data,
		})
	}
	return rows, nil
}
