package store

import "time"

// JoinRun is one archived join.
type JoinRun struct {
	RunID       string    `db:"run_id"`
	Stamp       string    `db:"stamp"`
	Season      string    `db:"season"`
	League      string    `db:"league"`
	PlayerCount int       `db:"player_count"`
	UnifiedPath string    `db:"unified_path"`
	SummaryPath string    `db:"summary_path"`
	CreatedAt   time.Time `db:"created_at"`
}

// UnifiedPlayerRow is one player of a run; Record holds the full JSON
// record.
type UnifiedPlayerRow struct {
	RunID       string  `db:"run_id"`
	Code        string  `db:"code"`
	Name        string  `db:"name"`
	Team        string  `db:"team"`
	GamesPlayed int     `db:"games_played"`
	PPG         float64 `db:"ppg"`
	Record      string  `db:"record"`
}
