package snapshot

import "github.com/fortuna/acbscout/internal/models"

// Dataset names. Files are "<dataset>_<stamp>.json" and, for datasets read
// by alias, "<dataset>_latest.json".
const (
	Clubs                  = "clubs"
	Players                = "players"
	AmericanPlayers        = "american_players"
	Schedule               = "schedule"
	AmericanPerformances   = "american_performances"
	AmericanPlayerStats    = "american_player_stats"
	ACBRosters             = "acb_rosters"
	ACBAmericanPlayers     = "acb_american_players"
	ACBBoxScores           = "acb_boxscores"
	UnifiedPlayers         = "unified_american_players"
	PlayersSummary         = "american_players_summary"
	AmericanHometownsFound = "american_hometowns_found"
)

// Patterns used to pick the newest file of a dataset. The american_players
// pattern requires a digit so that summary files are not matched.
const (
	AmericanPlayersPattern    = AmericanPlayers + "_2*.json"
	HometownsPattern          = AmericanHometownsFound + "_*.json"
	SchedulePattern           = Schedule + "_*.json"
	ACBAmericanPlayersPattern = ACBAmericanPlayers + "_2*.json"
)

type ClubsFile struct {
	Header
	LeagueID string        `json:"league_id"`
	Count    int           `json:"count"`
	Clubs    []models.Club `json:"clubs"`
}

type PlayersFile struct {
	Header
	Count   int             `json:"count"`
	Players []models.Player `json:"players"`
}

type ScheduleFile struct {
	Header
	TotalGames int           `json:"total_games"`
	Played     int           `json:"played"`
	Upcoming   int           `json:"upcoming"`
	Games      []models.Game `json:"games"`
}

type PerformancesFile struct {
	Header
	PerformanceCount int                      `json:"performance_count"`
	Performances     []models.GamePerformance `json:"performances"`
}

type PlayerStatsFile struct {
	Header
	PlayerCount int                        `json:"player_count"`
	Players     []models.PlayerStatSummary `json:"players"`
}

type RostersFile struct {
	Header
	PlayerCount int                   `json:"player_count"`
	Players     []models.RosterPlayer `json:"players"`
}

type ACBAmericansFile struct {
	Header
	PlayerCount int                        `json:"player_count"`
	Players     []models.ACBAmericanPlayer `json:"players"`
}

type BoxScoresFile struct {
	Header
	MatchCount int               `json:"match_count"`
	BoxScores  []models.BoxScore `json:"box_scores"`
}

type HometownsFile struct {
	Players []models.Hometown `json:"players"`
}

type UnifiedFile struct {
	Header
	PlayerCount int                          `json:"player_count"`
	Players     []models.UnifiedPlayerRecord `json:"players"`
}

type SummaryFile struct {
	Header
	PlayerCount int                    `json:"player_count"`
	Players     []models.SummaryPlayer `json:"players"`
}
