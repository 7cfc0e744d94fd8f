package models

// PlayerIdentity identifies a player within a single source. There is no
// cross-source key; sources are joined by name.
type PlayerIdentity struct {
	SourceID string `json:"source_id,omitempty"`
	Name     string `json:"name"`
	Team     string `json:"team,omitempty"`
}

// GamePerformance is one player's line from one box-score table.
// Every statistic is optional: nil means the source table lacked the
// column or the cell could not be parsed.
type GamePerformance struct {
	MatchID    string   `json:"match_id,omitempty"`
	Jornada    *int     `json:"jornada,omitempty"`
	PlayerName string   `json:"player_name"`
	PlayerID   *string  `json:"acb_id,omitempty"`
	GameURL    string   `json:"game_url,omitempty"`
	Minutes    *string  `json:"minutes,omitempty"`
	Points     *int     `json:"points,omitempty"`
	Rebounds   *int     `json:"rebounds,omitempty"`
	Assists    *int     `json:"assists,omitempty"`
	Steals     *int     `json:"steals,omitempty"`
	Blocks     *int     `json:"blocks,omitempty"`
	Turnovers  *int     `json:"turnovers,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`
}

// BoxScore holds every performance parsed from one game page.
type BoxScore struct {
	MatchID string            `json:"match_id"`
	Jornada *int              `json:"jornada,omitempty"`
	URL     string            `json:"url,omitempty"`
	Players []GamePerformance `json:"players"`
}

// PlayerSeasonAggregate is derived from Performances and never persisted as
// the source of truth.
type PlayerSeasonAggregate struct {
	Player       PlayerIdentity    `json:"player"`
	Performances []GamePerformance `json:"performances"`
	GamesPlayed  int               `json:"games_played"`
	PPG          float64           `json:"ppg"`
	RPG          float64           `json:"rpg"`
	APG          float64           `json:"apg"`
}

// Match is a fixture discovered on the league calendar.
type Match struct {
	MatchID string `json:"match_id"`
	Jornada int    `json:"jornada"`
}

// RosterPlayer is a player link discovered on a team roster page.
type RosterPlayer struct {
	ACBID  string `json:"acb_id"`
	Name   string `json:"name"`
	TeamID int    `json:"team_id"`
}

// PlayerDetails are the loosely parsed attributes of a player profile page.
type PlayerDetails struct {
	ACBID       string   `json:"acb_id"`
	Name        *string  `json:"name,omitempty"`
	Nationality *string  `json:"nationality,omitempty"`
	Height      *string  `json:"height,omitempty"`
	Jersey      *string  `json:"jersey,omitempty"`
	Position    *string  `json:"position,omitempty"`
	GamesPlayed *int     `json:"games_played,omitempty"`
	PPG         *float64 `json:"ppg,omitempty"`
	RPG         *float64 `json:"rpg,omitempty"`
	APG         *float64 `json:"apg,omitempty"`
}

// ACBAmericanPlayer is an American player discovered while scanning acb.com
// box scores, with the averages computed from the scanned games.
type ACBAmericanPlayer struct {
	ACBID         string            `json:"acb_id"`
	Name          string            `json:"name"`
	Nationality   string            `json:"nationality"`
	TeamID        *int              `json:"team_id,omitempty"`
	Position      *string           `json:"position,omitempty"`
	Height        *string           `json:"height,omitempty"`
	GameLog       []GamePerformance `json:"game_log,omitempty"`
	GamesTracked  int               `json:"games_tracked"`
	CalculatedPPG *float64          `json:"calculated_ppg,omitempty"`
	CalculatedRPG *float64          `json:"calculated_rpg,omitempty"`
	CalculatedAPG *float64          `json:"calculated_apg,omitempty"`
}

// Club is a processed TheSportsDB team.
type Club struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	ShortName       *string `json:"short_name"`
	Founded         *string `json:"founded"`
	Stadium         *string `json:"stadium"`
	StadiumCapacity *string `json:"stadium_capacity"`
	Location        *string `json:"location"`
	Country         *string `json:"country"`
	BadgeURL        *string `json:"badge_url"`
	LogoURL         *string `json:"logo_url"`
	Website         *string `json:"website"`
	Description     *string `json:"description"`
}

// Player is a processed TheSportsDB player.
type Player struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Nationality   *string `json:"nationality"`
	BirthDate     *string `json:"birth_date"`
	BirthLocation *string `json:"birth_location"`
	HeightStr     string  `json:"height_str"`
	HeightCM      *int    `json:"height_cm"`
	HeightFeet    *int    `json:"height_feet"`
	HeightInches  *int    `json:"height_inches"`
	Weight        *string `json:"weight"`
	Position      *string `json:"position"`
	TeamCode      string  `json:"team_code"`
	TeamName      string  `json:"team_name"`
	Jersey        *string `json:"jersey"`
	HeadshotURL   *string `json:"headshot_url"`
	Description   *string `json:"description"`
	Instagram     *string `json:"instagram"`
	Twitter       *string `json:"twitter"`
}

// Game is a processed schedule entry. Played is true only when both scores
// are present.
type Game struct {
	GameID    string  `json:"game_id"`
	Date      string  `json:"date"`
	Time      *string `json:"time"`
	Round     *string `json:"round"`
	HomeTeam  string  `json:"home_team"`
	AwayTeam  string  `json:"away_team"`
	HomeScore *int    `json:"home_score"`
	AwayScore *int    `json:"away_score"`
	Played    bool    `json:"played"`
	Venue     *string `json:"venue"`
	City      *string `json:"city"`
	Season    *string `json:"season"`
	Status    *string `json:"status"`
	Result    *string `json:"result"`
}

// PlayerStatSummary is the per-player aggregate written by the eurobasket
// pipeline.
type PlayerStatSummary struct {
	PlayerName    string            `json:"player_name"`
	GamesPlayed   int               `json:"games_played"`
	TotalPoints   int               `json:"total_points"`
	TotalRebounds int               `json:"total_rebounds"`
	TotalAssists  int               `json:"total_assists"`
	PPG           float64           `json:"ppg"`
	RPG           float64           `json:"rpg"`
	APG           float64           `json:"apg"`
	Performances  []GamePerformance `json:"performances"`
}

// Hometown is one enrichment record, keyed by the roster player code.
type Hometown struct {
	Code          string  `json:"code"`
	Name          string  `json:"name,omitempty"`
	HometownCity  *string `json:"hometown_city"`
	HometownState *string `json:"hometown_state"`
	College       *string `json:"college"`
	HighSchool    *string `json:"high_school"`
}

// TeamGame is a schedule entry seen from one team's side.
type TeamGame struct {
	Date          string  `json:"date"`
	Round         *string `json:"round"`
	Venue         *string `json:"venue"`
	HomeTeam      string  `json:"home_team"`
	AwayTeam      string  `json:"away_team"`
	HomeScore     *int    `json:"home_score"`
	AwayScore     *int    `json:"away_score"`
	Played        bool    `json:"played"`
	Opponent      string  `json:"opponent"`
	HomeAway      string  `json:"home_away"`
	TeamScore     *int    `json:"team_score"`
	OpponentScore *int    `json:"opponent_score"`
	Result        *string `json:"result"`
}

// UnifiedPlayerRecord is the full joined record for one roster player.
type UnifiedPlayerRecord struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Team     string  `json:"team"`
	TeamCode string  `json:"team_code"`
	Position *string `json:"position"`
	Jersey   *string `json:"jersey"`

	HeightCM     *int    `json:"height_cm"`
	HeightFeet   *int    `json:"height_feet"`
	HeightInches *int    `json:"height_inches"`
	Weight       *string `json:"weight"`

	BirthDate     *string `json:"birth_date"`
	Nationality   *string `json:"nationality"`
	BirthLocation *string `json:"birth_location"`

	HometownCity  *string `json:"hometown_city"`
	HometownState *string `json:"hometown_state"`
	Hometown      *string `json:"hometown"`
	College       *string `json:"college"`
	HighSchool    *string `json:"high_school"`

	HeadshotURL *string `json:"headshot_url"`
	Instagram   *string `json:"instagram"`
	Twitter     *string `json:"twitter"`

	GamesPlayed int               `json:"games_played"`
	PPG         float64           `json:"ppg"`
	RPG         float64           `json:"rpg"`
	APG         float64           `json:"apg"`
	GameLog     []GamePerformance `json:"game_log"`

	PastGames     []TeamGame `json:"past_games"`
	UpcomingGames []TeamGame `json:"upcoming_games"`

	Season string `json:"season"`
	League string `json:"league"`
}

// SummaryPlayer is the listing projection of UnifiedPlayerRecord.
type SummaryPlayer struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Team          string  `json:"team"`
	TeamCode      string  `json:"team_code"`
	Position      *string `json:"position"`
	Jersey        *string `json:"jersey"`
	HeightFeet    *int    `json:"height_feet"`
	HeightInches  *int    `json:"height_inches"`
	BirthDate     *string `json:"birth_date"`
	Hometown      *string `json:"hometown"`
	HometownState *string `json:"hometown_state"`
	College       *string `json:"college"`
	HighSchool    *string `json:"high_school"`
	HeadshotURL   *string `json:"headshot_url"`
	GamesPlayed   int     `json:"games_played"`
	PPG           float64 `json:"ppg"`
	RPG           float64 `json:"rpg"`
	APG           float64 `json:"apg"`
}

// Summary projects a unified record onto the listing fields.
func (r UnifiedPlayerRecord) Summary() SummaryPlayer {
	return SummaryPlayer{
		Code:          r.Code,
		Name:          r.Name,
		Team:          r.Team,
		TeamCode:      r.TeamCode,
		Position:      r.Position,
		Jersey:        r.Jersey,
		HeightFeet:    r.HeightFeet,
		HeightInches:  r.HeightInches,
		BirthDate:     r.BirthDate,
		Hometown:      r.Hometown,
		HometownState: r.HometownState,
		College:       r.College,
		HighSchool:    r.HighSchool,
		HeadshotURL:   r.HeadshotURL,
		GamesPlayed:   r.GamesPlayed,
		PPG:           r.PPG,
		RPG:           r.RPG,
		APG:           r.APG,
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
