package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"
)

// DefaultKnownAmericans is the reference roster used to spot American
// players in acb.com box scores, where nationality is not shown.
var DefaultKnownAmericans = []string{
	"David Kravish", "James Webb", "Tyler Kalinoski", "D.J. Stephens", "DJ Stephens",
	"Jahlil Okafor", "Chris Chiozza", "Trent Forrest", "Grant Golden", "Ben Lammers",
	"Clevin Hannah", "Spencer Butterfield", "John Shurna", "Thad McFadden",
	"Troy Caupain", "Alex Renfroe", "Ethan Happ", "Obi Enechionyia", "Kevin Punter",
	"Miles Norris", "Myles Cale", "Matt Thomas", "Devon Dotson", "Chuma Okeke",
	"Braxton Key", "Darius Thompson", "Kameron Taylor", "Nathan Reuvers", "Omari Moore",
	"Will Clyburn", "Sergio Llull",
}

// Config holds runtime configuration for every acbscout command.
type Config struct {
	OutputDir string `validate:"required"`
	LogLevel  string `validate:"omitempty,oneof=debug info warn warning error"`
	LogFormat string `validate:"omitempty,oneof=console json"`
	HTTPAddr  string `validate:"required"`

	FetchMode        string        `validate:"oneof=http browser"`
	FetchMaxAttempts int           `validate:"min=1,max=10"`
	FetchTimeout     time.Duration `validate:"gt=0"`
	FetchDelay       time.Duration `validate:"gte=0"`
	FetchAPIDelay    time.Duration `validate:"gte=0"`
	UserAgent        string        `validate:"required"`

	ACBBaseURL     string   `validate:"required,url"`
	ACBSeasonID    string   `validate:"required"`
	ACBMaxJornadas int      `validate:"min=1"`
	ACBMaxMatches  int      `validate:"min=0"`
	KnownAmericans []string `validate:"dive,required"`

	SportsDBBaseURL    string `validate:"required,url"`
	SportsDBLeagueID   string `validate:"required"`
	SportsDBLeagueName string `validate:"required"`
	Season             string `validate:"required"`
	FallbackSeason     string
	SeasonLabel        string `validate:"required"`
	League             string `validate:"required"`

	EurobasketBaseURL  string  `validate:"required,url"`
	EurobasketMaxGames int     `validate:"min=0"`
	TeamMatchThreshold float64 `validate:"gte=0,lte=1"`

	RedisURL         string `validate:"omitempty,url"`
	BoxScoreCacheTTL time.Duration
	DatabaseURL      string

	DailyRunHour int `validate:"min=0,max=23"`
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		OutputDir: getEnv("OUTPUT_DIR", "output/json"),
		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "console")),
		HTTPAddr:  getEnv("HTTP_ADDR", ":5000"),

		FetchMode: strings.ToLower(getEnv("FETCH_MODE", FetchModeHTTP)),
		UserAgent: getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),

		ACBBaseURL:     getEnv("ACB_BASE_URL", "https://www.acb.com"),
		ACBSeasonID:    getEnv("ACB_SEASON_ID", "2025"),
		KnownAmericans: getList("ACB_KNOWN_AMERICANS", DefaultKnownAmericans),

		SportsDBBaseURL:    getEnv("SPORTSDB_BASE_URL", "https://www.thesportsdb.com/api/v1/json/3"),
		SportsDBLeagueID:   getEnv("SPORTSDB_LEAGUE_ID", "4408"),
		SportsDBLeagueName: getEnv("SPORTSDB_LEAGUE_NAME", "Spanish Liga ACB"),
		Season:             getEnv("SEASON", "2025-2026"),
		FallbackSeason:     getEnv("FALLBACK_SEASON", "2024-2025"),
		SeasonLabel:        getEnv("SEASON_LABEL", "2025-26"),
		League:             getEnv("LEAGUE", "Liga ACB"),

		EurobasketBaseURL: getEnv("EUROBASKET_BASE_URL", "https://www.eurobasket.com"),

		RedisURL:    getEnv("REDIS_URL", ""),
		DatabaseURL: getEnv("DATABASE_URL", ""),
	}

	var err error
	if cfg.FetchMaxAttempts, err = getInt("FETCH_MAX_ATTEMPTS", 3); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getDuration("FETCH_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.FetchDelay, err = getDuration("FETCH_DELAY", 500*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.FetchAPIDelay, err = getDuration("FETCH_API_DELAY", 300*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.ACBMaxJornadas, err = getInt("ACB_MAX_JORNADAS", 34); err != nil {
		return nil, err
	}
	if cfg.ACBMaxMatches, err = getInt("ACB_MAX_MATCHES", 50); err != nil {
		return nil, err
	}
	if cfg.EurobasketMaxGames, err = getInt("EUROBASKET_MAX_GAMES", 50); err != nil {
		return nil, err
	}
	if cfg.TeamMatchThreshold, err = getFloat("TEAM_MATCH_THRESHOLD", 0.9); err != nil {
		return nil, err
	}
	if cfg.BoxScoreCacheTTL, err = getDuration("BOXSCORE_CACHE_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.DailyRunHour, err = getInt("DAILY_RUN_HOUR", 3); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", key)
	}
	return v, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", key)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", key)
	}
	return v, nil
}

// getList splits a comma-separated variable, dropping empty entries.
func getList(key string, defaultValue []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		out := make([]string, len(defaultValue))
		copy(out, defaultValue)
		return out
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
