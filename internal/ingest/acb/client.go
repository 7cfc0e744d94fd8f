// Package acb scrapes calendars, rosters, player pages and box scores from
// the official league site.
package acb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fortuna/acbscout/internal/fetch"
	"github.com/fortuna/acbscout/internal/ingest/boxscore"
	"github.com/fortuna/acbscout/internal/logging"
	"github.com/fortuna/acbscout/internal/models"
)

// DefaultTeams are the club IDs used by acb.com roster URLs.
var DefaultTeams = map[int]string{
	1:  "Unicaja",
	2:  "Valencia Basket",
	3:  "Joventut Badalona",
	4:  "Baskonia",
	5:  "Dreamland Gran Canaria",
	6:  "CB Breogan",
	7:  "BAXI Manresa",
	8:  "Surne Bilbao",
	9:  "Real Madrid",
	10: "Barça",
	11: "MoraBanc Andorra",
	12: "UCAM Murcia",
	13: "Coviran Granada",
	14: "La Laguna Tenerife",
	15: "Casademont Zaragoza",
	16: "Basquet Girona",
	17: "Hiopos Lleida",
	18: "Rio Breogan",
}

// Options configure a Client.
type Options struct {
	BaseURL  string
	SeasonID string
	// PageDelay is slept after each calendar page, on top of the fetcher's
	// own throttle.
	PageDelay time.Duration
	Sleep     fetch.SleepFunc
}

// Client reads acb.com pages.
type Client struct {
	pages     fetch.Fetcher
	boxScores fetch.Fetcher
	extractor *boxscore.Extractor
	opts      Options
	logger    *zap.Logger
}

// NewClient creates a Client. boxScores may be nil, in which case pages is
// used for box scores too.
func NewClient(pages, boxScores fetch.Fetcher, opts Options, logger *zap.Logger) *Client {
	if boxScores == nil {
		boxScores = pages
	}
	if opts.Sleep == nil {
		opts.Sleep = fetch.Sleep
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Client{
		pages:     pages,
		boxScores: boxScores,
		extractor: boxscore.New(boxscore.ACB),
		opts:      opts,
		logger:    logging.OrNop(logger).Named("acb"),
	}
}

// CalendarURL is the fixture list of one jornada.
func (c *Client) CalendarURL(jornada int) string {
	return fmt.Sprintf("%s/calendario/index/temporada_id/%s/competicion_id/1/jornada_numero/%d", c.opts.BaseURL, c.opts.SeasonID, jornada)
}

// RosterURL is a team's squad page.
func (c *Client) RosterURL(teamID int) string {
	return fmt.Sprintf("%s/club/plantilla/id/%d/temporada_id/%s", c.opts.BaseURL, teamID, c.opts.SeasonID)
}

// PlayerURL is a player's profile page.
func (c *Client) PlayerURL(playerID string) string {
	return fmt.Sprintf("%s/jugador/ver/%s/temporada_id/%s", c.opts.BaseURL, playerID, c.opts.SeasonID)
}

// BoxScoreURL is a game's statistics page.
func (c *Client) BoxScoreURL(matchID string) string {
	return fmt.Sprintf("%s/partido/estadisticas/id/%s", c.opts.BaseURL, matchID)
}

// SeasonMatches walks jornadas 1..maxJornadas and returns every match found,
// each tagged with the first jornada that listed it. Pages that cannot be
// fetched are skipped.
func (c *Client) SeasonMatches(ctx context.Context, maxJornadas int) ([]models.Match, error) {
	seen := make(map[string]bool)
	var matches []models.Match

	for jornada := 1; jornada <= maxJornadas; jornada++ {
		html, err := c.pages.Fetch(ctx, c.CalendarURL(jornada))
		if err != nil {
			if ctx.Err() != nil {
				return matches, ctx.Err()
			}
			c.logger.Warn("calendar page unavailable", zap.Int("jornada", jornada), zap.Error(err))
			continue
		}

		for _, id := range ParseCalendar(html) {
			if seen[id] {
				continue
			}
			seen[id] = true
			matches = append(matches, models.Match{MatchID: id, Jornada: jornada})
		}
		c.logger.Info("calendar page scanned", zap.Int("jornada", jornada), zap.Int("total_matches", len(matches)))

		if err := c.opts.Sleep(ctx, c.opts.PageDelay); err != nil {
			return matches, err
		}
	}
	return matches, nil
}

// TeamRoster returns the players on one team's squad page. A page that
// cannot be fetched yields no players.
func (c *Client) TeamRoster(ctx context.Context, teamID int) ([]models.RosterPlayer, error) {
	html, err := c.pages.Fetch(ctx, c.RosterURL(teamID))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("roster page unavailable", zap.Int("team_id", teamID), zap.Error(err))
		return nil, nil
	}
	return ParseRoster(html, teamID), nil
}

// PlayerDetails fetches and parses a player's profile page.
func (c *Client) PlayerDetails(ctx context.Context, playerID string) (*models.PlayerDetails, error) {
	html, err := c.pages.Fetch(ctx, c.PlayerURL(playerID))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("player page unavailable", zap.String("acb_id", playerID), zap.Error(err))
		return nil, nil
	}
	details := ParsePlayerDetails(html, playerID)
	return &details, nil
}

// BoxScore fetches the statistics page of a match. It returns nil without
// an error when the page is unavailable.
func (c *Client) BoxScore(ctx context.Context, match models.Match) (*models.BoxScore, error) {
	url := c.BoxScoreURL(match.MatchID)
	html, err := c.boxScores.Fetch(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("box score unavailable", zap.String("match_id", match.MatchID), zap.Error(err))
		return nil, nil
	}

	jornada := match.Jornada
	players := c.extractor.Extract(html, match.MatchID, url)
	for i := range players {
		players[i].Jornada = &jornada
	}
	return &models.BoxScore{
		MatchID: match.MatchID,
		Jornada: &jornada,
		URL:     url,
		Players: players,
	}, nil
}
