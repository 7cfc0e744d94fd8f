// Package sportsdb reads clubs, players and fixtures from the free
// TheSportsDB JSON API.
package sportsdb

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/fortuna/acbscout/internal/fetch"
	"github.com/fortuna/acbscout/internal/logging"
)

const BaseURL = "https://www.thesportsdb.com/api/v1/json/3"

// DefaultFallbackTeams are searched one by one when the league search
// returns no clubs.
var DefaultFallbackTeams = []string{
	"Real Madrid Baloncesto", "Barcelona Basquet", "Valencia Basket",
	"Unicaja", "Baskonia", "Joventut Badalona", "Bilbao Basket",
	"Gran Canaria", "Zaragoza Basket", "Manresa", "Murcia",
	"Girona", "Breogan", "Granada", "Andorra", "Fuenlabrada",
}

// Raw is one decoded API object.
type Raw = map[string]interface{}

// RawPlayer is an API player annotated with the club it was listed under.
type RawPlayer struct {
	Fields   Raw
	TeamID   string
	TeamName string
}

// Options configure a Client.
type Options struct {
	BaseURL        string
	LeagueID       string
	LeagueName     string
	Season         string
	FallbackSeason string
	FallbackTeams  []string
	// RequestDelay is slept between consecutive per-team requests.
	RequestDelay time.Duration
	Sleep        fetch.SleepFunc
}

// Client queries TheSportsDB.
type Client struct {
	fetcher fetch.Fetcher
	opts    Options
	logger  *zap.Logger
}

// NewClient creates a Client.
func NewClient(fetcher fetch.Fetcher, opts Options, logger *zap.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = BaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.FallbackTeams == nil {
		opts.FallbackTeams = DefaultFallbackTeams
	}
	if opts.Sleep == nil {
		opts.Sleep = fetch.Sleep
	}
	return &Client{
		fetcher: fetcher,
		opts:    opts,
		logger:  logging.OrNop(logger).Named("sportsdb"),
	}
}

// Endpoint builds an API URL with query parameters.
func (c *Client) Endpoint(path string, params url.Values) string {
	u := c.opts.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// Clubs returns the league's teams. When the league search is empty it
// searches each fallback name and keeps the first Spanish basketball hit.
func (c *Client) Clubs(ctx context.Context) ([]Raw, error) {
	data, err := c.get(ctx, "/search_all_teams.php", url.Values{"l": {c.opts.LeagueName}})
	if err != nil {
		return nil, err
	}
	if teams := extractObjects(data, "teams"); len(teams) > 0 {
		c.logger.Info("clubs found", zap.Int("count", len(teams)))
		return teams, nil
	}

	c.logger.Info("league search empty, trying fallback team search")
	var clubs []Raw
	for _, name := range c.opts.FallbackTeams {
		data, err := c.get(ctx, "/searchteams.php", url.Values{"t": {name}})
		if err != nil {
			return clubs, err
		}
		for _, team := range extractObjects(data, "teams") {
			if extractString(team, "strSport") == "Basketball" && extractString(team, "strCountry") == "Spain" {
				clubs = append(clubs, team)
				break
			}
		}
		if err := c.opts.Sleep(ctx, c.opts.RequestDelay); err != nil {
			return clubs, err
		}
	}
	c.logger.Info("clubs found via search", zap.Int("count", len(clubs)))
	return clubs, nil
}

// Players returns every listed player of every club, annotated with the
// club's ID and name. Clubs without an ID are skipped.
func (c *Client) Players(ctx context.Context, clubs []Raw) ([]RawPlayer, error) {
	var all []RawPlayer
	for _, club := range clubs {
		teamID := extractString(club, "idTeam")
		if teamID == "" {
			continue
		}
		teamName := fallbackString(extractString(club, "strTeam"), "Unknown")

		data, err := c.get(ctx, "/lookup_all_players.php", url.Values{"id": {teamID}})
		if err != nil {
			return all, err
		}
		players := extractObjects(data, "player")
		c.logger.Info("team players", zap.String("team", teamName), zap.Int("count", len(players)))
		for _, p := range players {
			all = append(all, RawPlayer{Fields: p, TeamID: teamID, TeamName: teamName})
		}

		if err := c.opts.Sleep(ctx, c.opts.RequestDelay); err != nil {
			return all, err
		}
	}
	c.logger.Info("players fetched", zap.Int("count", len(all)))
	return all, nil
}

// Schedule returns the season's events, falling back to the previous season
// when the current one has none.
func (c *Client) Schedule(ctx context.Context) ([]Raw, error) {
	seasons := []string{c.opts.Season}
	if c.opts.FallbackSeason != "" && c.opts.FallbackSeason != c.opts.Season {
		seasons = append(seasons, c.opts.FallbackSeason)
	}
	for _, season := range seasons {
		data, err := c.get(ctx, "/eventsseason.php", url.Values{"id": {c.opts.LeagueID}, "s": {season}})
		if err != nil {
			return nil, err
		}
		if events := extractObjects(data, "events"); len(events) > 0 {
			c.logger.Info("schedule found", zap.String("season", season), zap.Int("games", len(events)))
			return events, nil
		}
	}
	return nil, nil
}

// get fetches and decodes one endpoint. Fetch and decode failures are logged
// and reported as an empty response; only cancellation is returned.
func (c *Client) get(ctx context.Context, path string, params url.Values) (Raw, error) {
	endpoint := c.Endpoint(path, params)
	body, err := c.fetcher.Fetch(ctx, endpoint)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Error("api request failed", zap.String("endpoint", path), zap.Error(err))
		return nil, nil
	}
	data, err := decode(body)
	if err != nil {
		c.logger.Error("api response unreadable", zap.String("endpoint", path), zap.Error(err))
		return nil, nil
	}
	return data, nil
}

func decode(body []byte) (Raw, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, errors.New("empty body")
	}
	// Rate-limited requests get an HTML error page instead of JSON.
	if trimmed[0] == '<' {
		return nil, errors.Newf("html error page: %.80s", trimmed)
	}
	var result Raw
	if err := sonic.UnmarshalString(trimmed, &result); err != nil {
		return nil, errors.Wrap(err, "decode json")
	}
	return result, nil
}
