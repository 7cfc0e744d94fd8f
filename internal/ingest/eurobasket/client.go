// Package eurobasket scrapes league box scores from eurobasket.com, where
// displayed player names are obfuscated but player links carry the real
// ones.
package eurobasket

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/fortuna/acbscout/internal/fetch"
	"github.com/fortuna/acbscout/internal/ingest/boxscore"
	"github.com/fortuna/acbscout/internal/logging"
	"github.com/fortuna/acbscout/internal/models"
	"github.com/fortuna/acbscout/internal/stats"
)

const (
	BaseURL = "https://www.eurobasket.com"

	boxScoreMarker = "/boxScores/Spain/"
)

// Matcher decides whether a box-score name belongs to a tracked player.
type Matcher interface {
	IsAmerican(name string) bool
}

// Options configure a Client.
type Options struct {
	BaseURL string
	Season  string
	// MaxGames caps how many box scores one scan reads.
	MaxGames int
	// RequestDelay is slept after every box-score request.
	RequestDelay time.Duration
	Sleep        fetch.SleepFunc
	Teams        *TeamResolver
}

// Client reads eurobasket.com pages.
type Client struct {
	fetcher   fetch.Fetcher
	extractor *boxscore.Extractor
	opts      Options
	logger    *zap.Logger
}

// NewClient creates a Client.
func NewClient(fetcher fetch.Fetcher, opts Options, logger *zap.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = BaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.Sleep == nil {
		opts.Sleep = fetch.Sleep
	}
	if opts.Teams == nil {
		opts.Teams = NewTeamResolver(nil, 0)
	}
	return &Client{
		fetcher:   fetcher,
		extractor: boxscore.New(boxscore.Eurobasket),
		opts:      opts,
		logger:    logging.OrNop(logger).Named("eurobasket"),
	}
}

// ScheduleURL is the league's fixture page for the configured season.
func (c *Client) ScheduleURL() string {
	params := url.Values{
		"SectionID": {"2"},
		"League":    {"1"},
		"Season":    {c.opts.Season},
		"LName":     {"Spain"},
	}
	return c.opts.BaseURL + "/Spain/games-schedule.aspx?" + params.Encode()
}

// BoxScoreURL builds the box-score address of a game from its date and the
// two clubs' names. It fails when the date is not YYYY-MM-DD or a club
// cannot be resolved.
func (c *Client) BoxScoreURL(game models.Game) (string, bool) {
	day, err := time.Parse(time.DateOnly, game.Date)
	if err != nil {
		return "", false
	}
	home, ok := c.opts.Teams.Resolve(game.HomeTeam)
	if !ok {
		return "", false
	}
	away, ok := c.opts.Teams.Resolve(game.AwayTeam)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s%s%d/%s_%d_%d.aspx", c.opts.BaseURL, boxScoreMarker, day.Year(), day.Format("20060102"), home, away), true
}

// ParseScheduleLinks returns the distinct box-score links of a schedule
// page in document order. Site-relative links are made absolute.
func ParseScheduleLinks(html []byte, base string) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil
	}
	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, boxScoreMarker) {
			return
		}
		if strings.HasPrefix(href, "/") {
			href = base + href
		}
		if seen[href] {
			return
		}
		seen[href] = true
		links = append(links, href)
	})
	return links
}

// BoxScoreLinks reads the schedule page. An unavailable page yields no
// links.
func (c *Client) BoxScoreLinks(ctx context.Context) ([]string, error) {
	html, err := c.fetcher.Fetch(ctx, c.ScheduleURL())
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Error("schedule page unavailable", zap.Error(err))
		return nil, nil
	}
	links := ParseScheduleLinks(html, c.opts.BaseURL)
	c.logger.Info("box score links found", zap.Int("count", len(links)))
	return links, nil
}

// GameLinks returns box-score links for played games, taken from the
// schedule page when it lists any and built from the fixtures otherwise.
func (c *Client) GameLinks(ctx context.Context, played []models.Game) ([]string, error) {
	links, err := c.BoxScoreLinks(ctx)
	if err != nil || len(links) > 0 {
		return links, err
	}
	seen := make(map[string]bool)
	for _, g := range played {
		link, ok := c.BoxScoreURL(g)
		if !ok || seen[link] {
			continue
		}
		seen[link] = true
		links = append(links, link)
	}
	c.logger.Info("box score links built from fixtures", zap.Int("count", len(links)))
	return links, nil
}

// BoxScore fetches and parses one game. An unavailable page yields no
// performances.
func (c *Client) BoxScore(ctx context.Context, link string) ([]models.GamePerformance, error) {
	html, err := c.fetcher.Fetch(ctx, link)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Debug("box score unavailable", zap.String("url", link), zap.Error(err))
		return nil, nil
	}
	return c.extractor.Extract(html, "", link), nil
}

// TrackedPerformances reads up to MaxGames box scores and keeps the lines
// whose names the matcher accepts.
func (c *Client) TrackedPerformances(ctx context.Context, links []string, matcher Matcher) ([]models.GamePerformance, error) {
	if c.opts.MaxGames > 0 && len(links) > c.opts.MaxGames {
		links = links[:c.opts.MaxGames]
	}

	var kept []models.GamePerformance
	for i, link := range links {
		if (i+1)%10 == 0 {
			c.logger.Info("box score progress", zap.Int("done", i+1), zap.Int("total", len(links)))
		}
		perfs, err := c.BoxScore(ctx, link)
		if err != nil {
			return kept, err
		}
		for _, p := range perfs {
			if matcher.IsAmerican(p.PlayerName) {
				kept = append(kept, p)
			}
		}
		if err := c.opts.Sleep(ctx, c.opts.RequestDelay); err != nil {
			return kept, err
		}
	}
	c.logger.Info("tracked performances found", zap.Int("count", len(kept)))
	return kept, nil
}

// Summaries totals performances per player name and orders the players by
// points per game, highest first. Equal averages keep first-seen order.
func Summaries(perfs []models.GamePerformance) []models.PlayerStatSummary {
	groups := stats.GroupBy(perfs, stats.ByPlayerName)
	out := make([]models.PlayerStatSummary, 0, len(groups))
	for _, g := range groups {
		gp := len(g.Performances)
		t := stats.Sum(g.Performances)
		out = append(out, models.PlayerStatSummary{
			PlayerName:    g.Key,
			GamesPlayed:   gp,
			TotalPoints:   t.Points,
			TotalRebounds: t.Rebounds,
			TotalAssists:  t.Assists,
			PPG:           stats.PerGame(t.Points, gp),
			RPG:           stats.PerGame(t.Rebounds, gp),
			APG:           stats.PerGame(t.Assists, gp),
			Performances:  g.Performances,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PPG > out[j].PPG })
	return out
}
