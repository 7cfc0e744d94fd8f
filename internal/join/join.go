// Package join merges the roster, enrichment, schedule and box-score
// snapshots into unified player records.
package join

import (
	"sort"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/fortuna/acbscout/internal/logging"
	"github.com/fortuna/acbscout/internal/models"
	"github.com/fortuna/acbscout/internal/snapshot"
)

// ErrNoRoster is returned when there is no American players snapshot to
// join against.
var ErrNoRoster = errors.New("no roster snapshot")

// Sources are the decoded inputs of one join.
type Sources struct {
	Roster     []models.Player
	RosterPath string
	Hometowns  []models.Hometown
	Schedule   []models.Game
	Stats      []models.ACBAmericanPlayer
}

// Result describes the files written by a join.
type Result struct {
	Stamp       string
	Players     []models.UnifiedPlayerRecord
	UnifiedPath string
	SummaryPath string
}

// Joiner reads and writes snapshots in one store.
type Joiner struct {
	store  *snapshot.Store
	season string
	league string
	logger *zap.Logger
}

// New creates a Joiner. season and league label the output records.
func New(store *snapshot.Store, season, league string, logger *zap.Logger) *Joiner {
	return &Joiner{
		store:  store,
		season: season,
		league: league,
		logger: logging.OrNop(logger).Named("join"),
	}
}

// Load reads every input. Only a missing roster is an error; the other
// sources are optional and logged when absent.
func (j *Joiner) Load() (*Sources, error) {
	var roster snapshot.PlayersFile
	path, err := j.store.LoadLatest(snapshot.AmericanPlayersPattern, &roster)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			return nil, errors.Mark(err, ErrNoRoster)
		}
		return nil, errors.Wrap(err, "load roster")
	}
	src := &Sources{Roster: roster.Players, RosterPath: path}
	j.logger.Info("roster loaded", zap.String("file", path), zap.Int("players", len(roster.Players)))

	var hometowns snapshot.HometownsFile
	if path, err := j.store.LoadLatest(snapshot.HometownsPattern, &hometowns); err != nil {
		j.logger.Warn("no hometown data", zap.Error(err))
	} else {
		src.Hometowns = hometowns.Players
		j.logger.Info("hometowns loaded", zap.String("file", path), zap.Int("records", len(hometowns.Players)))
	}

	src.Schedule = j.bestSchedule()
	src.Stats = j.loadStats()
	return src, nil
}

// bestSchedule returns the games of the schedule file with the most games.
// Rate-limited runs can write short or empty schedules, so the newest file
// is not necessarily the best one.
func (j *Joiner) bestSchedule() []models.Game {
	files, err := j.store.Glob(snapshot.SchedulePattern)
	if err != nil {
		j.logger.Warn("schedule glob failed", zap.Error(err))
		return nil
	}

	var best []models.Game
	bestFile := ""
	for _, file := range files {
		var sched snapshot.ScheduleFile
		if err := snapshot.Read(file, &sched); err != nil {
			j.logger.Warn("schedule unreadable", zap.String("file", file), zap.Error(err))
			continue
		}
		if len(sched.Games) > len(best) {
			best = sched.Games
			bestFile = file
		}
	}
	if bestFile == "" {
		j.logger.Warn("no schedule data")
		return nil
	}
	j.logger.Info("schedule loaded", zap.String("file", bestFile), zap.Int("games", len(best)))
	return best
}

func (j *Joiner) loadStats() []models.ACBAmericanPlayer {
	var stats snapshot.ACBAmericansFile
	err := j.store.ReadName(snapshot.LatestFilename(snapshot.ACBAmericanPlayers), &stats)
	if errors.Is(err, snapshot.ErrNotFound) {
		_, err = j.store.LoadLatest(snapshot.ACBAmericanPlayersPattern, &stats)
	}
	if err != nil {
		j.logger.Warn("no acb stats", zap.Error(err))
		return nil
	}
	j.logger.Info("acb stats loaded", zap.Int("players", len(stats.Players)))
	return stats.Players
}

// Build produces one unified record per roster player, sorted by name.
// The output depends only on src.
func (j *Joiner) Build(src *Sources) []models.UnifiedPlayerRecord {
	hometowns := make(map[string]models.Hometown, len(src.Hometowns))
	for _, h := range src.Hometowns {
		if h.Code != "" {
			hometowns[h.Code] = h
		}
	}
	schedules := PartitionSchedule(src.Schedule)
	index := NewStatsIndex(src.Stats)

	records := make([]models.UnifiedPlayerRecord, 0, len(src.Roster))
	matched := 0
	for _, p := range src.Roster {
		rec := j.record(p, hometowns[p.Code], schedules)
		if stats := index.Match(p.Name); stats != nil {
			applyStats(&rec, stats)
			matched++
		}
		records = append(records, rec)
	}
	sort.SliceStable(records, func(a, b int) bool { return records[a].Name < records[b].Name })

	j.logger.Info("unified records built",
		zap.Int("players", len(records)),
		zap.Int("with_stats", matched),
		zap.Int("with_hometown", countWith(records, func(r models.UnifiedPlayerRecord) bool { return r.Hometown != nil })),
		zap.Int("with_college", countWith(records, func(r models.UnifiedPlayerRecord) bool { return r.College != nil })),
	)
	return records
}

func (j *Joiner) record(p models.Player, h models.Hometown, schedules TeamSchedules) models.UnifiedPlayerRecord {
	past, upcoming := schedules.For(p.TeamName)
	rec := models.UnifiedPlayerRecord{
		Code:          p.Code,
		Name:          p.Name,
		Team:          p.TeamName,
		TeamCode:      p.TeamCode,
		Position:      p.Position,
		Jersey:        p.Jersey,
		HeightCM:      p.HeightCM,
		HeightFeet:    p.HeightFeet,
		HeightInches:  p.HeightInches,
		Weight:        p.Weight,
		BirthDate:     p.BirthDate,
		Nationality:   p.Nationality,
		BirthLocation: p.BirthLocation,
		HometownCity:  h.HometownCity,
		HometownState: h.HometownState,
		College:       h.College,
		HighSchool:    h.HighSchool,
		HeadshotURL:   p.HeadshotURL,
		Instagram:     p.Instagram,
		Twitter:       p.Twitter,
		GameLog:       []models.GamePerformance{},
		PastGames:     past,
		UpcomingGames: upcoming,
		Season:        j.season,
		League:        j.league,
	}
	if nonEmpty(h.HometownCity) && nonEmpty(h.HometownState) {
		rec.Hometown = models.Ptr(*h.HometownCity + ", " + *h.HometownState)
	}
	return rec
}

func applyStats(rec *models.UnifiedPlayerRecord, stats *models.ACBAmericanPlayer) {
	if stats.GameLog != nil {
		rec.GameLog = stats.GameLog
	}
	rec.GamesPlayed = stats.GamesTracked
	rec.PPG = floatOr(stats.CalculatedPPG)
	rec.RPG = floatOr(stats.CalculatedRPG)
	rec.APG = floatOr(stats.CalculatedAPG)
}

// Summaries projects records onto the listing fields.
func Summaries(records []models.UnifiedPlayerRecord) []models.SummaryPlayer {
	out := make([]models.SummaryPlayer, 0, len(records))
	for _, r := range records {
		out = append(out, r.Summary())
	}
	return out
}

// Save writes the unified and summary snapshots, each with its latest alias.
func (j *Joiner) Save(records []models.UnifiedPlayerRecord) (*Result, error) {
	stamp := j.store.Stamp()
	header := j.store.Header(j.season, j.league)

	unifiedPath, err := j.store.SaveWithLatest(snapshot.UnifiedPlayers, stamp, snapshot.UnifiedFile{
		Header:      header,
		PlayerCount: len(records),
		Players:     records,
	})
	if err != nil {
		return nil, errors.Wrap(err, "save unified players")
	}

	summary := Summaries(records)
	summaryPath, err := j.store.SaveWithLatest(snapshot.PlayersSummary, stamp, snapshot.SummaryFile{
		Header:      header,
		PlayerCount: len(summary),
		Players:     summary,
	})
	if err != nil {
		return nil, errors.Wrap(err, "save players summary")
	}

	return &Result{
		Stamp:       stamp,
		Players:     records,
		UnifiedPath: unifiedPath,
		SummaryPath: summaryPath,
	}, nil
}

// Run loads, builds and saves.
func (j *Joiner) Run() (*Result, error) {
	src, err := j.Load()
	if err != nil {
		return nil, err
	}
	return j.Save(j.Build(src))
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}

func floatOr(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func countWith(records []models.UnifiedPlayerRecord, pred func(models.UnifiedPlayerRecord) bool) int {
	n := 0
	for _, r := range records {
		if pred(r) {
			n++
		}
	}
	return n
}
