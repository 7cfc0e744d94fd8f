package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/acbscout/internal/classify"
	"github.com/fortuna/acbscout/internal/ingest/eurobasket"
	"github.com/fortuna/acbscout/internal/ingest/sportsdb"
	"github.com/fortuna/acbscout/internal/models"
	"github.com/fortuna/acbscout/internal/publisher"
	"github.com/fortuna/acbscout/internal/snapshot"
	"github.com/fortuna/acbscout/internal/store"
)

type recorder struct {
	events []publisher.SnapshotEvent
	err    error
}

func (r *recorder) PublishSnapshot(_ context.Context, ev publisher.SnapshotEvent) error {
	r.events = append(r.events, ev)
	return r.err
}

func (r *recorder) datasets() []string {
	var out []string
	for _, ev := range r.events {
		out = append(out, ev.Dataset)
	}
	return out
}

type fakeArchive struct {
	runs    []store.JoinRun
	players int
	err     error
}

func (a *fakeArchive) Save(_ context.Context, run store.JoinRun, records []models.UnifiedPlayerRecord) error {
	a.runs = append(a.runs, run)
	a.players += len(records)
	return a.err
}

func newRunner(t *testing.T, pub publisher.Publisher, archive Archive) (*Runner, *snapshot.Store, *bytes.Buffer) {
	t.Helper()
	st := snapshot.New(t.TempDir()).WithClock(func() time.Time {
		return time.Date(2025, 11, 1, 9, 30, 0, 0, time.UTC)
	})
	var out bytes.Buffer
	r := New(Deps{
		Store:     st,
		Publisher: pub,
		Archive:   archive,
		Report:    &out,
		NewRunID:  func() string { return "run-1" },
	})
	return r, st, &out
}

func files(t *testing.T, st *snapshot.Store) []string {
	t.Helper()
	entries, err := os.ReadDir(st.Dir())
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// ACB fakes.

type fakeACB struct {
	matches  []models.Match
	rosters  map[int][]models.RosterPlayer
	details  map[string]*models.PlayerDetails
	boxes    map[string]*models.BoxScore
	boxCalls int
}

func (f *fakeACB) SeasonMatches(context.Context, int) ([]models.Match, error) {
	return f.matches, nil
}

func (f *fakeACB) TeamRoster(_ context.Context, teamID int) ([]models.RosterPlayer, error) {
	return f.rosters[teamID], nil
}

func (f *fakeACB) PlayerDetails(_ context.Context, id string) (*models.PlayerDetails, error) {
	return f.details[id], nil
}

func (f *fakeACB) BoxScore(ctx context.Context, m models.Match) (*models.BoxScore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.boxCalls++
	return f.boxes[m.MatchID], nil
}

func perf(match string, jornada int, id, name string, pts, reb, ast int) models.GamePerformance {
	p := models.GamePerformance{
		MatchID:    match,
		Jornada:    models.Ptr(jornada),
		PlayerName: name,
		Points:     models.Ptr(pts),
		Rebounds:   models.Ptr(reb),
		Assists:    models.Ptr(ast),
	}
	if id != "" {
		p.PlayerID = models.Ptr(id)
	}
	return p
}

func TestACB(t *testing.T) {
	src := &fakeACB{
		matches: []models.Match{{MatchID: "m1", Jornada: 1}, {MatchID: "m2", Jornada: 1}, {MatchID: "m3", Jornada: 2}, {MatchID: "m4", Jornada: 2}},
		rosters: map[int][]models.RosterPlayer{
			9: {{ACBID: "30001", Name: "Kevin Roster", TeamID: 9}, {ACBID: "30002", Name: "Sergio Llull", TeamID: 9}},
		},
		details: map[string]*models.PlayerDetails{
			"30001": {ACBID: "30001", Nationality: models.Ptr("USA"), Position: models.Ptr("Base")},
			"30002": {ACBID: "30002", Nationality: models.Ptr("España")},
		},
		boxes: map[string]*models.BoxScore{
			"m1": {MatchID: "m1", Players: []models.GamePerformance{
				perf("m1", 1, "20210", "W. Clyburn", 21, 4, 2),
				perf("m1", 1, "30001", "K. Roster", 10, 1, 5),
				perf("m1", 1, "40000", "N. Mirotic", 25, 6, 1),
			}},
			"m2": nil,
			"m3": {MatchID: "m3", Players: []models.GamePerformance{
				perf("m3", 2, "20210", "W. Clyburn", 8, 3, 3),
				perf("m3", 2, "", "Will Clyburn Jr", 2, 0, 0),
			}},
		},
	}
	pub := &recorder{}
	r, st, out := newRunner(t, pub, nil)

	res, err := r.ACB(context.Background(), src, classify.NewNameClassifier([]string{"Will Clyburn"}), ACBOptions{
		Season: "2025-2026", League: "Liga ACB", MaxJornadas: 34, MaxMatches: 3,
		Rosters: true, Details: true, TeamIDs: []int{9},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, src.boxCalls)
	assert.Equal(t, 2, res.Rostered)
	assert.Equal(t, 4, res.Matches)
	assert.Equal(t, 2, res.BoxScores)
	assert.Equal(t, 4, res.Performances)

	require.Len(t, res.Americans, 2)
	roster, clyburn := res.Americans[0], res.Americans[1]
	assert.Equal(t, "30001", roster.ACBID)
	assert.Equal(t, "USA", roster.Nationality)
	assert.Equal(t, 9, *roster.TeamID)
	assert.Equal(t, 1, roster.GamesTracked)
	assert.Equal(t, 5.0, *roster.CalculatedAPG)

	assert.Equal(t, "20210", clyburn.ACBID)
	assert.Equal(t, "USA (matched)", clyburn.Nationality)
	assert.Equal(t, 2, clyburn.GamesTracked)
	assert.Equal(t, 14.5, *clyburn.CalculatedPPG)
	assert.Equal(t, 3.5, *clyburn.CalculatedRPG)
	assert.Equal(t, 2.5, *clyburn.CalculatedAPG)
	assert.Equal(t, 2, *clyburn.GameLog[1].Jornada)

	assert.Equal(t, []string{
		"acb_american_players_20251101_093000.json",
		"acb_american_players_latest.json",
		"acb_boxscores_20251101_093000.json",
		"acb_rosters_20251101_093000.json",
	}, files(t, st))
	assert.Equal(t, []string{"acb_rosters", "acb_american_players", "acb_boxscores"}, pub.datasets())
	assert.Equal(t, "run-1", pub.events[0].RunID)

	var latest snapshot.ACBAmericansFile
	require.NoError(t, st.ReadName("acb_american_players_latest.json", &latest))
	assert.Equal(t, 2, latest.PlayerCount)
	assert.Equal(t, "2025-2026", latest.Season)

	assert.Contains(t, out.String(), "W. Clyburn")
}

func TestACB_WithoutRosters(t *testing.T) {
	src := &fakeACB{
		matches: []models.Match{{MatchID: "m1", Jornada: 1}},
		boxes: map[string]*models.BoxScore{"m1": {MatchID: "m1", Players: []models.GamePerformance{
			perf("m1", 1, "30001", "K. Roster", 10, 1, 5),
		}}},
	}
	r, st, _ := newRunner(t, nil, nil)

	res, err := r.ACB(context.Background(), src, classify.NewNameClassifier(nil), ACBOptions{MaxJornadas: 1})
	require.NoError(t, err)
	assert.Empty(t, res.Americans)

	var rosters snapshot.RostersFile
	require.NoError(t, st.ReadName("acb_rosters_20251101_093000.json", &rosters))
	assert.Equal(t, 0, rosters.PlayerCount)
}

func TestACB_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &fakeACB{matches: []models.Match{{MatchID: "m1", Jornada: 1}}}
	r, st, _ := newRunner(t, nil, nil)

	_, err := r.ACB(ctx, src, classify.NewNameClassifier(nil), ACBOptions{MaxJornadas: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, files(t, st))
}

// Daily fakes.

type fakeLeague struct {
	clubs   []sportsdb.Raw
	players []sportsdb.RawPlayer
	events  []sportsdb.Raw
}

func (f *fakeLeague) Clubs(context.Context) ([]sportsdb.Raw, error) { return f.clubs, nil }

func (f *fakeLeague) Players(context.Context, []sportsdb.Raw) ([]sportsdb.RawPlayer, error) {
	return f.players, nil
}

func (f *fakeLeague) Schedule(context.Context) ([]sportsdb.Raw, error) { return f.events, nil }

type fakeBoxScores struct {
	played  []models.Game
	matched []string
	perfs   []models.GamePerformance
}

func (f *fakeBoxScores) GameLinks(_ context.Context, played []models.Game) ([]string, error) {
	f.played = played
	return []string{"https://eb/1"}, nil
}

func (f *fakeBoxScores) TrackedPerformances(_ context.Context, _ []string, m eurobasket.Matcher) ([]models.GamePerformance, error) {
	var kept []models.GamePerformance
	for _, p := range f.perfs {
		if m.IsAmerican(p.PlayerName) {
			kept = append(kept, p)
			f.matched = append(f.matched, p.PlayerName)
		}
	}
	return kept, nil
}

func newLeague() *fakeLeague {
	return &fakeLeague{
		clubs: []sportsdb.Raw{{"idTeam": "134160", "strTeam": "Real Madrid"}},
		players: []sportsdb.RawPlayer{
			{TeamID: "134160", TeamName: "Real Madrid", Fields: sportsdb.Raw{"idPlayer": "1", "strPlayer": "Will Clyburn", "strNationality": "United States"}},
			{TeamID: "134160", TeamName: "Real Madrid", Fields: sportsdb.Raw{"idPlayer": "2", "strPlayer": "Sergio Llull", "strNationality": "Spain"}},
		},
		events: []sportsdb.Raw{
			{"idEvent": "e1", "dateEvent": "2025-10-05", "strHomeTeam": "Real Madrid", "strAwayTeam": "Barcelona", "intHomeScore": "88", "intAwayScore": "80"},
			{"idEvent": "e2", "dateEvent": "2025-12-01", "strHomeTeam": "Barcelona", "strAwayTeam": "Real Madrid", "intHomeScore": nil, "intAwayScore": nil},
		},
	}
}

func TestDaily(t *testing.T) {
	boxes := &fakeBoxScores{perfs: []models.GamePerformance{
		{PlayerName: "Will Clyburn", Points: models.Ptr(20)},
		{PlayerName: "Sergio Llull", Points: models.Ptr(30)},
		{PlayerName: "Clyburn", Points: models.Ptr(10)},
	}}
	pub := &recorder{err: errors.New("redis down")}
	r, st, out := newRunner(t, pub, nil)

	res, err := r.Daily(context.Background(), newLeague(), boxes, DailyOptions{Season: "2025-2026", League: "Liga ACB", LeagueID: "4408"})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Clubs)
	assert.Equal(t, 2, res.Players)
	require.Len(t, res.Americans, 1)
	assert.Equal(t, 2, res.Games)
	assert.Equal(t, 1, res.Played)
	assert.Equal(t, 1, res.Upcoming)
	require.Len(t, boxes.played, 1)
	assert.Equal(t, []string{"Will Clyburn", "Clyburn"}, boxes.matched)
	assert.Equal(t, 2, res.Performances)
	require.Len(t, res.Leaders, 2)
	assert.Equal(t, "Will Clyburn", res.Leaders[0].PlayerName)

	assert.Equal(t, []string{
		"american_performances_20251101_093000.json",
		"american_player_stats_20251101_093000.json",
		"american_players_20251101_093000.json",
		"clubs_20251101_093000.json",
		"players_20251101_093000.json",
		"schedule_20251101_093000.json",
	}, files(t, st))
	assert.Len(t, pub.events, 6)

	var clubs snapshot.ClubsFile
	require.NoError(t, st.ReadName("clubs_20251101_093000.json", &clubs))
	assert.Equal(t, "4408", clubs.LeagueID)
	assert.Equal(t, 1, clubs.Count)

	var sched snapshot.ScheduleFile
	require.NoError(t, st.ReadName("schedule_20251101_093000.json", &sched))
	assert.Equal(t, 2, sched.TotalGames)
	assert.Equal(t, 1, sched.Played)

	assert.Contains(t, out.String(), "Will Clyburn")
}

func TestDaily_StopFlags(t *testing.T) {
	cases := []struct {
		name string
		opts DailyOptions
		want []string
	}{
		{"teams only", DailyOptions{TeamsOnly: true}, []string{"clubs_20251101_093000.json"}},
		{"players only", DailyOptions{PlayersOnly: true}, []string{
			"american_players_20251101_093000.json", "clubs_20251101_093000.json", "players_20251101_093000.json",
		}},
		{"schedule only", DailyOptions{ScheduleOnly: true}, []string{
			"american_players_20251101_093000.json", "clubs_20251101_093000.json", "players_20251101_093000.json", "schedule_20251101_093000.json",
		}},
		{"no box scores", DailyOptions{NoBoxScores: true}, []string{
			"american_players_20251101_093000.json", "clubs_20251101_093000.json", "players_20251101_093000.json", "schedule_20251101_093000.json",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			boxes := &fakeBoxScores{}
			r, st, _ := newRunner(t, nil, nil)
			_, err := r.Daily(context.Background(), newLeague(), boxes, tc.opts)
			require.NoError(t, err)
			assert.Equal(t, tc.want, files(t, st))
			assert.Nil(t, boxes.played)
		})
	}
}

func TestDaily_NoClubsSkipsClubsSnapshot(t *testing.T) {
	r, st, _ := newRunner(t, nil, nil)
	_, err := r.Daily(context.Background(), &fakeLeague{}, &fakeBoxScores{}, DailyOptions{})
	require.NoError(t, err)

	names := files(t, st)
	assert.NotContains(t, names, "clubs_20251101_093000.json")
	assert.Contains(t, names, "players_20251101_093000.json")

	var americans snapshot.PlayersFile
	require.NoError(t, st.ReadName("american_players_20251101_093000.json", &americans))
	assert.NotNil(t, americans.Players)
}

func TestJoin(t *testing.T) {
	pub := &recorder{}
	archive := &fakeArchive{}
	r, st, out := newRunner(t, pub, archive)

	_, err := st.Write("american_players_20251031_120000.json", snapshot.PlayersFile{Players: []models.Player{
		{Code: "1", Name: "Will Clyburn", TeamName: "Real Madrid"},
	}})
	require.NoError(t, err)

	res, err := r.Join(context.Background(), JoinOptions{Season: "2025-26", League: "Liga ACB"})
	require.NoError(t, err)
	assert.Equal(t, "run-1", res.RunID)
	assert.Len(t, res.Players, 1)
	assert.Equal(t, filepath.Join(st.Dir(), "unified_american_players_20251101_093000.json"), res.UnifiedPath)

	assert.Equal(t, []string{"unified_american_players", "american_players_summary"}, pub.datasets())
	require.Len(t, archive.runs, 1)
	assert.Equal(t, "run-1", archive.runs[0].RunID)
	assert.Equal(t, "20251101_093000", archive.runs[0].Stamp)
	assert.Equal(t, 1, archive.players)
	assert.Contains(t, out.String(), "Will Clyburn")
}

func TestJoin_ArchiveFailureIsNotFatal(t *testing.T) {
	r, st, _ := newRunner(t, nil, &fakeArchive{err: errors.New("db down")})
	_, err := st.Write("american_players_20251031_120000.json", snapshot.PlayersFile{})
	require.NoError(t, err)

	_, err = r.Join(context.Background(), JoinOptions{})
	require.NoError(t, err)
}

func TestJoin_MissingRoster(t *testing.T) {
	r, _, _ := newRunner(t, nil, nil)
	_, err := r.Join(context.Background(), JoinOptions{})
	require.Error(t, err)
}
