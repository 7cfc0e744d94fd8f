package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fortuna/acbscout/internal/models"
	"github.com/fortuna/acbscout/internal/snapshot"
)

var fixedNow = time.Date(2025, 11, 1, 9, 30, 0, 0, time.UTC)

func testPlayers() []models.UnifiedPlayerRecord {
	return []models.UnifiedPlayerRecord{
		{
			Code: "1", Name: "Will Clyburn", Team: "Real Madrid", TeamCode: "134160",
			Position: models.Ptr("Forward"), HeightFeet: models.Ptr(6), HeightInches: models.Ptr(7),
			HometownState: models.Ptr("MI"), Hometown: models.Ptr("Detroit, MI"),
			College: models.Ptr("Iowa State"), GamesPlayed: 2, PPG: 15.5, RPG: 4, APG: 2.5,
			GameLog: []models.GamePerformance{{MatchID: "104459", PlayerName: "W. Clyburn", Points: models.Ptr(18)}},
			PastGames: []models.TeamGame{{
				Date: "2025-10-05", Opponent: "Barcelona", HomeAway: "Home",
				TeamScore: models.Ptr(88), OpponentScore: models.Ptr(80), Played: true, Result: models.Ptr("W"),
			}},
		},
		{Code: "2", Name: "Kevin Punter", Team: "Barcelona", HometownState: models.Ptr("NY")},
		{Code: "3", Name: "Ethan Happ", Team: "Barcelona"},
	}
}

func newTestRouter(t *testing.T, players []models.UnifiedPlayerRecord) http.Handler {
	t.Helper()
	st := snapshot.New(t.TempDir()).WithClock(func() time.Time { return fixedNow })
	if players != nil {
		header := st.Header("2025-26", "Liga ACB")
		summaries := make([]models.SummaryPlayer, len(players))
		for i, p := range players {
			summaries[i] = p.Summary()
		}
		_, err := st.SaveWithLatest(snapshot.UnifiedPlayers, st.Stamp(), snapshot.UnifiedFile{
			Header: header, PlayerCount: len(players), Players: players,
		})
		require.NoError(t, err)
		_, err = st.SaveWithLatest(snapshot.PlayersSummary, st.Stamp(), snapshot.SummaryFile{
			Header: header, PlayerCount: len(summaries), Players: summaries,
		})
		require.NoError(t, err)
	}

	h, err := NewHandler(st, nil)
	require.NoError(t, err)
	return NewRouter(h, nil, nil)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func summaries(players []models.UnifiedPlayerRecord) []models.SummaryPlayer {
	out := make([]models.SummaryPlayer, len(players))
	for i, p := range players {
		out[i] = p.Summary()
	}
	return out
}

func names(players []models.SummaryPlayer) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Name
	}
	return out
}

func TestParseFilter(t *testing.T) {
	f := ParseFilter(url.Values{"search": {" punter "}, "team": {"Barcelona"}, "sort": {"ppg"}})
	assert.Equal(t, Filter{Search: " punter ", Team: "Barcelona", Sort: SortByName}, f)

	assert.Equal(t, SortByTeam, ParseFilter(url.Values{"sort": {"team"}}).Sort)
}

func TestFilterApply(t *testing.T) {
	players := summaries(testPlayers())

	cases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all by name", Filter{Sort: SortByName}, []string{"Ethan Happ", "Kevin Punter", "Will Clyburn"}},
		{"by team keeps input order on ties", Filter{Sort: SortByTeam}, []string{"Kevin Punter", "Ethan Happ", "Will Clyburn"}},
		{"search ignores case", Filter{Search: "CLYB", Sort: SortByName}, []string{"Will Clyburn"}},
		{"team is exact", Filter{Team: "barcelona", Sort: SortByName}, []string{}},
		{"state", Filter{State: "NY", Sort: SortByName}, []string{"Kevin Punter"}},
		{"combined", Filter{Search: "e", Team: "Barcelona", Sort: SortByName}, []string{"Ethan Happ", "Kevin Punter"}},
		{"search keeps whitespace", Filter{Search: "n p", Sort: SortByName}, []string{"Kevin Punter"}},
		{"padded search matches nothing", Filter{Search: " punter ", Sort: SortByName}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, names(tc.filter.Apply(players))); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	teams, states := Options(summaries(testPlayers()))
	assert.Equal(t, []string{"Barcelona", "Real Madrid"}, teams)
	assert.Equal(t, []string{"MI", "NY"}, states)

	teams, states = Options(nil)
	assert.Empty(t, teams)
	assert.Empty(t, states)
}

func TestSortURL(t *testing.T) {
	f := Filter{Search: "will", Team: "Real Madrid", Sort: SortByName}
	assert.Equal(t, "?search=will&sort=team&team=Real+Madrid", f.SortURL(SortByTeam))
	assert.Equal(t, "?sort=name", Filter{}.SortURL(SortByName))
}

func TestIndex(t *testing.T) {
	router := newTestRouter(t, testPlayers())

	rec := get(t, router, "/?team=Barcelona")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "Last updated: 2025-11-01T09:30:00.000000")
	assert.Contains(t, body, `<a href="/player/2">Kevin Punter</a>`)
	assert.NotContains(t, body, `<a href="/player/1">`)
	assert.Contains(t, body, `<option value="Real Madrid">Real Madrid</option>`)
	assert.Contains(t, body, `<option value="Barcelona" selected>Barcelona</option>`)
	assert.Contains(t, body, "Showing 2 players")
}

func TestIndex_NoData(t *testing.T) {
	rec := get(t, newTestRouter(t, nil), "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Last updated: No data")
	assert.Contains(t, rec.Body.String(), "Showing 0 players")
}

func TestPlayer(t *testing.T) {
	router := newTestRouter(t, testPlayers())

	rec := get(t, router, "/player/1")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h2>Will Clyburn</h2>")
	assert.Contains(t, body, "Detroit, MI")
	assert.Contains(t, body, "88 - 80")
	assert.Contains(t, body, "15.5 PPG")

	rec = get(t, router, "/player/3")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<strong>Hometown:</strong> Unknown")
}

func TestPlayer_NotFound(t *testing.T) {
	rec := get(t, newTestRouter(t, testPlayers()), "/player/999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Player not found\n", rec.Body.String())

	rec = get(t, newTestRouter(t, nil), "/player/1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIPlayers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/players?state=MI", nil)
	req.Header.Set("Origin", "https://example.org")
	rec := httptest.NewRecorder()
	newTestRouter(t, testPlayers()).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var resp playersResponse
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, []string{"Will Clyburn"}, names(resp.Players))
	assert.Equal(t, []string{"Barcelona", "Real Madrid"}, resp.Teams)
}

func TestAPIPlayer(t *testing.T) {
	router := newTestRouter(t, testPlayers())

	rec := get(t, router, "/api/v1/players/1")
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.UnifiedPlayerRecord
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &got))
	if diff := cmp.Diff(testPlayers()[0], got); diff != "" {
		t.Errorf("APIPlayer mismatch (-want +got):\n%s", diff)
	}

	rec = get(t, router, "/api/v1/players/404")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Player not found","status":404}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/players", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	rec := httptest.NewRecorder()
	newTestRouter(t, nil).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.MethodGet, rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestRouter(t, testPlayers()), "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"acbscout","data_loaded":true}`, rec.Body.String())

	rec = get(t, newTestRouter(t, nil), "/health")
	assert.JSONEq(t, `{"status":"healthy","service":"acbscout","data_loaded":false}`, rec.Body.String())
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := get(t, h, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
