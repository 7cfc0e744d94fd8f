package web

import (
	"net/url"
	"sort"
	"strings"

	"github.com/fortuna/acbscout/internal/models"
)

const (
	SortByName = "name"
	SortByTeam = "team"
)

// Filter selects and orders listing rows.
type Filter struct {
	Search string
	Team   string
	State  string
	Sort   string
}

// ParseFilter reads the listing query parameters. Search is used as given,
// surrounding whitespace included. Unknown sort keys fall back to name.
func ParseFilter(q url.Values) Filter {
	f := Filter{
		Search: q.Get("search"),
		Team:   q.Get("team"),
		State:  q.Get("state"),
		Sort:   q.Get("sort"),
	}
	if f.Sort != SortByTeam {
		f.Sort = SortByName
	}
	return f
}

// Apply returns the players that pass f, sorted by f.Sort. Players with
// equal keys keep their input order.
func (f Filter) Apply(players []models.SummaryPlayer) []models.SummaryPlayer {
	search := strings.ToLower(f.Search)
	out := make([]models.SummaryPlayer, 0, len(players))
	for _, p := range players {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if f.Team != "" && p.Team != f.Team {
			continue
		}
		if f.State != "" && deref(p.HometownState) != f.State {
			continue
		}
		out = append(out, p)
	}

	key := func(p models.SummaryPlayer) string { return p.Name }
	if f.Sort == SortByTeam {
		key = func(p models.SummaryPlayer) string { return p.Team }
	}
	sort.SliceStable(out, func(i, j int) bool { return key(out[i]) < key(out[j]) })
	return out
}

// SortURL is the relative link that re-sorts the listing by key while
// keeping the other filters.
func (f Filter) SortURL(key string) string {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Team != "" {
		q.Set("team", f.Team)
	}
	if f.State != "" {
		q.Set("state", f.State)
	}
	q.Set("sort", key)
	return "?" + q.Encode()
}

// Options returns the distinct non-empty teams and hometown states, sorted.
func Options(players []models.SummaryPlayer) (teams, states []string) {
	seenTeam := make(map[string]bool)
	seenState := make(map[string]bool)
	teams, states = []string{}, []string{}
	for _, p := range players {
		if p.Team != "" && !seenTeam[p.Team] {
			seenTeam[p.Team] = true
			teams = append(teams, p.Team)
		}
		if s := deref(p.HometownState); s != "" && !seenState[s] {
			seenState[s] = true
			states = append(states, s)
		}
	}
	sort.Strings(teams)
	sort.Strings(states)
	return teams, states
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
