package eurobasket

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// TeamAlias maps one spelling of a club name to its eurobasket.com team ID.
type TeamAlias struct {
	Name string
	ID   int
}

// DefaultTeams lists the league's clubs with the spellings used by the
// fixture API and by eurobasket.com itself.
var DefaultTeams = []TeamAlias{
	{"FC Barcelona Basquet", 100}, {"Barcelona", 100},
	{"Real Madrid Baloncesto", 101}, {"Real Madrid", 101},
	{"Valencia Basket", 145}, {"Valencia", 145},
	{"Baskonia", 108}, {"Saski Baskonia", 108},
	{"Joventut Badalona", 95}, {"Joventut", 95},
	{"Unicaja", 102}, {"Baloncesto Malaga", 102},
	{"CB Gran Canaria", 215}, {"Gran Canaria", 215},
	{"Bilbao Basket", 1324}, {"Bilbao", 1324},
	{"Basket Zaragoza", 1998}, {"Zaragoza", 1998},
	{"CB Murcia", 3016}, {"Murcia", 3016},
	{"Basquet Manresa", 216}, {"Manresa", 216},
	{"CB Breogan", 259}, {"Breogan", 259},
	{"Fundacion CB Granada", 403}, {"Granada", 403},
	{"BC Andorra", 2861}, {"Andorra", 2861},
	{"CB 1939 Canarias", 402}, {"Tenerife", 402},
	{"Basquet Girona", 3269}, {"Girona", 3269},
	{"Forca Lleida CE", 3343}, {"Lleida", 3343},
	{"CB San Pablo Burgos", 3091}, {"Burgos", 3091},
}

// TeamResolver finds eurobasket.com team IDs for club names.
type TeamResolver struct {
	teams     []TeamAlias
	threshold float64
}

// NewTeamResolver creates a resolver. Fuzzy matches must reach threshold
// Jaro-Winkler similarity; a threshold of zero or less disables them.
func NewTeamResolver(teams []TeamAlias, threshold float64) *TeamResolver {
	if teams == nil {
		teams = DefaultTeams
	}
	return &TeamResolver{teams: teams, threshold: threshold}
}

// Resolve returns the team ID for name. It tries an exact match, then
// case-insensitive containment either way in table order, then the most
// similar alias by Jaro-Winkler.
func (r *TeamResolver) Resolve(name string) (int, bool) {
	for _, t := range r.teams {
		if t.Name == name {
			return t.ID, true
		}
	}

	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return 0, false
	}
	for _, t := range r.teams {
		alias := strings.ToLower(t.Name)
		if strings.Contains(lower, alias) || strings.Contains(alias, lower) {
			return t.ID, true
		}
	}

	if r.threshold <= 0 {
		return 0, false
	}
	bestID, best := 0, 0.0
	for _, t := range r.teams {
		similarity := matchr.JaroWinkler(lower, strings.ToLower(t.Name), false)
		if similarity > best {
			best = similarity
			bestID = t.ID
		}
	}
	if best >= r.threshold {
		return bestID, true
	}
	return 0, false
}
