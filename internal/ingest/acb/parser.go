package acb

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/fortuna/acbscout/internal/models"
)

var (
	matchLinkRe  = regexp.MustCompile(`/partido/estadisticas/id/(\d+)`)
	playerLinkRe = regexp.MustCompile(`/jugador/ver/(\d+)`)

	heightRe  = regexp.MustCompile(`(\d[,.]\d{2})\s*m`)
	jerseyRe  = regexp.MustCompile(`(?i)Dorsal[:\s]*(\d+)`)
	gamesRe   = regexp.MustCompile(`(?i)Partidos[:\s]*(\d+)`)
	pointsRe  = regexp.MustCompile(`(?i)Puntos[^0-9]*(\d+[,.]\d)`)
	reboundRe = regexp.MustCompile(`(?i)Rebotes[^0-9]*(\d+[,.]\d)`)
	assistRe  = regexp.MustCompile(`(?i)Asistencias[^0-9]*(\d+[,.]\d)`)
)

// nationalityPatterns are tried in order; the first that matches the page
// text decides the nationality.
var nationalityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:EE\.UU|USA)\b|(?i:\bEstados Unidos\b|\bUnited States\b)`),
	regexp.MustCompile(`(?i)Espa[ñn]a|Spain`),
	regexp.MustCompile(`(?i)Francia|France`),
	regexp.MustCompile(`(?i)Serbia`),
	regexp.MustCompile(`(?i)Croacia|Croatia`),
	regexp.MustCompile(`(?i)Argentina`),
	regexp.MustCompile(`(?i)Italia|Italy`),
}

// usaMarkers rewrite a matched nationality to "USA". EE.UU and USA only
// match as upper-case whole words; "usa" is a Spanish verb.
var usaMarkers = []string{"ee.uu", "usa", "estados unidos"}

// positions in lookup order; the first one found in the page wins.
var positions = []string{"Base", "Escolta", "Alero", "Ala-Pívot", "Pívot", "Guard", "Forward", "Center"}

func parse(html []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(html))
}

// ParseCalendar returns the match IDs linked from one calendar page, in
// document order and without repeats.
func ParseCalendar(html []byte) []string {
	doc, err := parse(html)
	if err != nil {
		return nil
	}
	seen := make(map[string]bool)
	var ids []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		m := matchLinkRe.FindStringSubmatch(href)
		if m == nil || seen[m[1]] {
			return
		}
		seen[m[1]] = true
		ids = append(ids, m[1])
	})
	return ids
}

// ParseRoster returns the players linked from a team roster page. Players
// are de-duplicated by ID; names shorter than two characters are dropped.
func ParseRoster(html []byte, teamID int) []models.RosterPlayer {
	doc, err := parse(html)
	if err != nil {
		return nil
	}
	seen := make(map[string]bool)
	var players []models.RosterPlayer
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		m := playerLinkRe.FindStringSubmatch(href)
		if m == nil || seen[m[1]] {
			return
		}
		// Photo links carry no text; a later text link for the same ID
		// still counts.
		name := strings.TrimSpace(a.Text())
		if utf8.RuneCountInString(name) < 2 {
			return
		}
		seen[m[1]] = true
		players = append(players, models.RosterPlayer{ACBID: m[1], Name: name, TeamID: teamID})
	})
	return players
}

// ParsePlayerDetails reads the loosely structured profile page of a player.
// Attributes that cannot be found stay nil.
func ParsePlayerDetails(html []byte, playerID string) models.PlayerDetails {
	details := models.PlayerDetails{ACBID: playerID}

	doc, err := parse(html)
	if err != nil {
		return details
	}
	text := doc.Text()

	details.Nationality = nationality(text)

	if m := heightRe.FindStringSubmatch(text); m != nil {
		details.Height = models.Ptr(strings.ReplaceAll(m[1], ",", "."))
	}
	if m := jerseyRe.FindStringSubmatch(text); m != nil {
		details.Jersey = models.Ptr(m[1])
	}

	lower := strings.ToLower(text)
	for _, pos := range positions {
		if strings.Contains(lower, strings.ToLower(pos)) {
			details.Position = models.Ptr(pos)
			break
		}
	}

	if m := gamesRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			details.GamesPlayed = &n
		}
	}

	statsText := text
	section := doc.Find("div[class]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		return strings.Contains(class, "stats") || strings.Contains(class, "estadisticas")
	}).First()
	if section.Length() > 0 {
		statsText = section.Text()
	}
	details.PPG = decimal(pointsRe, statsText)
	details.RPG = decimal(reboundRe, statsText)
	details.APG = decimal(assistRe, statsText)

	return details
}

func nationality(text string) *string {
	for _, re := range nationalityPatterns {
		m := re.FindString(text)
		if m == "" {
			continue
		}
		for _, marker := range usaMarkers {
			if strings.EqualFold(m, marker) {
				return models.Ptr("USA")
			}
		}
		return models.Ptr(m)
	}
	return nil
}

func decimal(re *regexp.Regexp, text string) *float64 {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return nil
	}
	return &v
}
