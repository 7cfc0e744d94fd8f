// Package boxscore turns box-score HTML tables into per-player game lines.
package boxscore

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fortuna/acbscout/internal/models"
)

// Stat is a canonical box-score column.
type Stat int

const (
	Minutes Stat = iota
	Points
	Rebounds
	Assists
	Steals
	Blocks
	Turnovers
	Rating
)

// vocabulary maps header labels, upper-cased, to canonical columns. Labels
// are Spanish and English abbreviations seen across sources.
var vocabulary = map[string]Stat{
	"MIN": Minutes,
	"PTS": Points, "PT": Points, "P": Points,
	"REB": Rebounds, "RT": Rebounds, "R": Rebounds, "RB": Rebounds,
	"AST": Assists, "AS": Assists, "A": Assists,
	"ROB": Steals, "ST": Steals, "STL": Steals,
	"TAP": Blocks, "BL": Blocks, "BLK": Blocks,
	"TO": Turnovers, "PER": Turnovers, "TOV": Turnovers,
	"VAL": Rating, "PIR": Rating,
}

// LookupHeader returns the canonical column for a header label.
func LookupHeader(label string) (Stat, bool) {
	s, ok := vocabulary[strings.ToUpper(strings.TrimSpace(label))]
	return s, ok
}

// Extractor reads every statistics table of a page.
type Extractor struct {
	Profile Profile
}

// New returns an Extractor for profile.
func New(profile Profile) *Extractor {
	return &Extractor{Profile: profile}
}

// Extract returns one performance per valid player row, in document order.
// Unparseable documents and tables without a header yield nothing.
func (e *Extractor) Extract(html []byte, matchID, gameURL string) []models.GamePerformance {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil
	}
	return e.ExtractDocument(doc, matchID, gameURL)
}

// ExtractDocument is Extract for an already parsed document.
func (e *Extractor) ExtractDocument(doc *goquery.Document, matchID, gameURL string) []models.GamePerformance {
	var out []models.GamePerformance
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		out = append(out, e.extractTable(table, matchID, gameURL)...)
	})
	return out
}

func (e *Extractor) extractTable(table *goquery.Selection, matchID, gameURL string) []models.GamePerformance {
	rows := table.Find("tr")
	if rows.Length() < e.Profile.MinRows {
		return nil
	}

	headerIdx := -1
	var columns map[Stat]int
	limit := min(e.Profile.HeaderLookahead, rows.Length())
	for i := 0; i < limit; i++ {
		if cm := headerColumns(rows.Eq(i)); len(cm) > 0 {
			headerIdx, columns = i, cm
			break
		}
	}
	if headerIdx < 0 {
		return nil
	}

	var out []models.GamePerformance
	rows.Slice(headerIdx+1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
		if perf, ok := e.extractRow(row, columns, matchID, gameURL); ok {
			out = append(out, perf)
		}
	})
	return out
}

// headerColumns maps recognised labels in row to their cell index. A label
// seen twice keeps its last position.
func headerColumns(row *goquery.Selection) map[Stat]int {
	columns := make(map[Stat]int)
	row.Find("th, td").Each(func(idx int, cell *goquery.Selection) {
		if stat, ok := LookupHeader(cell.Text()); ok {
			columns[stat] = idx
		}
	})
	return columns
}

func (e *Extractor) extractRow(row *goquery.Selection, columns map[Stat]int, matchID, gameURL string) (models.GamePerformance, bool) {
	cells := row.Find("th, td")
	if cells.Length() < e.Profile.MinCells {
		return models.GamePerformance{}, false
	}

	link := row.Find("a").FilterFunction(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		return strings.Contains(href, e.Profile.LinkMarker)
	}).First()
	if link.Length() == 0 {
		return models.GamePerformance{}, false
	}

	href, _ := link.Attr("href")
	name := e.Profile.label(href, link.Text())
	if name == "" || strings.Contains(strings.ToLower(name), "total") {
		return models.GamePerformance{}, false
	}

	perf := models.GamePerformance{
		MatchID:    matchID,
		PlayerName: name,
		PlayerID:   e.Profile.playerID(href),
		GameURL:    gameURL,
	}
	for stat, idx := range columns {
		if idx >= cells.Length() {
			continue
		}
		applyCell(&perf, stat, cells.Eq(idx).Text())
	}

	if perf.Minutes == nil && perf.Points == nil {
		return models.GamePerformance{}, false
	}
	return perf, true
}

// applyCell parses one cell into perf. Unparseable text leaves the field nil.
func applyCell(perf *models.GamePerformance, stat Stat, raw string) {
	text := CleanCell(raw)
	if text == "" || strings.Contains(text, "-") {
		return
	}

	if stat == Minutes {
		if strings.Contains(text, ":") {
			perf.Minutes = &text
			return
		}
		if _, ok := ParseNumber(text); ok {
			perf.Minutes = &text
		}
		return
	}

	value, ok := ParseNumber(text)
	if !ok {
		return
	}
	if stat == Rating {
		perf.Rating = &value
		return
	}

	count, ok := wholeNumber(value)
	if !ok {
		return
	}
	switch stat {
	case Points:
		perf.Points = &count
	case Rebounds:
		perf.Rebounds = &count
	case Assists:
		perf.Assists = &count
	case Steals:
		perf.Steals = &count
	case Blocks:
		perf.Blocks = &count
	case Turnovers:
		perf.Turnovers = &count
	}
}

// CleanCell drops everything from the first '(' and trims the rest.
// "5 (45%)" becomes "5".
func CleanCell(raw string) string {
	text, _, _ := strings.Cut(raw, "(")
	return strings.TrimSpace(text)
}

// ParseNumber parses text as an integer, then as a float with ',' as the
// decimal separator.
func ParseNumber(text string) (float64, bool) {
	if n, err := strconv.Atoi(text); err == nil {
		return float64(n), true
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func wholeNumber(v float64) (int, bool) {
	if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return 0, false
	}
	return int(v), true
}
