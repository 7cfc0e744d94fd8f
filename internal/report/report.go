// Package report prints end-of-run summaries as console tables.
package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/fortuna/acbscout/internal/models"
)

// Count is one labelled total in a summary.
type Count struct {
	Label string
	Value int
}

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)
	return t
}

// Totals renders labelled counts.
func Totals(w io.Writer, title string, counts []Count) {
	t := newTable(w, title)
	for _, c := range counts {
		t.AppendRow(table.Row{c.Label, c.Value})
	}
	t.Render()
}

// Americans lists up to limit roster players found by the daily run.
func Americans(w io.Writer, players []models.Player, limit int) {
	t := newTable(w, "American players")
	t.AppendHeader(table.Row{"Name", "Team", "Position"})
	for _, p := range head(players, limit) {
		t.AppendRow(table.Row{p.Name, p.TeamName, orDash(p.Position)})
	}
	t.Render()
}

// ACBAmericans lists up to limit players discovered in acb.com box scores.
func ACBAmericans(w io.Writer, players []models.ACBAmericanPlayer, limit int) {
	t := newTable(w, "American players (acb.com)")
	t.AppendHeader(table.Row{"Name", "ACB ID", "Games", "PPG", "RPG", "APG"})
	for _, p := range head(players, limit) {
		t.AppendRow(table.Row{p.Name, p.ACBID, p.GamesTracked, average(p.CalculatedPPG), average(p.CalculatedRPG), average(p.CalculatedAPG)})
	}
	t.Render()
}

// StatLeaders lists the eurobasket per-player summaries in their order.
func StatLeaders(w io.Writer, players []models.PlayerStatSummary, limit int) {
	t := newTable(w, "Season averages (eurobasket.com)")
	t.AppendHeader(table.Row{"Player", "GP", "PPG", "RPG", "APG"})
	for _, p := range head(players, limit) {
		t.AppendRow(table.Row{p.PlayerName, p.GamesPlayed, p.PPG, p.RPG, p.APG})
	}
	t.Render()
}

// Unified lists up to limit joined records with their hometowns.
func Unified(w io.Writer, records []models.UnifiedPlayerRecord, limit int) {
	t := newTable(w, "Unified players")
	t.AppendHeader(table.Row{"Name", "Team", "Hometown", "College", "GP", "PPG"})
	for _, r := range head(records, limit) {
		hometown := "Unknown"
		if r.Hometown != nil {
			hometown = *r.Hometown
		}
		t.AppendRow(table.Row{r.Name, r.Team, hometown, orDash(r.College), r.GamesPlayed, r.PPG})
	}
	t.Render()
}

func head[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func average(f *float64) string {
	if f == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *f)
}
