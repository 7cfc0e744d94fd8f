package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fortuna/acbscout/internal/models"
)

func TestTotals(t *testing.T) {
	var buf bytes.Buffer
	Totals(&buf, "Daily run", []Count{{"Clubs", 18}, {"American players", 31}})

	out := buf.String()
	assert.Contains(t, strings.ToLower(out), "daily run")
	assert.Contains(t, out, "American players")
	assert.Contains(t, out, "31")
}

func TestAmericansRespectsLimit(t *testing.T) {
	var buf bytes.Buffer
	Americans(&buf, []models.Player{
		{Name: "Will Clyburn", TeamName: "Real Madrid", Position: models.Ptr("Forward")},
		{Name: "Jahlil Okafor", TeamName: "Barcelona"},
	}, 1)

	out := buf.String()
	assert.Contains(t, out, "Will Clyburn")
	assert.Contains(t, out, "Forward")
	assert.NotContains(t, out, "Jahlil Okafor")
}

func TestACBAmericansShowsMissingAverages(t *testing.T) {
	var buf bytes.Buffer
	ACBAmericans(&buf, []models.ACBAmericanPlayer{
		{ACBID: "20210", Name: "W. Clyburn", GamesTracked: 2, CalculatedPPG: models.Ptr(14.5)},
	}, 0)

	out := buf.String()
	assert.Contains(t, out, "14.5")
	assert.Equal(t, 2, strings.Count(out, "N/A"))
}

func TestUnifiedUnknownHometown(t *testing.T) {
	var buf bytes.Buffer
	Unified(&buf, []models.UnifiedPlayerRecord{
		{Name: "Ben Lammers", Team: "Unicaja"},
		{Name: "Will Clyburn", Team: "Real Madrid", Hometown: models.Ptr("Detroit, Michigan")},
	}, 15)

	out := buf.String()
	assert.Contains(t, out, "Unknown")
	assert.Contains(t, out, "Detroit, Michigan")
}

func TestStatLeaders(t *testing.T) {
	var buf bytes.Buffer
	StatLeaders(&buf, []models.PlayerStatSummary{{PlayerName: "Miles Norris", GamesPlayed: 2, PPG: 13.5}}, 10)
	assert.Contains(t, buf.String(), "Miles Norris")
}
