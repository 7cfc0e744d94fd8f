package boxscore

import (
	"regexp"
	"strings"
)

// Profile describes the markup conventions of one box-score source.
type Profile struct {
	Name string

	// HeaderLookahead is how many leading rows of a table are searched for
	// the header row.
	HeaderLookahead int
	// MinRows skips tables with fewer rows.
	MinRows int
	// MinCells skips data rows with fewer cells.
	MinCells int

	// LinkMarker is a substring of the href of the player link.
	LinkMarker string
	// IDPattern captures the player's source ID from the link href.
	IDPattern *regexp.Regexp
	// NamePattern, when set, reads the display name from the first capture
	// of the link href instead of the link text, with '-' turned into spaces.
	NamePattern *regexp.Regexp
}

// ACB reads acb.com game statistics pages.
var ACB = Profile{
	Name:            "acb",
	HeaderLookahead: 3,
	MinRows:         2,
	MinCells:        5,
	LinkMarker:      "/jugador/",
	IDPattern:       regexp.MustCompile(`/jugador/ver/(\d+)`),
}

// Eurobasket reads eurobasket.com box scores. The displayed player names are
// obfuscated; the real name is the slug in /player/<First-Last>/<id>.
var Eurobasket = Profile{
	Name:            "eurobasket",
	HeaderLookahead: 3,
	MinRows:         4,
	MinCells:        5,
	LinkMarker:      "/player/",
	IDPattern:       regexp.MustCompile(`/player/[^/]+/(\d+)`),
	NamePattern:     regexp.MustCompile(`/player/([^/]+)/`),
}

// label returns the player name for a link, or "" when none can be read.
func (p Profile) label(href, text string) string {
	if p.NamePattern == nil {
		return strings.TrimSpace(text)
	}
	m := p.NamePattern.FindStringSubmatch(href)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(m[1], "-", " "))
}

// playerID returns the source ID captured from href.
func (p Profile) playerID(href string) *string {
	if p.IDPattern == nil {
		return nil
	}
	m := p.IDPattern.FindStringSubmatch(href)
	if m == nil {
		return nil
	}
	id := m[1]
	return &id
}
