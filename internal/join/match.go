package join

import (
	"sort"
	"strings"

	"github.com/fortuna/acbscout/internal/classify"
	"github.com/fortuna/acbscout/internal/models"
)

// StatsKey is the lookup key of an acb.com player name: lower-cased,
// trimmed, and reduced to the text after the last ". " so that "T.
// Kalinoski" is keyed as "kalinoski".
func StatsKey(name string) string {
	key := strings.TrimSpace(strings.ToLower(name))
	if i := strings.LastIndex(key, ". "); i >= 0 {
		key = key[i+2:]
	}
	return key
}

// StatsIndex finds box-score statistics for roster names.
type StatsIndex struct {
	byKey map[string]*models.ACBAmericanPlayer
	keys  []string
}

// NewStatsIndex indexes players by StatsKey. A later player with the same
// key replaces an earlier one; players with an empty key are skipped.
func NewStatsIndex(players []models.ACBAmericanPlayer) *StatsIndex {
	idx := &StatsIndex{byKey: make(map[string]*models.ACBAmericanPlayer, len(players))}
	for i := range players {
		key := StatsKey(players[i].Name)
		if key == "" {
			continue
		}
		idx.byKey[key] = &players[i]
	}
	idx.keys = make([]string, 0, len(idx.byKey))
	for key := range idx.byKey {
		idx.keys = append(idx.keys, key)
	}
	sort.Strings(idx.keys)
	return idx
}

// Len is the number of distinct keys.
func (idx *StatsIndex) Len() int {
	return len(idx.keys)
}

// Match returns the statistics for a roster name. The normalized last token
// is tried as an exact key first; otherwise keys are scanned in ascending
// order and the first one that contains, or is contained in, the normalized
// name wins.
func (idx *StatsIndex) Match(name string) *models.ACBAmericanPlayer {
	norm := classify.Normalize(name)
	if norm == "" {
		return nil
	}
	if p, ok := idx.byKey[classify.LastToken(norm)]; ok {
		return p
	}
	for _, key := range idx.keys {
		if strings.Contains(norm, key) || strings.Contains(key, norm) {
			return idx.byKey[key]
		}
	}
	return nil
}
