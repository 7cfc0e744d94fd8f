// Package classify decides whether a scraped player is American.
package classify

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// minSurnameLen is the surname length above which an identical surname alone
// counts as a match.
const minSurnameLen = 3

var americanNationalities = map[string]struct{}{
	"united states": {},
	"usa":           {},
	"american":      {},
}

// Normalize folds a name for comparison: NFKD decomposition, non-ASCII
// dropped, lower-cased, trimmed. "José Ñíguez" becomes "jose niguez".
func Normalize(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	return strings.TrimSpace(strings.ToLower(folded))
}

// LastToken returns the final whitespace-separated token of s.
func LastToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// IsAmericanNationality reports whether a nationality string names the
// United States. Matching is exact apart from case.
func IsAmericanNationality(nationality string) bool {
	_, ok := americanNationalities[strings.ToLower(nationality)]
	return ok
}

type reference struct {
	norm    string
	surname string
}

// NameClassifier matches names against a reference roster of known
// American players.
type NameClassifier struct {
	refs []reference
}

// NewNameClassifier builds a classifier from reference names. Blank entries
// are ignored.
func NewNameClassifier(names []string) *NameClassifier {
	c := &NameClassifier{refs: make([]reference, 0, len(names))}
	for _, name := range names {
		n := Normalize(name)
		if n == "" {
			continue
		}
		c.refs = append(c.refs, reference{norm: n, surname: LastToken(n)})
	}
	return c
}

// Len is the number of reference names.
func (c *NameClassifier) Len() int {
	return len(c.refs)
}

// IsAmerican reports whether name matches a reference entry: either
// normalized string contains the other, or both share a surname longer than
// three characters.
func (c *NameClassifier) IsAmerican(name string) bool {
	n := Normalize(name)
	if n == "" {
		return false
	}
	surname := LastToken(n)
	for _, ref := range c.refs {
		if strings.Contains(n, ref.norm) || strings.Contains(ref.norm, n) {
			return true
		}
		if surname == ref.surname && len(surname) > minSurnameLen {
			return true
		}
	}
	return false
}

// VariantSet matches box-score names against a list of known players using
// each full name, its "last, first" form and its bare surname. Matching is
// containment either way on lower-cased text, so a bare surname accepts any
// name containing it.
type VariantSet struct {
	variants []string
}

// NewVariantSet builds a VariantSet from display names.
func NewVariantSet(names []string) *VariantSet {
	seen := make(map[string]bool)
	s := &VariantSet{}
	add := func(v string) {
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		s.variants = append(s.variants, v)
	}
	for _, name := range names {
		add(strings.ToLower(name))
		parts := strings.Fields(name)
		if len(parts) >= 2 {
			last := parts[len(parts)-1]
			add(strings.ToLower(last + ", " + parts[0]))
			add(strings.ToLower(last))
		}
	}
	return s
}

// IsAmerican reports whether name contains, or is contained in, any variant.
func (s *VariantSet) IsAmerican(name string) bool {
	n := strings.ToLower(name)
	if n == "" {
		return false
	}
	for _, v := range s.variants {
		if strings.Contains(n, v) || strings.Contains(v, n) {
			return true
		}
	}
	return false
}
