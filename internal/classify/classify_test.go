package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var roster = []string{"Will Clyburn", "Jahlil Okafor", "Kevin Punter", "D.J. Stephens", "Ben Lammers"}

func TestIsAmerican(t *testing.T) {
	c := NewNameClassifier(roster)

	cases := []struct {
		name string
		want bool
	}{
		{"Will Clyburn", true},
		{"  WILL CLYBURN ", true},
		{"J. Okafor", true},
		{"Kevin Punter Jr", true},
		{"Punter", true},
		{"Stephens", true},
		{"John Doe", false},
		{"Ben Key", false},
		{"Nikola Mirotic", false},
		{"", false},
		{"   ", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, c.IsAmerican(tc.name), tc.name)
	}
}

func TestIsAmerican_ShortSurnameNeedsContainment(t *testing.T) {
	c := NewNameClassifier([]string{"Braxton Key"})

	assert.False(t, c.IsAmerican("Marcus Key"))
	assert.True(t, c.IsAmerican("Braxton Key"))
}

func TestIsAmerican_Diacritics(t *testing.T) {
	c := NewNameClassifier([]string{"Sergio Llull"})

	assert.True(t, c.IsAmerican("Sérgio Llúll"))
	assert.True(t, c.IsAmerican("S. Llull"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "jose niguez", Normalize(" José Ñíguez "))
	assert.Equal(t, "d.j. stephens", Normalize("D.J. Stephens"))
	assert.Equal(t, "", Normalize(""))
}

func TestIsAmericanNationality(t *testing.T) {
	for _, s := range []string{"United States", "USA", "usa", "American", "AMERICAN"} {
		assert.True(t, IsAmericanNationality(s), s)
	}
	for _, s := range []string{"", "Spain", "United States of America", "US", " USA"} {
		assert.False(t, IsAmericanNationality(s), s)
	}
}

func TestNewNameClassifierSkipsBlanks(t *testing.T) {
	c := NewNameClassifier([]string{"", "  ", "Ethan Happ"})
	assert.Equal(t, 1, c.Len())
}

func TestVariantSet(t *testing.T) {
	s := NewVariantSet([]string{"Miles Norris", "Kevin Punter", "Okafor", ""})

	assert.True(t, s.IsAmerican("miles norris"))
	assert.True(t, s.IsAmerican("Norris"))
	assert.True(t, s.IsAmerican("Chuck Norrison"))
	assert.True(t, s.IsAmerican("Punter, Kevin"))
	assert.True(t, s.IsAmerican("Jahlil Okafor"))
	assert.False(t, s.IsAmerican("Nikola Mirotic"))
	assert.False(t, s.IsAmerican(""))
}
